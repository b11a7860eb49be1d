package services

import (
	"context"

	"github.com/Taboada40/PinoyHiratage/internal/backend"
	"github.com/Taboada40/PinoyHiratage/internal/metrics"
	"github.com/Taboada40/PinoyHiratage/internal/models"
)

// ReservedAdminEmail is the back-office account hidden from the customer
// overview listing.
const ReservedAdminEmail = "admin@pinoyheritage.com"

// CustomerService reads the backend's customer accounts for the back office.
type CustomerService struct {
	backend *backend.Client
	metrics *metrics.AppMetrics
}

// NewCustomerService creates a new customer service
func NewCustomerService(bc *backend.Client, m *metrics.AppMetrics) *CustomerService {
	return &CustomerService{
		backend: bc,
		metrics: m,
	}
}

// List returns all customers with the reserved admin account filtered out.
func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	customers, err := s.backend.Customers(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]models.Customer, 0, len(customers))
	for _, customer := range customers {
		if customer.Email == ReservedAdminEmail {
			continue
		}
		filtered = append(filtered, customer)
	}
	return filtered, nil
}
