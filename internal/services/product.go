package services

import (
	"context"
	"io"

	"github.com/Taboada40/PinoyHiratage/internal/backend"
	"github.com/Taboada40/PinoyHiratage/internal/metrics"
	"github.com/Taboada40/PinoyHiratage/internal/models"
)

// ProductService reads the catalog and forwards back-office product
// management (including multipart image uploads) to the backend.
type ProductService struct {
	backend *backend.Client
	metrics *metrics.AppMetrics
}

// NewProductService creates a new product service
func NewProductService(bc *backend.Client, m *metrics.AppMetrics) *ProductService {
	return &ProductService{
		backend: bc,
		metrics: m,
	}
}

// List returns the full product catalog.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.backend.AdminProducts(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// Create forwards a new product with its optional image.
func (s *ProductService) Create(ctx context.Context, fields map[string]string, image io.Reader, imageName string) (*models.Product, error) {
	return s.backend.CreateProduct(ctx, fields, image, imageName)
}

// Update forwards product changes, optionally replacing the image.
func (s *ProductService) Update(ctx context.Context, productID int64, fields map[string]string, image io.Reader, imageName string) (*models.Product, error) {
	return s.backend.UpdateProduct(ctx, productID, fields, image, imageName)
}

// Delete removes a product from the catalog.
func (s *ProductService) Delete(ctx context.Context, productID int64) error {
	return s.backend.DeleteProduct(ctx, productID)
}
