package services

import (
	"context"
	"log"

	"github.com/Taboada40/PinoyHiratage/internal/backend"
	"github.com/Taboada40/PinoyHiratage/internal/localcart"
	"github.com/Taboada40/PinoyHiratage/internal/metrics"
	"github.com/Taboada40/PinoyHiratage/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OrderService handles order reads and the payment-simulation checkout.
// Order state transitions are validated by the backend; the service only
// issues the requests.
type OrderService struct {
	backend *backend.Client
	local   *localcart.Store
	metrics *metrics.AppMetrics
}

// NewOrderService creates a new order service
func NewOrderService(bc *backend.Client, local *localcart.Store, m *metrics.AppMetrics) *OrderService {
	return &OrderService{
		backend: bc,
		local:   local,
		metrics: m,
	}
}

// PlaceFromCart completes checkout with the selected payment method.
// Authenticated actors get a server order built from their server cart; the
// local fallback snapshot is cleared once the order exists. Guests have no
// server cart, so their local snapshot is consumed and no order is created
// (payment is simulated either way).
func (s *OrderService) PlaceFromCart(ctx context.Context, actor models.Actor, method string) (*models.Order, error) {
	scopeKey := localcart.ScopeKeyFor(actor)

	if actor.IsGuest() {
		if err := s.local.Clear(ctx, scopeKey); err != nil {
			log.Printf("order: failed to clear guest cart after checkout: %v", err)
		}
		s.recordPlaced(ctx, actor, 0)
		return nil, nil
	}

	order, err := s.backend.CreateOrderFromCart(ctx, actor.ID, method)
	if err != nil {
		return nil, err
	}

	// The server cart was consumed into the order; drop the stale
	// fallback snapshot too.
	if err := s.local.Clear(ctx, scopeKey); err != nil {
		log.Printf("order: failed to clear fallback cart %s after checkout: %v", scopeKey, err)
	}

	s.recordPlaced(ctx, actor, order.TotalAmount)
	return order, nil
}

// CustomerOrders returns the actor's order history.
func (s *OrderService) CustomerOrders(ctx context.Context, actor models.Actor) ([]models.Order, error) {
	if actor.IsGuest() {
		return []models.Order{}, nil
	}
	orders, err := s.backend.CustomerOrders(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// AdminOrders returns every order for the back office.
func (s *OrderService) AdminOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.backend.AdminOrders(ctx)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// UpdateStatus requests an order status transition. On failure the caller's
// state stays unchanged; nothing is retried.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	return s.backend.UpdateOrderStatus(ctx, orderID, status)
}

func (s *OrderService) recordPlaced(ctx context.Context, actor models.Actor, amount float64) {
	attrs := s.metrics.WithServiceName([]attribute.KeyValue{
		attribute.Bool("guest", actor.IsGuest()),
	})
	s.metrics.OrdersPlaced.Add(ctx, 1, metric.WithAttributes(attrs...))
	if amount > 0 {
		s.metrics.RevenueTotal.Add(ctx, amount, metric.WithAttributes(attrs...))
	}
}
