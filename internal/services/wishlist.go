package services

import (
	"context"
	"log"

	"github.com/Taboada40/PinoyHiratage/internal/backend"
	"github.com/Taboada40/PinoyHiratage/internal/metrics"
	"github.com/Taboada40/PinoyHiratage/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Rejection is a user-facing refusal raised before any network call, for
// example a guest or admin touching the wishlist. It is a message for the
// user, not a transport error.
type Rejection struct {
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

// User-facing rejection messages.
var (
	errLoginRequired  = &Rejection{Message: "Please log in to add to wishlist"}
	errAdminsRejected = &Rejection{Message: "Admins cannot add to wishlist"}
)

// WishlistService coordinates favorite toggles against the backend. All
// operations are pure remote calls; there is deliberately no local
// fallback, unlike the cart.
type WishlistService struct {
	backend *backend.Client
	metrics *metrics.AppMetrics
}

// NewWishlistService creates a new wishlist service
func NewWishlistService(bc *backend.Client, m *metrics.AppMetrics) *WishlistService {
	return &WishlistService{
		backend: bc,
		metrics: m,
	}
}

// guard rejects guests and admins locally, before any network I/O.
func (s *WishlistService) guard(ctx context.Context, actor models.Actor) error {
	if actor.IsGuest() {
		s.recordRejection(ctx, "guest")
		return errLoginRequired
	}
	if actor.IsAdmin() {
		s.recordRejection(ctx, "admin")
		return errAdminsRejected
	}
	return nil
}

// Add marks a product as favorite for the actor.
func (s *WishlistService) Add(ctx context.Context, actor models.Actor, productID int64) error {
	if err := s.guard(ctx, actor); err != nil {
		return err
	}

	if _, err := s.backend.AddToWishlist(ctx, actor.ID, productID); err != nil {
		return err
	}
	s.recordMutation(ctx, "add")
	return nil
}

// Remove unmarks a product as favorite for the actor.
func (s *WishlistService) Remove(ctx context.Context, actor models.Actor, productID int64) error {
	if err := s.guard(ctx, actor); err != nil {
		return err
	}

	if _, err := s.backend.RemoveFromWishlist(ctx, actor.ID, productID); err != nil {
		return err
	}
	s.recordMutation(ctx, "remove")
	return nil
}

// Check reports whether the product is favorited. An unreachable server
// leaves the toggle in its default false state instead of blocking the view.
func (s *WishlistService) Check(ctx context.Context, actor models.Actor, productID int64) bool {
	if actor.IsGuest() || actor.IsAdmin() {
		return false
	}

	favorite, err := s.backend.CheckWishlist(ctx, actor.ID, productID)
	if err != nil {
		log.Printf("wishlist: check for product %d failed, defaulting to false: %v", productID, err)
		return false
	}
	return favorite
}

// List returns the actor's wishlist. Read failures degrade to an empty list.
func (s *WishlistService) List(ctx context.Context, actor models.Actor) (*models.Wishlist, error) {
	if err := s.guard(ctx, actor); err != nil {
		return nil, err
	}

	wishlist, err := s.backend.Wishlist(ctx, actor.ID)
	if err != nil {
		log.Printf("wishlist: list failed for user %s: %v", actor.ID, err)
		return &models.Wishlist{Items: []models.WishlistEntry{}}, err
	}
	if wishlist.Items == nil {
		wishlist.Items = []models.WishlistEntry{}
	}
	return wishlist, nil
}

// Count returns the actor's wishlist size, zero when unavailable.
func (s *WishlistService) Count(ctx context.Context, actor models.Actor) int {
	if actor.IsGuest() || actor.IsAdmin() {
		return 0
	}
	count, err := s.backend.WishlistCount(ctx, actor.ID)
	if err != nil {
		return 0
	}
	return count
}

func (s *WishlistService) recordMutation(ctx context.Context, op string) {
	s.metrics.WishlistMutations.Add(ctx, 1, metric.WithAttributes(s.metrics.WithServiceName([]attribute.KeyValue{
		attribute.String("operation", op),
	})...))
}

func (s *WishlistService) recordRejection(ctx context.Context, reason string) {
	s.metrics.WishlistRejections.Add(ctx, 1, metric.WithAttributes(s.metrics.WithServiceName([]attribute.KeyValue{
		attribute.String("reason", reason),
	})...))
}
