package services

import (
	"context"
	"fmt"
	"log"

	"github.com/Taboada40/PinoyHiratage/internal/backend"
	"github.com/Taboada40/PinoyHiratage/internal/localcart"
	"github.com/Taboada40/PinoyHiratage/internal/metrics"
	"github.com/Taboada40/PinoyHiratage/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Cart view source labels.
const (
	SourceServer = "server"
	SourceLocal  = "local"
)

// Banner messages shown when the view is served from fallback data.
const (
	msgSavedLocally   = "Added to cart (saved locally)"
	msgShowingSaved   = "Unable to load cart from server. Showing last saved cart."
	msgConnectionLost = "Server connection error. Showing saved cart."
)

// CartService reconciles cart mutations between the authoritative backend
// cart and the local fallback store. The backend wins whenever it is
// reachable; local snapshots are a last-resort cache and are never promoted
// back to the server. Guest carts exist only locally.
type CartService struct {
	backend  *backend.Client
	local    *localcart.Store
	wishlist *WishlistService
	metrics  *metrics.AppMetrics
}

// NewCartService creates a new cart service
func NewCartService(bc *backend.Client, local *localcart.Store, wishlist *WishlistService, m *metrics.AppMetrics) *CartService {
	return &CartService{
		backend:  bc,
		local:    local,
		wishlist: wishlist,
		metrics:  m,
	}
}

// AddItem adds an item to the actor's cart. Authenticated actors go through
// the backend first and fall back to the local store on any failure; guests
// always use the local store. If the product was favorited, it is removed
// from the wishlist best-effort; that removal can never undo the addition.
func (s *CartService) AddItem(ctx context.Context, actor models.Actor, req models.AddToCartRequest) (*models.CartResponse, error) {
	if req.ProductName == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if req.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}
	if req.UnitPrice < 0 {
		return nil, fmt.Errorf("unit price must not be negative")
	}

	candidate := models.CartLineItem{
		ProductName:  req.ProductName,
		Category:     req.Category,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		Amount:       req.UnitPrice * float64(req.Quantity),
		Size:         req.Size,
		ProductImage: req.ProductImage,
		HasSizes:     req.HasSizes,
	}

	resp, err := s.addItem(ctx, actor, candidate)
	if err != nil {
		return nil, err
	}

	s.recordAdd(ctx, actor, resp)

	// Moving a favorited product into the cart removes it from the
	// wishlist. Failure here must not roll back the cart addition.
	if req.IsFavorite && req.ProductID != 0 && !actor.IsGuest() && !actor.IsAdmin() {
		if err := s.wishlist.Remove(ctx, actor, req.ProductID); err != nil {
			log.Printf("cart: could not remove product %d from wishlist after cart add: %v", req.ProductID, err)
		}
	}

	return resp, nil
}

func (s *CartService) addItem(ctx context.Context, actor models.Actor, candidate models.CartLineItem) (*models.CartResponse, error) {
	if actor.IsGuest() {
		// Guest carts are never sent to the remote API.
		items, err := s.mergeLocal(ctx, actor, candidate)
		if err != nil {
			return nil, err
		}
		return cartResponse(items, SourceLocal, ""), nil
	}

	remote, err := s.backend.AddCartItem(ctx, actor.ID, candidate)
	if err == nil && remote.Success {
		// Trust the server's item set as current view state.
		return cartResponse(remote.Items, SourceServer, ""), nil
	}
	if err != nil {
		log.Printf("cart: backend add failed for user %s, using local fallback: %v", actor.ID, err)
	} else {
		log.Printf("cart: backend rejected add for user %s (%s), using local fallback", actor.ID, remote.Error)
	}

	items, localErr := s.mergeLocal(ctx, actor, candidate)
	if localErr != nil {
		// Both the backend and local storage are unavailable; this flow
		// treats storage failure as unrecoverable.
		return nil, fmt.Errorf("cart add failed remotely and locally: %w", localErr)
	}
	return cartResponse(items, SourceLocal, msgSavedLocally), nil
}

func (s *CartService) mergeLocal(ctx context.Context, actor models.Actor, candidate models.CartLineItem) ([]models.CartLineItem, error) {
	scopeKey := localcart.ScopeKeyFor(actor)
	items := s.local.Load(ctx, scopeKey)
	items = localcart.Merge(items, candidate)
	if err := s.local.Save(ctx, scopeKey, items); err != nil {
		return nil, err
	}
	return items, nil
}

// RemoveItem removes a line from the actor's cart. For authenticated actors
// the remote delete is fire-and-forget: the returned view omits the item
// regardless of the delete outcome. Guests mutate the local snapshot.
func (s *CartService) RemoveItem(ctx context.Context, actor models.Actor, itemID int64) (*models.CartResponse, error) {
	if actor.IsGuest() {
		scopeKey := localcart.ScopeKeyFor(actor)
		items := removeLine(s.local.Load(ctx, scopeKey), itemID)
		if err := s.local.Save(ctx, scopeKey, items); err != nil {
			return nil, err
		}
		return cartResponse(items, SourceLocal, ""), nil
	}

	if err := s.backend.DeleteCartItem(ctx, actor.ID, itemID); err != nil {
		log.Printf("cart: backend delete of item %d failed (ignored): %v", itemID, err)
	}

	view, err := s.Items(ctx, actor)
	if err != nil {
		return nil, err
	}
	view.Items = removeLine(view.Items, itemID)
	view.Total = cartTotal(view.Items)
	return view, nil
}

// Items returns the actor's current cart view. Authenticated reads prefer
// the backend and degrade to the local snapshot with a banner message.
func (s *CartService) Items(ctx context.Context, actor models.Actor) (*models.CartResponse, error) {
	scopeKey := localcart.ScopeKeyFor(actor)

	if actor.IsGuest() {
		return cartResponse(s.local.Load(ctx, scopeKey), SourceLocal, ""), nil
	}

	items, err := s.backend.CartItems(ctx, actor.ID)
	if err == nil {
		return cartResponse(items, SourceServer, ""), nil
	}

	banner := msgShowingSaved
	if _, ok := err.(*backend.StatusError); !ok {
		banner = msgConnectionLost
	}
	log.Printf("cart: backend read failed for user %s, serving local snapshot: %v", actor.ID, err)
	return cartResponse(s.local.Load(ctx, scopeKey), SourceLocal, banner), nil
}

func (s *CartService) recordAdd(ctx context.Context, actor models.Actor, resp *models.CartResponse) {
	attrs := s.metrics.WithServiceName([]attribute.KeyValue{
		attribute.String("source", resp.Source),
		attribute.Bool("guest", actor.IsGuest()),
	})
	s.metrics.CartAddsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	if resp.Source == SourceLocal && !actor.IsGuest() {
		s.metrics.CartFallbackWrites.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	s.metrics.CartItemsCount.Record(ctx, int64(len(resp.Items)), metric.WithAttributes(attrs...))
}

func cartResponse(items []models.CartLineItem, source, banner string) *models.CartResponse {
	if items == nil {
		items = []models.CartLineItem{}
	}
	return &models.CartResponse{
		Items:  items,
		Total:  cartTotal(items),
		Source: source,
		Error:  banner,
	}
}

func cartTotal(items []models.CartLineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

func removeLine(items []models.CartLineItem, itemID int64) []models.CartLineItem {
	kept := items[:0]
	for _, item := range items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	return kept
}
