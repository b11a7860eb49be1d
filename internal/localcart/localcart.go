// Package localcart persists cart snapshots in client storage, scoped per
// actor. It is strictly a last-resort cache: the backend cart stays
// authoritative whenever it is reachable, and guest carts live only here.
package localcart

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Taboada40/PinoyHiratage/internal/kv"
	"github.com/Taboada40/PinoyHiratage/internal/models"
)

const (
	// GuestScopeKey stores the guest cart snapshot.
	GuestScopeKey = "guestCart"
	// UserScopePrefix prefixes per-user fallback cart keys.
	UserScopePrefix = "userCart_"
)

// Store reads and writes cart snapshots.
type Store struct {
	storage kv.Store
}

// NewStore creates a local cart store over the given client storage
func NewStore(storage kv.Store) *Store {
	return &Store{storage: storage}
}

// ScopeKeyFor returns the storage key for the actor's cart snapshot.
func ScopeKeyFor(actor models.Actor) string {
	if actor.IsGuest() {
		return GuestScopeKey
	}
	return UserScopePrefix + actor.ID
}

// Load returns the snapshot under scopeKey. An absent key or content that
// fails to parse yields an empty snapshot; parse failures are swallowed.
func (s *Store) Load(ctx context.Context, scopeKey string) []models.CartLineItem {
	raw, ok, err := s.storage.Get(ctx, scopeKey)
	if err != nil || !ok {
		return nil
	}

	var items []models.CartLineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Printf("localcart: discarding unparseable snapshot %s: %v", scopeKey, err)
		return nil
	}
	return items
}

// Save serializes items and overwrites the whole snapshot under scopeKey.
func (s *Store) Save(ctx context.Context, scopeKey string, items []models.CartLineItem) error {
	if items == nil {
		items = []models.CartLineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.storage.Set(ctx, scopeKey, string(raw))
}

// Clear removes the snapshot under scopeKey.
func (s *Store) Clear(ctx context.Context, scopeKey string) error {
	return s.storage.Delete(ctx, scopeKey)
}

// Merge folds candidate into items. A line with matching identity gets its
// quantity incremented and amount recomputed; otherwise candidate is
// appended with a freshly generated local id.
func Merge(items []models.CartLineItem, candidate models.CartLineItem) []models.CartLineItem {
	for i := range items {
		if items[i].MatchesIdentity(candidate) {
			items[i].Quantity += candidate.Quantity
			items[i].Amount = items[i].UnitPrice * float64(items[i].Quantity)
			return items
		}
	}

	candidate.ID = newLocalID()
	candidate.Amount = candidate.UnitPrice * float64(candidate.Quantity)
	return append(items, candidate)
}

// newLocalID generates a local line id the way the storefront always has:
// current Unix milliseconds. Local ids never reach the backend.
func newLocalID() int64 {
	return time.Now().UnixMilli()
}
