// Package session reads and clears the actor identity mirrored in client
// storage. It has no write authority over identity beyond the login/logout
// flows; everything else receives the Actor as an explicit value.
package session

import (
	"context"
	"log"

	"github.com/Taboada40/PinoyHiratage/internal/kv"
	"github.com/Taboada40/PinoyHiratage/internal/models"
)

// Client storage keys owned by the identity mirror.
const (
	keyUserID   = "userId"
	keyUsername = "username"
	keyEmail    = "email"
	keyRole     = "role"
	keyUser     = "user"

	guestCartKey      = "guestCart"
	userCartKeyPrefix = "userCart_"
)

// Store reads actor identity from client storage.
type Store struct {
	storage kv.Store
}

// NewStore creates a session store over the given client storage
func NewStore(storage kv.Store) *Store {
	return &Store{storage: storage}
}

// ReadActor derives the current actor from client storage. It never fails:
// storage errors and absent fields degrade to empty fields, and an absent
// userId means a guest.
func (s *Store) ReadActor(ctx context.Context) models.Actor {
	var actor models.Actor
	actor.ID = s.readField(ctx, keyUserID)
	actor.Username = s.readField(ctx, keyUsername)
	actor.Email = s.readField(ctx, keyEmail)
	actor.Role = s.readField(ctx, keyRole)
	return actor
}

// SaveActor mirrors a freshly authenticated identity into client storage.
func (s *Store) SaveActor(ctx context.Context, actor models.Actor) error {
	fields := map[string]string{
		keyUserID:   actor.ID,
		keyUsername: actor.Username,
		keyEmail:    actor.Email,
		keyRole:     actor.Role,
	}
	for key, value := range fields {
		if err := s.storage.Set(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}

// ClearActor removes the cached identity plus all actor-derived local caches.
// The guest cart is deliberately cleared too, forfeiting guest-cart
// continuity across a login/logout cycle. Subsequent ReadActor calls observe
// the cleared state immediately.
func (s *Store) ClearActor(ctx context.Context) error {
	actor := s.ReadActor(ctx)

	keys := []string{keyUserID, keyUsername, keyEmail, keyRole, keyUser, guestCartKey}
	if !actor.IsGuest() {
		keys = append(keys, userCartKeyPrefix+actor.ID)
	}
	return s.storage.Delete(ctx, keys...)
}

func (s *Store) readField(ctx context.Context, key string) string {
	value, ok, err := s.storage.Get(ctx, key)
	if err != nil {
		log.Printf("session: failed to read %s: %v", key, err)
		return ""
	}
	if !ok {
		return ""
	}
	return value
}
