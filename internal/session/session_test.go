package session

import (
	"context"
	"testing"

	"github.com/Taboada40/PinoyHiratage/internal/kv"
	"github.com/Taboada40/PinoyHiratage/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadActorEmptyStorageIsGuest(t *testing.T) {
	store := NewStore(kv.NewMemoryStore())

	actor := store.ReadActor(context.Background())
	assert.True(t, actor.IsGuest())
	assert.Empty(t, actor.Username)
	assert.Empty(t, actor.Role)
}

func TestSaveActorThenRead(t *testing.T) {
	store := NewStore(kv.NewMemoryStore())
	ctx := context.Background()

	saved := models.Actor{ID: "7", Username: "maria", Email: "maria@example.com", Role: models.RoleCustomer}
	require.NoError(t, store.SaveActor(ctx, saved))

	actor := store.ReadActor(ctx)
	assert.Equal(t, saved, actor)
	assert.False(t, actor.IsGuest())
}

func TestClearActorRemovesIdentityAndOwnCarts(t *testing.T) {
	storage := kv.NewMemoryStore()
	store := NewStore(storage)
	ctx := context.Background()

	require.NoError(t, store.SaveActor(ctx, models.Actor{ID: "7", Username: "maria", Role: models.RoleCustomer}))
	require.NoError(t, storage.Set(ctx, "guestCart", `[{"id":1}]`))
	require.NoError(t, storage.Set(ctx, "userCart_7", `[{"id":2}]`))
	require.NoError(t, storage.Set(ctx, "userCart_9", `[{"id":3}]`))

	require.NoError(t, store.ClearActor(ctx))

	actor := store.ReadActor(ctx)
	assert.True(t, actor.IsGuest())

	_, ok, err := storage.Get(ctx, "guestCart")
	require.NoError(t, err)
	assert.False(t, ok, "guest cart should be forfeited on logout")

	_, ok, err = storage.Get(ctx, "userCart_7")
	require.NoError(t, err)
	assert.False(t, ok, "logged-out user's fallback cart should be removed")

	// Other users' fallback carts are untouched.
	_, ok, err = storage.Get(ctx, "userCart_9")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClearActorAsGuestOnlyTouchesGuestKeys(t *testing.T) {
	storage := kv.NewMemoryStore()
	store := NewStore(storage)
	ctx := context.Background()

	require.NoError(t, storage.Set(ctx, "guestCart", `[{"id":1}]`))
	require.NoError(t, storage.Set(ctx, "userCart_7", `[{"id":2}]`))

	require.NoError(t, store.ClearActor(ctx))

	_, ok, err := storage.Get(ctx, "guestCart")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = storage.Get(ctx, "userCart_7")
	require.NoError(t, err)
	assert.True(t, ok)
}
