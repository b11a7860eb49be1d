package localcart

import (
	"context"
	"testing"

	"github.com/Taboada40/PinoyHiratage/internal/kv"
	"github.com/Taboada40/PinoyHiratage/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeKeyFor(t *testing.T) {
	assert.Equal(t, "guestCart", ScopeKeyFor(models.Actor{}))
	assert.Equal(t, "userCart_42", ScopeKeyFor(models.Actor{ID: "42", Role: models.RoleCustomer}))
}

func TestLoadAbsentKeyReturnsEmpty(t *testing.T) {
	store := NewStore(kv.NewMemoryStore())

	items := store.Load(context.Background(), GuestScopeKey)
	assert.Empty(t, items)
}

func TestLoadDiscardsUnparseableSnapshot(t *testing.T) {
	storage := kv.NewMemoryStore()
	require.NoError(t, storage.Set(context.Background(), GuestScopeKey, "{not json"))

	store := NewStore(storage)
	items := store.Load(context.Background(), GuestScopeKey)
	assert.Empty(t, items)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewStore(kv.NewMemoryStore())
	ctx := context.Background()

	saved := []models.CartLineItem{
		{ID: 1, ProductName: "Barong Tagalog", Quantity: 2, UnitPrice: 1500, Amount: 3000, Size: "M"},
	}
	require.NoError(t, store.Save(ctx, "userCart_7", saved))

	loaded := store.Load(ctx, "userCart_7")
	require.Len(t, loaded, 1)
	assert.Equal(t, "Barong Tagalog", loaded[0].ProductName)
	assert.Equal(t, 2, loaded[0].Quantity)
	assert.Equal(t, 3000.0, loaded[0].Amount)
}

func TestSaveNilWritesEmptySnapshot(t *testing.T) {
	storage := kv.NewMemoryStore()
	store := NewStore(storage)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, GuestScopeKey, nil))

	raw, ok, err := storage.Get(ctx, GuestScopeKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", raw)
}

func TestClearRemovesSnapshot(t *testing.T) {
	store := NewStore(kv.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, GuestScopeKey, []models.CartLineItem{{ID: 1, ProductName: "Salakot"}}))
	require.NoError(t, store.Clear(ctx, GuestScopeKey))

	assert.Empty(t, store.Load(ctx, GuestScopeKey))
}

func TestMergeIncrementsMatchingLine(t *testing.T) {
	items := []models.CartLineItem{
		{ID: 10, ProductName: "Barong Tagalog", Size: "M", Quantity: 1, UnitPrice: 1500, Amount: 1500, HasSizes: true},
	}

	merged := Merge(items, models.CartLineItem{
		ProductName: "Barong Tagalog", Size: "M", Quantity: 2, UnitPrice: 1500, HasSizes: true,
	})

	require.Len(t, merged, 1)
	assert.Equal(t, int64(10), merged[0].ID)
	assert.Equal(t, 3, merged[0].Quantity)
	assert.Equal(t, 4500.0, merged[0].Amount)
}

func TestMergeAppendsDistinctSize(t *testing.T) {
	items := []models.CartLineItem{
		{ID: 10, ProductName: "Barong Tagalog", Size: "M", Quantity: 1, UnitPrice: 1500, Amount: 1500, HasSizes: true},
	}

	merged := Merge(items, models.CartLineItem{
		ProductName: "Barong Tagalog", Size: "L", Quantity: 1, UnitPrice: 1500, HasSizes: true,
	})

	require.Len(t, merged, 2)
	assert.Equal(t, "L", merged[1].Size)
	assert.NotZero(t, merged[1].ID)
	assert.Equal(t, 1500.0, merged[1].Amount)
}

func TestMergeIgnoresSizeWhenProductHasNone(t *testing.T) {
	// Accessories carry no size; the identity is the name alone.
	items := []models.CartLineItem{
		{ID: 10, ProductName: "Salakot", Quantity: 1, UnitPrice: 350, Amount: 350},
	}

	merged := Merge(items, models.CartLineItem{ProductName: "Salakot", Quantity: 1, UnitPrice: 350})

	require.Len(t, merged, 1)
	assert.Equal(t, 2, merged[0].Quantity)
}

func TestMergeIntoEmptySnapshot(t *testing.T) {
	merged := Merge(nil, models.CartLineItem{ProductName: "Salakot", Quantity: 3, UnitPrice: 350})

	require.Len(t, merged, 1)
	assert.Equal(t, 1050.0, merged[0].Amount)
	assert.NotZero(t, merged[0].ID)
}
