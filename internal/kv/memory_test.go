package kv

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetSet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "userId", "7"))
	value, ok, err := store.Get(ctx, "userId")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "7", value)

	// Last writer wins.
	require.NoError(t, store.Set(ctx, "userId", "8"))
	value, _, _ = store.Get(ctx, "userId")
	assert.Equal(t, "8", value)
}

func TestMemoryStoreDeleteIgnoresAbsentKeys(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", "1"))
	require.NoError(t, store.Delete(ctx, "a", "never-existed"))

	_, ok, _ := store.Get(ctx, "a")
	assert.False(t, ok)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = store.Set(ctx, "key", "value")
				_, _, _ = store.Get(ctx, "key")
			}
		}()
	}
	wg.Wait()

	value, ok, err := store.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "value", value)
}
