package kv

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store. It is the default backend and the one
// used by tests; a process restart loses its contents.
type MemoryStore struct {
	mu    sync.RWMutex
	store map[string]string
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		store: make(map[string]string),
	}
}

// Get retrieves a value from the store
func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.store[key]
	return value, ok, nil
}

// Set stores a value under key, overwriting any previous value
func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store[key] = value
	return nil
}

// Delete removes the given keys
func (m *MemoryStore) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.store, key)
	}
	return nil
}
