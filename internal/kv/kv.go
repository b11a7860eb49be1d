package kv

import "context"

// Store is the client-storage abstraction backing session identity and the
// local cart snapshots. Semantics mirror browser localStorage: plain string
// values, whole-value overwrite, last writer wins, no versioning.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set overwrites the value under key.
	Set(ctx context.Context, key, value string) error
	// Delete removes the given keys; absent keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
