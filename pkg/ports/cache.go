package ports

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by ExportCache.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// ExportCache stores encoded state spaces keyed by a content hash.
// A cache never changes results: callers recompute on any error.
type ExportCache interface {
	// Get returns the bytes stored under key, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
