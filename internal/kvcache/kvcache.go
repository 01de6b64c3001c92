// Package kvcache defines the generic key/value store contract used by the
// job store, mirroring the get/set/delete shape of the original
// TVShowCache (original_source/cache.py). The catalog resolver's cache does
// not use it; it wraps patrickmn/go-cache directly.
package kvcache

import (
	"context"
	"time"
)

// Cache is a string-keyed, string-valued store with optional per-entry TTL.
// A ttl of 0 means "no expiry" where the backing store supports it.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
