package domain

import (
	"context"
	"time"
)

// CacheStore defines the interface for the shared key-value cache process.
// It is the single primitive behind list snapshots and cooldown keys, so the
// surface deliberately stays close to what the cache server can do atomically.
type CacheStore interface {
	// Get retrieves the raw value stored under key.
	// A missing key is reported as application.ErrCacheMiss, not as (nil, nil).
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key with a specific TTL, overwriting any
	// previous value.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key unconditionally. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// SetNX stores value under key with the given TTL only if the key is
	// absent, as one atomic operation. It reports whether the write happened.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// TTL reports the remaining time-to-live of key. A non-positive duration
	// means the key is absent or has no expiry.
	TTL(ctx context.Context, key string) (time.Duration, error)
}
