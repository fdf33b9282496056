package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/letterboxhq/letterbox-api/internal/application" // For application.ErrCacheMiss
	"github.com/letterboxhq/letterbox-api/internal/domain"
)

// CacheStoreAdapter implements the domain.CacheStore interface using Redis.
// It backs both the collection list snapshots and the cooldown keys, so it
// exposes exactly the primitives those need: GET, SET-with-expiry, DEL, the
// atomic SETNX-with-expiry, and TTL.
type CacheStoreAdapter struct {
	redisClient *redis.Client
	logger      domain.Logger
}

var _ domain.CacheStore = (*CacheStoreAdapter)(nil)

// NewCacheStoreAdapter creates a new instance of CacheStoreAdapter.
func NewCacheStoreAdapter(redisClient *redis.Client, logger domain.Logger) *CacheStoreAdapter {
	if redisClient == nil {
		// Panicking here because this is a critical setup error.
		panic("redisClient cannot be nil in NewCacheStoreAdapter")
	}
	if logger == nil {
		panic("logger cannot be nil in NewCacheStoreAdapter")
	}
	return &CacheStoreAdapter{
		redisClient: redisClient,
		logger:      logger,
	}
}

// Get retrieves the raw value stored under key. An absent key is reported as
// application.ErrCacheMiss.
func (a *CacheStoreAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := a.redisClient.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, application.ErrCacheMiss
	}
	if err != nil {
		a.logger.Error(ctx, "Redis GET failed", "key", key, "error", err.Error())
		return nil, fmt.Errorf("redis GET for key '%s' failed: %w", key, err)
	}
	return val, nil
}

// Set stores value under key with the given TTL, overwriting any previous value.
func (a *CacheStoreAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := a.redisClient.Set(ctx, key, value, ttl).Err(); err != nil {
		a.logger.Error(ctx, "Redis SET failed", "key", key, "ttl", ttl.String(), "error", err.Error())
		return fmt.Errorf("redis SET for key '%s' failed: %w", key, err)
	}
	a.logger.Debug(ctx, "Redis SET ok", "key", key, "ttl", ttl.String())
	return nil
}

// Delete removes key unconditionally. Deleting an absent key is not an error,
// which keeps invalidation idempotent.
func (a *CacheStoreAdapter) Delete(ctx context.Context, key string) error {
	if err := a.redisClient.Del(ctx, key).Err(); err != nil {
		a.logger.Error(ctx, "Redis DEL failed", "key", key, "error", err.Error())
		return fmt.Errorf("redis DEL for key '%s' failed: %w", key, err)
	}
	return nil
}

// SetNX stores value under key with the given TTL only if the key is absent,
// as a single atomic Redis operation.
func (a *CacheStoreAdapter) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	set, err := a.redisClient.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		a.logger.Error(ctx, "Redis SETNX failed", "key", key, "error", err.Error())
		return false, fmt.Errorf("redis SETNX for key '%s' failed: %w", key, err)
	}
	a.logger.Debug(ctx, "Redis SETNX result", "key", key, "ttl", ttl.String(), "set", set)
	return set, nil
}

// TTL reports the remaining time-to-live of key. Redis answers -2 for an
// absent key and -1 for a key without expiry; both collapse to a non-positive
// duration here.
func (a *CacheStoreAdapter) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := a.redisClient.TTL(ctx, key).Result()
	if err != nil {
		a.logger.Error(ctx, "Redis TTL failed", "key", key, "error", err.Error())
		return 0, fmt.Errorf("redis TTL for key '%s' failed: %w", key, err)
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}
