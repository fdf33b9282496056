package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/letterboxhq/letterbox-api/internal/adapters/metrics"
	"github.com/letterboxhq/letterbox-api/internal/domain"
)

// ErrCacheMiss is returned by CacheStore implementations when a key is absent.
var ErrCacheMiss = errors.New("key not found in cache")

// CacheOrigin reports where a read-through result came from.
type CacheOrigin string

const (
	OriginHit  CacheOrigin = "hit"
	OriginMiss CacheOrigin = "miss"
)

// Loader fetches the authoritative snapshot from the persistent store.
type Loader func(ctx context.Context) (any, error)

// ListCache implements read-through population and write-path invalidation of
// collection list snapshots over the shared cache store.
//
// Known race, accepted by design: a concurrent Invalidate can land between
// this instance's cache miss and its populate write, in which case the key is
// repopulated with data predating the mutation. Staleness is bounded by the
// snapshot TTL; stronger guarantees would need population fenced by a store
// version check.
type ListCache struct {
	cache  domain.CacheStore
	logger domain.Logger
}

// NewListCache creates a new ListCache.
func NewListCache(cache domain.CacheStore, logger domain.Logger) *ListCache {
	if cache == nil {
		panic("cache store cannot be nil in NewListCache")
	}
	if logger == nil {
		panic("logger cannot be nil in NewListCache")
	}
	return &ListCache{cache: cache, logger: logger}
}

// ReadThrough returns the snapshot stored under key, falling back to loader
// on a miss and populating the cache with the loaded result.
//
// The cache write happens only after a successful loader call. If the cache
// store itself is unreachable the request degrades to a direct load with no
// population rather than failing.
func (lc *ListCache) ReadThrough(ctx context.Context, key string, ttl time.Duration, loader Loader) (json.RawMessage, CacheOrigin, error) {
	cached, err := lc.cache.Get(ctx, key)
	if err == nil {
		lc.logger.Debug(ctx, "List cache hit", "key", key)
		metrics.IncrementCacheHit(key)
		return json.RawMessage(cached), OriginHit, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		// Cache store unreachable or misbehaving. Degraded mode: serve from
		// the persistent store and skip population.
		lc.logger.Warn(ctx, "Cache store unavailable, degrading to direct load", "key", key, "error", err.Error())
		records, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, OriginMiss, fmt.Errorf("loader for key '%s' failed: %w", key, loadErr)
		}
		payload, marshalErr := json.Marshal(records)
		if marshalErr != nil {
			return nil, OriginMiss, fmt.Errorf("failed to marshal snapshot for key '%s': %w", key, marshalErr)
		}
		metrics.IncrementCacheMiss(key)
		return payload, OriginMiss, nil
	}

	lc.logger.Debug(ctx, "List cache miss", "key", key)
	metrics.IncrementCacheMiss(key)

	records, err := loader(ctx)
	if err != nil {
		return nil, OriginMiss, fmt.Errorf("loader for key '%s' failed: %w", key, err)
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return nil, OriginMiss, fmt.Errorf("failed to marshal snapshot for key '%s': %w", key, err)
	}

	if err := lc.cache.Set(ctx, key, payload, ttl); err != nil {
		// Population is best effort; the loaded data is still good.
		lc.logger.Warn(ctx, "Failed to populate list cache", "key", key, "error", err.Error())
	}

	return payload, OriginMiss, nil
}

// Invalidate deletes the snapshot under key. It is idempotent and must be
// called after every successful mutation of the underlying collection, before
// the mutation response is returned. The cache value is never updated in
// place; the next read repopulates it.
func (lc *ListCache) Invalidate(ctx context.Context, key string) error {
	if err := lc.cache.Delete(ctx, key); err != nil {
		lc.logger.Error(ctx, "Failed to invalidate list cache", "key", key, "error", err.Error())
		return fmt.Errorf("invalidate key '%s' failed: %w", key, err)
	}
	lc.logger.Debug(ctx, "List cache invalidated", "key", key)
	return nil
}
