package application

import (
	"context"
	"fmt"
	"time"

	"github.com/letterboxhq/letterbox-api/internal/adapters/metrics"
	"github.com/letterboxhq/letterbox-api/internal/domain"
)

// CooldownStatus is the outcome of a CheckAndArm call.
type CooldownStatus struct {
	// Ready reports that the caller holds the window and may perform the
	// rate-limited action exactly once.
	Ready bool
	// RetryAfter is the remaining cooldown when Ready is false.
	RetryAfter time.Duration
}

// CooldownLimiter gates actions to at most one invocation per key per window,
// using the cache store's atomic set-if-absent-with-TTL as the arming
// primitive. Presence of the key is the whole state; the remaining TTL is the
// sole source of truth for "how long until retry".
type CooldownLimiter struct {
	cache  domain.CacheStore
	logger domain.Logger
}

// NewCooldownLimiter creates a new CooldownLimiter.
func NewCooldownLimiter(cache domain.CacheStore, logger domain.Logger) *CooldownLimiter {
	if cache == nil {
		panic("cache store cannot be nil in NewCooldownLimiter")
	}
	if logger == nil {
		panic("logger cannot be nil in NewCooldownLimiter")
	}
	return &CooldownLimiter{cache: cache, logger: logger}
}

// CheckAndArm atomically checks whether key fired within its window and arms
// it if not. Two concurrent callers can never both observe Ready for the same
// key within one window: arming is a single SETNX-with-expiry at the cache
// store, not a read-then-write.
func (cl *CooldownLimiter) CheckAndArm(ctx context.Context, key string, window time.Duration) (CooldownStatus, error) {
	armed, err := cl.cache.SetNX(ctx, key, []byte("1"), window)
	if err != nil {
		return CooldownStatus{}, fmt.Errorf("cooldown arm for key '%s' failed: %w", key, err)
	}
	if armed {
		cl.logger.Debug(ctx, "Cooldown armed", "key", key, "window", window.String())
		return CooldownStatus{Ready: true}, nil
	}

	remaining, err := cl.cache.TTL(ctx, key)
	if err != nil {
		return CooldownStatus{}, fmt.Errorf("cooldown TTL read for key '%s' failed: %w", key, err)
	}
	if remaining <= 0 {
		// The key expired between the refused arm and the TTL read. Retry the
		// arm once; a second refusal reports a short block rather than risking
		// a double fire.
		armed, err = cl.cache.SetNX(ctx, key, []byte("1"), window)
		if err != nil {
			return CooldownStatus{}, fmt.Errorf("cooldown re-arm for key '%s' failed: %w", key, err)
		}
		if armed {
			cl.logger.Debug(ctx, "Cooldown armed after expiry race", "key", key, "window", window.String())
			return CooldownStatus{Ready: true}, nil
		}
		remaining = time.Second
	}

	cl.logger.Debug(ctx, "Cooldown blocked", "key", key, "retry_after", remaining.String())
	metrics.IncrementCooldownBlocked()
	return CooldownStatus{Ready: false, RetryAfter: remaining}, nil
}
