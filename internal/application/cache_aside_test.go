package application

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"
)

func newTestListCache(t *testing.T) (*ListCache, *fakeCacheStore) {
	t.Helper()
	cache := newFakeCacheStore(newFakeClock())
	return NewListCache(cache, nopLogger{}), cache
}

func staticLoader(records any) Loader {
	return func(context.Context) (any, error) { return records, nil }
}

func decodeStrings(t *testing.T, raw json.RawMessage) []string {
	t.Helper()
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("failed to decode snapshot %q: %v", raw, err)
	}
	return out
}

func TestReadThroughMissPopulatesCache(t *testing.T) {
	lc, cache := newTestListCache(t)
	ctx := context.Background()

	raw, origin, err := lc.ReadThrough(ctx, "tasks:list", time.Minute, staticLoader([]string{"a", "b"}))
	if err != nil {
		t.Fatalf("ReadThrough failed: %v", err)
	}
	if origin != OriginMiss {
		t.Errorf("expected origin %q, got %q", OriginMiss, origin)
	}
	if got := decodeStrings(t, raw); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("unexpected snapshot: %v", got)
	}
	if !cache.has("tasks:list") {
		t.Error("expected snapshot to be populated in cache after miss")
	}
}

func TestReadThroughHitSkipsLoader(t *testing.T) {
	lc, _ := newTestListCache(t)
	ctx := context.Background()

	if _, _, err := lc.ReadThrough(ctx, "tasks:list", time.Minute, staticLoader([]string{"a"})); err != nil {
		t.Fatalf("populating read failed: %v", err)
	}

	loaderCalled := false
	raw, origin, err := lc.ReadThrough(ctx, "tasks:list", time.Minute, func(context.Context) (any, error) {
		loaderCalled = true
		return nil, errors.New("loader must not run on a hit")
	})
	if err != nil {
		t.Fatalf("ReadThrough failed: %v", err)
	}
	if origin != OriginHit {
		t.Errorf("expected origin %q, got %q", OriginHit, origin)
	}
	if loaderCalled {
		t.Error("loader was invoked despite a cache hit")
	}
	if got := decodeStrings(t, raw); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("unexpected snapshot: %v", got)
	}
}

func TestReadThroughTTLExpiryForcesReload(t *testing.T) {
	clock := newFakeClock()
	cache := newFakeCacheStore(clock)
	lc := NewListCache(cache, nopLogger{})
	ctx := context.Background()

	if _, _, err := lc.ReadThrough(ctx, "tasks:list", time.Minute, staticLoader([]string{"old"})); err != nil {
		t.Fatalf("populating read failed: %v", err)
	}

	clock.Advance(61 * time.Second)

	raw, origin, err := lc.ReadThrough(ctx, "tasks:list", time.Minute, staticLoader([]string{"new"}))
	if err != nil {
		t.Fatalf("ReadThrough failed: %v", err)
	}
	if origin != OriginMiss {
		t.Errorf("expected expired key to read as a miss, got %q", origin)
	}
	if got := decodeStrings(t, raw); !reflect.DeepEqual(got, []string{"new"}) {
		t.Errorf("expected reloaded snapshot, got %v", got)
	}
}

func TestReadThroughLoaderErrorDoesNotPopulate(t *testing.T) {
	lc, cache := newTestListCache(t)

	wantErr := errors.New("store offline")
	_, _, err := lc.ReadThrough(context.Background(), "tasks:list", time.Minute, func(context.Context) (any, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected loader error to propagate, got %v", err)
	}
	if cache.has("tasks:list") {
		t.Error("cache was populated despite loader failure")
	}
}

func TestReadThroughDegradesWhenCacheUnavailable(t *testing.T) {
	lc, cache := newTestListCache(t)
	cache.getErr = errors.New("connection refused")

	raw, origin, err := lc.ReadThrough(context.Background(), "tasks:list", time.Minute, staticLoader([]string{"a"}))
	if err != nil {
		t.Fatalf("expected degraded read to succeed, got %v", err)
	}
	if origin != OriginMiss {
		t.Errorf("expected origin %q, got %q", OriginMiss, origin)
	}
	if got := decodeStrings(t, raw); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("unexpected snapshot: %v", got)
	}
	if cache.setCalls != 0 {
		t.Error("degraded read must not attempt cache population")
	}
}

func TestReadThroughPopulateFailureStillReturnsData(t *testing.T) {
	lc, cache := newTestListCache(t)
	cache.setErr = errors.New("write refused")

	raw, _, err := lc.ReadThrough(context.Background(), "tasks:list", time.Minute, staticLoader([]string{"a"}))
	if err != nil {
		t.Fatalf("expected read to survive population failure, got %v", err)
	}
	if got := decodeStrings(t, raw); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("unexpected snapshot: %v", got)
	}
}

func TestInvalidateRemovesKeyAndIsIdempotent(t *testing.T) {
	lc, cache := newTestListCache(t)
	ctx := context.Background()

	if _, _, err := lc.ReadThrough(ctx, "tasks:list", time.Minute, staticLoader([]string{"a"})); err != nil {
		t.Fatalf("populating read failed: %v", err)
	}

	if err := lc.Invalidate(ctx, "tasks:list"); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if cache.has("tasks:list") {
		t.Error("key still present after Invalidate")
	}
	if err := lc.Invalidate(ctx, "tasks:list"); err != nil {
		t.Errorf("Invalidate of an absent key must be a no-op, got %v", err)
	}
}
