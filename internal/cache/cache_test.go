package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMemoryCache_GetSet(t *testing.T) {
	cache := NewMemoryCache[string]()
	ctx := context.Background()

	err := cache.Set(ctx, "displayname:alice", "Alice Liddell", time.Minute)
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, err := cache.Get(ctx, "displayname:alice")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if value != "Alice Liddell" {
		t.Errorf("Expected value %q, got %q", "Alice Liddell", value)
	}
}

func TestMemoryCache_GetMiss(t *testing.T) {
	cache := NewMemoryCache[string]()
	ctx := context.Background()

	_, err := cache.Get(ctx, "non-existent")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := NewMemoryCache[int64]()
	ctx := context.Background()

	err := cache.Set(ctx, "expire-key", 100, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, err := cache.Get(ctx, "expire-key")
	if err != nil {
		t.Fatalf("Get failed before expiration: %v", err)
	}
	if value != 100 {
		t.Errorf("Expected value 100, got %d", value)
	}

	time.Sleep(100 * time.Millisecond)

	_, err = cache.Get(ctx, "expire-key")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after expiration, got %v", err)
	}
}

func TestMemoryCache_SweepsExpiredEntries(t *testing.T) {
	cache := NewMemoryCache[int64]()
	ctx := context.Background()

	for i := range sweepEvery - 1 {
		_ = cache.Set(ctx, fmt.Sprintf("stale-%d", i), int64(i), time.Nanosecond)
	}
	time.Sleep(time.Millisecond)

	// This write triggers the sweep
	_ = cache.Set(ctx, "fresh", 1, time.Minute)

	if got := cache.Len(); got != 1 {
		t.Errorf("Expected only the fresh entry to remain, got %d entries", got)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := NewMemoryCache[string]()
	ctx := context.Background()

	_ = cache.Set(ctx, "delete-key", "value", time.Minute)

	if _, err := cache.Get(ctx, "delete-key"); err != nil {
		t.Fatalf("Get failed before delete: %v", err)
	}

	if err := cache.Delete(ctx, "delete-key"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, err := cache.Get(ctx, "delete-key")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestMemoryCache_Close(t *testing.T) {
	cache := NewMemoryCache[int64]()
	ctx := context.Background()

	_ = cache.Set(ctx, "key1", 1, time.Minute)
	_ = cache.Set(ctx, "key2", 2, time.Minute)

	if err := cache.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	_, err := cache.Get(ctx, "key1")
	if !errors.Is(err, ErrCacheMiss) {
		t.Error("Expected cache to be cleared after Close")
	}
}

func TestMemoryCache_Health(t *testing.T) {
	cache := NewMemoryCache[int64]()

	if err := cache.Health(context.Background()); err != nil {
		t.Errorf("Health check should always succeed for memory cache, got: %v", err)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache[int64]()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Go(func() {
			for j := range 100 {
				_ = cache.Set(ctx, "concurrent-key", int64(i*1000+j), time.Minute)
			}
		})
	}
	for range 10 {
		wg.Go(func() {
			for range 100 {
				_, _ = cache.Get(ctx, "concurrent-key")
			}
		})
	}
	wg.Wait()

	if _, err := cache.Get(ctx, "concurrent-key"); err != nil {
		t.Errorf("Cache corrupted after concurrent access: %v", err)
	}
}

func TestMemoryCache_GetWithFetch_CacheMiss(t *testing.T) {
	c := NewMemoryCache[string]()
	ctx := context.Background()

	fetchCount := 0
	fetchFunc := func(ctx context.Context, key string) (string, error) {
		fetchCount++
		return "Bob", nil
	}

	value, err := c.GetWithFetch(ctx, "displayname:bob", time.Minute, fetchFunc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "Bob" {
		t.Errorf("expected Bob, got %q", value)
	}

	// Second call should use cache (fetchFunc not called again)
	value, err = c.GetWithFetch(ctx, "displayname:bob", time.Minute, fetchFunc)
	if err != nil {
		t.Fatalf("unexpected error on second call: %v", err)
	}
	if value != "Bob" {
		t.Errorf("expected Bob on cache hit, got %q", value)
	}
	if fetchCount != 1 {
		t.Errorf("expected fetchFunc called once, got %d calls", fetchCount)
	}
}

func TestMemoryCache_GetWithFetch_FetchError(t *testing.T) {
	c := NewMemoryCache[int64]()
	ctx := context.Background()

	expectedErr := errors.New("fetch failed")
	_, err := c.GetWithFetch(
		ctx,
		"key",
		time.Minute,
		func(ctx context.Context, key string) (int64, error) {
			return 0, expectedErr
		},
	)
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected fetch error, got %v", err)
	}

	// Failed fetches are not cached
	if c.Len() != 0 {
		t.Errorf("expected empty cache after failed fetch, got %d entries", c.Len())
	}
}

func TestMemoryCache_GetWithFetch_Concurrent(t *testing.T) {
	c := NewMemoryCache[int64]()
	ctx := context.Background()

	var fetchCount atomic.Int64
	fetchFunc := func(ctx context.Context, key string) (int64, error) {
		fetchCount.Add(1)
		return 99, nil
	}

	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			val, err := c.GetWithFetch(ctx, "shared-key", time.Minute, fetchFunc)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if val != 99 {
				t.Errorf("expected 99, got %d", val)
			}
		})
	}
	wg.Wait()

	if fetchCount.Load() < 1 {
		t.Error("expected fetchFunc to be called at least once")
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	encoded, err := encodeValue("Zoë O'Brien")
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := decodeValue[string](encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded != "Zoë O'Brien" {
		t.Errorf("expected round trip to preserve value, got %q", decoded)
	}
}

func TestCodec_InvalidValue(t *testing.T) {
	_, err := decodeValue[int64]("not-a-number")
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
}
