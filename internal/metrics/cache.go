package metrics

import (
	"context"
	"time"

	"github.com/go-authgate/ispconfig-auth/internal/core"
)

// accountCounter defines the store operation needed by CacheWrapper.
type accountCounter interface {
	CountAccounts(ctx context.Context) (int64, error)
}

// CacheWrapper provides a read-through cache for metrics data.
// It queries the database on cache miss and updates the cache for subsequent requests,
// so several instances sharing Redis do not all hit the database on every tick.
type CacheWrapper struct {
	store accountCounter
	cache core.Cache[int64]
}

// NewCacheWrapper creates a new cache wrapper for metrics.
func NewCacheWrapper(store accountCounter, cache core.Cache[int64]) *CacheWrapper {
	return &CacheWrapper{
		store: store,
		cache: cache,
	}
}

// GetLocalAccountsCount retrieves the number of provisioned local accounts.
func (m *CacheWrapper) GetLocalAccountsCount(ctx context.Context, ttl time.Duration) (int64, error) {
	return m.cache.GetWithFetch(
		ctx,
		"accounts:total",
		ttl,
		func(ctx context.Context, _ string) (int64, error) {
			return m.store.CountAccounts(ctx)
		},
	)
}
