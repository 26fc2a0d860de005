package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-authgate/ispconfig-auth/internal/cache"
	"github.com/go-authgate/ispconfig-auth/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeCounter struct {
	count int64
	err   error
	calls int
}

func (f *fakeCounter) CountAccounts(context.Context) (int64, error) {
	f.calls++
	return f.count, f.err
}

// callFetchFn is a DoAndReturn helper that invokes the cache fetch function,
// simulating a cache miss where the real DB fetch is executed.
func callFetchFn[T any](
	ctx context.Context,
	key string,
	_ time.Duration,
	fn func(context.Context, string) (T, error),
) (T, error) {
	return fn(ctx, key)
}

func TestCacheWrapper_GetLocalAccountsCount_CacheHit(t *testing.T) {
	ctx := context.Background()
	memCache := cache.NewMemoryCache[int64]()
	store := &fakeCounter{count: 100}

	_ = memCache.Set(ctx, "accounts:total", 42, time.Minute)

	wrapper := NewCacheWrapper(store, memCache)
	count, err := wrapper.GetLocalAccountsCount(ctx, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
	assert.Zero(t, store.calls)
}

func TestCacheWrapper_GetLocalAccountsCount_CacheMiss(t *testing.T) {
	ctx := context.Background()
	memCache := cache.NewMemoryCache[int64]()
	store := &fakeCounter{count: 100}

	wrapper := NewCacheWrapper(store, memCache)

	count, err := wrapper.GetLocalAccountsCount(ctx, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(100), count)

	// Second read is served from cache
	count, err = wrapper.GetLocalAccountsCount(ctx, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(100), count)
	assert.Equal(t, 1, store.calls)
}

func TestCacheWrapper_GetLocalAccountsCount_DBError(t *testing.T) {
	ctx := context.Background()
	memCache := cache.NewMemoryCache[int64]()
	dbErr := errors.New("database locked")
	store := &fakeCounter{err: dbErr}

	wrapper := NewCacheWrapper(store, memCache)

	_, err := wrapper.GetLocalAccountsCount(ctx, time.Minute)
	require.ErrorIs(t, err, dbErr)

	_, err = memCache.Get(ctx, "accounts:total")
	require.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestCacheWrapper_UsesGetWithFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := mocks.NewMockCache[int64](ctrl)
	store := &fakeCounter{count: 5}

	mockCache.EXPECT().
		GetWithFetch(gomock.Any(), "accounts:total", time.Minute, gomock.Any()).
		DoAndReturn(callFetchFn[int64]).
		Times(1)

	wrapper := NewCacheWrapper(store, mockCache)
	count, err := wrapper.GetLocalAccountsCount(context.Background(), time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
	assert.Equal(t, 1, store.calls)
}
