package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-authgate/ispconfig-auth/internal/cache"
	"github.com/go-authgate/ispconfig-auth/internal/config"
	"github.com/go-authgate/ispconfig-auth/internal/core"
	"github.com/go-authgate/ispconfig-auth/internal/metrics"
)

const (
	metricsCachePrefix = "ispconfig-auth:metrics:"
	userCachePrefix    = "ispconfig-auth:displaynames:"
)

// initializeMetrics initializes Prometheus metrics
func initializeMetrics(cfg *config.Config) core.Recorder {
	prometheusMetrics := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		log.Println("Prometheus metrics initialized")
	} else {
		log.Println("Metrics disabled (using noop implementation)")
	}
	return prometheusMetrics
}

type cacheSettings struct {
	name        string
	cacheType   string
	keyPrefix   string
	clientTTL   time.Duration
	sizePerConn int
}

// newCache builds a memory, redis or redis-aside cache
func newCache[T any](
	ctx context.Context,
	cfg *config.Config,
	s cacheSettings,
) (core.Cache[T], error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.CacheInitTimeout)
	defer cancel()

	switch s.cacheType {
	case config.CacheTypeRedisAside:
		c, err := cache.NewRueidisAsideCache[T](
			ctx,
			cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			s.keyPrefix,
			s.clientTTL,
			s.sizePerConn,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis-aside %s: %w", s.name, err)
		}
		log.Printf(
			"%s: redis-aside (addr=%s, db=%d, client_ttl=%s, cache_size_per_conn=%dMB)",
			s.name,
			cfg.RedisAddr,
			cfg.RedisDB,
			s.clientTTL,
			s.sizePerConn,
		)
		return c, nil

	case config.CacheTypeRedis:
		c, err := cache.NewRueidisCache[T](
			ctx,
			cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			s.keyPrefix,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis %s: %w", s.name, err)
		}
		log.Printf("%s: redis (addr=%s, db=%d)", s.name, cfg.RedisAddr, cfg.RedisDB)
		return c, nil

	default: // memory
		log.Printf("%s: memory (single instance only)", s.name)
		return cache.NewMemoryCache[T](), nil
	}
}

// initializeMetricsCache initializes the metrics cache based on configuration
func initializeMetricsCache(
	ctx context.Context,
	cfg *config.Config,
) (core.Cache[int64], func() error, error) {
	if !cfg.MetricsEnabled || !cfg.MetricsGaugeUpdateEnabled {
		return nil, nil, nil
	}

	c, err := newCache[int64](ctx, cfg, cacheSettings{
		name:        "Metrics cache",
		cacheType:   cfg.MetricsCacheType,
		keyPrefix:   metricsCachePrefix,
		clientTTL:   cfg.MetricsGaugeUpdateInterval,
		sizePerConn: 1,
	})
	if err != nil {
		return nil, nil, err
	}
	return c, c.Close, nil
}

// initializeUserCache initializes the display-name cache (always enabled, defaults to memory)
func initializeUserCache(
	ctx context.Context,
	cfg *config.Config,
) (core.Cache[string], func() error, error) {
	c, err := newCache[string](ctx, cfg, cacheSettings{
		name:        "Display-name cache",
		cacheType:   cfg.UserCacheType,
		keyPrefix:   userCachePrefix,
		clientTTL:   cfg.UserCacheClientTTL,
		sizePerConn: cfg.UserCacheSizePerConn,
	})
	if err != nil {
		return nil, nil, err
	}
	return c, c.Close, nil
}
