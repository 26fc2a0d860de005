package bootstrap

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-authgate/ispconfig-auth/internal/config"
	"github.com/go-authgate/ispconfig-auth/internal/core"
	"github.com/go-authgate/ispconfig-auth/internal/services"
	"github.com/go-authgate/ispconfig-auth/internal/store"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config

	// Core infrastructure
	DB                   *store.Store
	MetricsRecorder      core.Recorder
	MetricsCache         core.Cache[int64]
	MetricsCacheCloser   func() error
	UserCache            core.Cache[string]
	UserCacheCloser      func() error
	RateLimitRedisClient *redis.Client

	// Services
	Policy  *config.DomainPolicy
	Backend *services.UserBackend

	// HTTP
	HandlerSet handlerSet
	Router     *gin.Engine
	Server     *http.Server
}

// Run initializes and starts the application
func Run(ctx context.Context, cfg *config.Config) error {
	app, err := Setup(ctx, cfg)
	if err != nil {
		return err
	}

	// Phase 4: Initialize HTTP layer
	app.initializeHTTPLayer()

	// Phase 5: Start server with graceful shutdown
	app.startWithGracefulShutdown()

	return nil
}

// Setup validates the configuration and builds everything below the HTTP
// layer. Callers that do not Run the application must Close it.
func Setup(ctx context.Context, cfg *config.Config) (*Application, error) {
	app := &Application{Config: cfg}

	// Phase 1: Validate configuration
	if err := validateAllConfiguration(cfg); err != nil {
		return nil, err
	}

	// Phase 2: Initialize infrastructure
	if err := app.initializeInfrastructure(ctx); err != nil {
		_ = app.Close(ctx)
		return nil, err
	}

	// Phase 3: Initialize business layer
	if err := app.initializeBusinessLayer(); err != nil {
		_ = app.Close(ctx)
		return nil, err
	}

	return app, nil
}

// initializeInfrastructure sets up database, metrics, caches, and Redis
func (app *Application) initializeInfrastructure(ctx context.Context) error {
	var err error

	// Database
	app.DB, err = initializeDatabase(ctx, app.Config)
	if err != nil {
		return err
	}

	// Metrics
	app.MetricsRecorder = initializeMetrics(app.Config)
	app.MetricsCache, app.MetricsCacheCloser, err = initializeMetricsCache(ctx, app.Config)
	if err != nil {
		return err
	}

	// Display-name cache
	app.UserCache, app.UserCacheCloser, err = initializeUserCache(ctx, app.Config)
	if err != nil {
		return err
	}

	// Redis (for rate limiting)
	app.RateLimitRedisClient, err = initializeRateLimitRedisClient(ctx, app.Config)
	if err != nil {
		return err
	}

	return nil
}

// initializeBusinessLayer sets up the domain policy and the user backend
func (app *Application) initializeBusinessLayer() error {
	var err error

	app.Policy, err = initializeDomainPolicy(app.Config)
	if err != nil {
		return err
	}

	app.Backend, err = initializeBackend(
		app.Config,
		app.DB,
		app.Policy,
		app.UserCache,
		app.MetricsRecorder,
	)
	return err
}

// initializeHTTPLayer sets up handlers, router, and server
func (app *Application) initializeHTTPLayer() {
	app.HandlerSet = initializeHandlers(app.Backend)

	app.Router = setupRouter(
		app.Config,
		app.DB,
		app.HandlerSet,
		app.MetricsRecorder,
		app.RateLimitRedisClient,
	)

	app.Server = createHTTPServer(app.Config, app.Router)
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager()

	// Add jobs
	addServerRunningJob(m, app.Server)
	addServerShutdownJob(m, app.Config, app.Server)
	addRedisClientShutdownJob(m, app.RateLimitRedisClient)
	addMetricsGaugeUpdateJob(m, app.Config, app.DB, app.MetricsRecorder, app.MetricsCache)
	addCacheCleanupJob(m, "Metrics cache", app.MetricsCacheCloser)
	addCacheCleanupJob(m, "Display-name cache", app.UserCacheCloser)
	addDatabaseShutdownJob(m, app.Config, app.DB)

	// Wait for graceful shutdown
	<-m.Done()
}

// Close releases everything Setup opened. It is safe on a partially
// initialized application.
func (app *Application) Close(ctx context.Context) error {
	var errs []error
	if app.RateLimitRedisClient != nil {
		errs = append(errs, app.RateLimitRedisClient.Close())
	}
	if app.UserCacheCloser != nil {
		errs = append(errs, app.UserCacheCloser())
	}
	if app.MetricsCacheCloser != nil {
		errs = append(errs, app.MetricsCacheCloser())
	}
	if app.DB != nil {
		closeCtx, cancel := context.WithTimeout(ctx, app.Config.DBCloseTimeout)
		defer cancel()
		errs = append(errs, app.DB.Close(closeCtx))
	}
	return errors.Join(errs...)
}
