package bootstrap

import (
	"log"

	"github.com/go-authgate/ispconfig-auth/internal/config"
	"github.com/go-authgate/ispconfig-auth/internal/core"
	"github.com/go-authgate/ispconfig-auth/internal/handlers"
	"github.com/go-authgate/ispconfig-auth/internal/metrics"
	"github.com/go-authgate/ispconfig-auth/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	db handlers.HealthChecker,
	h handlerSet,
	prometheusMetrics core.Recorder,
	rateLimitRedisClient *redis.Client,
) *gin.Engine {
	r := gin.New()

	// Setup middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(metrics.HTTPMetricsMiddleware(prometheusMetrics))
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.IPMiddleware())

	// Health check endpoint
	r.GET("/health", handlers.HealthCheck(db))

	// Setup metrics endpoint
	setupMetricsEndpoint(r, cfg)

	// Setup rate limiting
	rateLimiters := setupRateLimiting(cfg, rateLimitRedisClient)

	// Setup all routes
	setupAPIRoutes(r, cfg, h, rateLimiters)

	log.Printf("ISPConfig auth backend starting on %s", cfg.ServerAddr)
	return r
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config) {
	switch {
	case !cfg.MetricsEnabled:
		log.Printf("Prometheus metrics disabled")
	case cfg.MetricsToken != "":
		log.Printf("Prometheus metrics enabled at /metrics with Bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		log.Printf("Prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// setupAPIRoutes configures the user backend API
func setupAPIRoutes(
	r *gin.Engine,
	cfg *config.Config,
	h handlerSet,
	rateLimiters rateLimitMiddlewares,
) {
	apiAuth, err := middleware.APIAuthMiddleware(middleware.APIAuthConfig{
		Mode:         cfg.APIAuthMode,
		Secret:       cfg.APISecret,
		SecretHeader: cfg.APISecretHeader,
		MaxAge:       cfg.APISignatureMaxAge,
	})
	if err != nil {
		log.Fatalf("Failed to create API authentication: %v", err)
	}
	log.Printf("API authentication mode: %s", cfg.APIAuthMode)

	api := r.Group("/api/v1")
	api.Use(apiAuth)
	{
		api.POST("/auth/check", rateLimiters.check, h.backend.CheckPassword)
		api.GET("/capabilities", h.backend.Capabilities)
	}

	users := api.Group("")
	users.Use(rateLimiters.api)
	{
		users.GET("/users", h.backend.GetUsers)
		users.GET("/display-names", h.backend.GetDisplayNames)
		users.GET("/users/:uid", h.backend.UserExists)
		users.DELETE("/users/:uid", h.backend.DeleteUser)
		users.PUT("/users/:uid/password", h.backend.SetPassword)
		users.GET("/users/:uid/display-name", h.backend.GetDisplayName)
		users.PUT("/users/:uid/display-name", h.backend.SetDisplayName)
	}
}
