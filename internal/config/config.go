package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Rate limit store types
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

// API authentication modes
const (
	APIAuthModeBearer = "bearer"
	APIAuthModeSimple = "simple"
	APIAuthModeHMAC   = "hmac"
)

// Cache types shared by the display-name and metrics caches
const (
	CacheTypeMemory     = "memory"
	CacheTypeRedis      = "redis"
	CacheTypeRedisAside = "redis-aside"
)

// Database drivers
const (
	DatabaseDriverSQLite   = "sqlite"
	DatabaseDriverPostgres = "postgres"
)

type Config struct {
	// Server settings
	ServerAddr            string
	APISecret             string // Shared secret protecting /api/v1 (empty disables the check)
	APIAuthMode           string // "bearer", "simple" or "hmac"
	APISecretHeader       string // Header carrying the secret in simple mode
	APISignatureMaxAge    time.Duration
	ServerShutdownTimeout time.Duration

	// Remote panel
	ISPConfigLocation           string // JSON remote API endpoint, e.g. https://panel:8080/remote/json.php
	ISPConfigRemoteUser         string
	ISPConfigRemotePassword     string
	ISPConfigTimeout            time.Duration
	ISPConfigInsecureSkipVerify bool
	ISPConfigMaxRetries         int
	ISPConfigRetryDelay         time.Duration
	ISPConfigMaxRetryDelay      time.Duration

	// Identity mapping
	AllowedDomains    []string // empty allows every domain
	DefaultQuota      string
	DefaultGroups     []string
	UIDMappingEnabled bool
	LoginNameFallback bool   // retry by custom login name when no candidate matched
	DomainConfigFile  string // optional YAML file with per-domain options

	// Database
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string // Database connection string (DSN or path)
	DBInitTimeout  time.Duration
	DBCloseTimeout time.Duration

	// Metrics
	MetricsEnabled             bool
	MetricsToken               string // Bearer token for /metrics (empty = no auth)
	MetricsGaugeUpdateEnabled  bool
	MetricsGaugeUpdateInterval time.Duration
	MetricsCacheType           string

	// Rate limiting
	EnableRateLimit          bool
	RateLimitStore           string // "memory" or "redis"
	RateLimitCleanupInterval time.Duration
	CheckPasswordRateLimit   int // requests per minute per client IP on /api/v1/auth/check
	APIRateLimit             int // requests per minute per client IP on the other API routes

	// Redis
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	RedisConnTimeout  time.Duration
	RedisCloseTimeout time.Duration

	// Display-name cache
	UserCacheType        string
	UserCacheTTL         time.Duration
	UserCacheClientTTL   time.Duration // local TTL for redis-aside
	UserCacheSizePerConn int           // MB per connection for redis-aside
	CacheInitTimeout     time.Duration
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	driver := getEnv("DATABASE_DRIVER", DatabaseDriverSQLite)
	var dsn string
	if driver == DatabaseDriverSQLite {
		dsn = getEnv("DATABASE_DSN", getEnv("DATABASE_PATH", "ispconfig-auth.db"))
	} else {
		dsn = getEnv("DATABASE_DSN", "")
	}

	return &Config{
		ServerAddr:            getEnv("SERVER_ADDR", ":8080"),
		APISecret:             getEnv("API_SECRET", ""),
		APIAuthMode:           getEnv("API_AUTH_MODE", APIAuthModeBearer),
		APISecretHeader:       getEnv("API_SECRET_HEADER", "X-API-Secret"),
		APISignatureMaxAge:    getEnvDuration("API_SIGNATURE_MAX_AGE", 5*time.Minute),
		ServerShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Remote panel
		ISPConfigLocation:           getEnv("ISPCONFIG_LOCATION", ""),
		ISPConfigRemoteUser:         getEnv("ISPCONFIG_REMOTE_USER", ""),
		ISPConfigRemotePassword:     getEnv("ISPCONFIG_REMOTE_PASSWORD", ""),
		ISPConfigTimeout:            getEnvDuration("ISPCONFIG_TIMEOUT", 10*time.Second),
		ISPConfigInsecureSkipVerify: getEnvBool("ISPCONFIG_INSECURE_SKIP_VERIFY", false),
		ISPConfigMaxRetries:         getEnvInt("ISPCONFIG_MAX_RETRIES", 1),
		ISPConfigRetryDelay:         getEnvDuration("ISPCONFIG_RETRY_DELAY", 500*time.Millisecond),
		ISPConfigMaxRetryDelay:      getEnvDuration("ISPCONFIG_MAX_RETRY_DELAY", 5*time.Second),

		// Identity mapping
		AllowedDomains:    getEnvSlice("ALLOWED_DOMAINS", nil),
		DefaultQuota:      getEnv("DEFAULT_QUOTA", ""),
		DefaultGroups:     getEnvSlice("DEFAULT_GROUPS", nil),
		UIDMappingEnabled: getEnvBool("UID_MAPPING_ENABLED", true),
		LoginNameFallback: getEnvBool("LOGIN_NAME_FALLBACK", false),
		DomainConfigFile:  getEnv("DOMAIN_CONFIG_FILE", ""),

		// Database
		DatabaseDriver: driver,
		DatabaseDSN:    dsn,
		DBInitTimeout:  getEnvDuration("DB_INIT_TIMEOUT", 30*time.Second),
		DBCloseTimeout: getEnvDuration("DB_CLOSE_TIMEOUT", 5*time.Second),

		// Metrics
		MetricsEnabled:             getEnvBool("METRICS_ENABLED", false),
		MetricsToken:               getEnv("METRICS_TOKEN", ""),
		MetricsGaugeUpdateEnabled:  getEnvBool("METRICS_GAUGE_UPDATE_ENABLED", true),
		MetricsGaugeUpdateInterval: getEnvDuration("METRICS_GAUGE_UPDATE_INTERVAL", 5*time.Minute),
		MetricsCacheType:           getEnv("METRICS_CACHE_TYPE", CacheTypeMemory),

		// Rate limiting
		EnableRateLimit:          getEnvBool("ENABLE_RATE_LIMIT", true),
		RateLimitStore:           getEnv("RATE_LIMIT_STORE", RateLimitStoreMemory),
		RateLimitCleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		CheckPasswordRateLimit:   getEnvInt("CHECK_PASSWORD_RATE_LIMIT", 30),
		APIRateLimit:             getEnvInt("API_RATE_LIMIT", 300),

		// Redis
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		RedisConnTimeout:  getEnvDuration("REDIS_CONN_TIMEOUT", 5*time.Second),
		RedisCloseTimeout: getEnvDuration("REDIS_CLOSE_TIMEOUT", 5*time.Second),

		// Display-name cache
		UserCacheType:        getEnv("USER_CACHE_TYPE", CacheTypeMemory),
		UserCacheTTL:         getEnvDuration("USER_CACHE_TTL", 5*time.Minute),
		UserCacheClientTTL:   getEnvDuration("USER_CACHE_CLIENT_TTL", 30*time.Second),
		UserCacheSizePerConn: getEnvInt("USER_CACHE_SIZE_PER_CONN", 32),
		CacheInitTimeout:     getEnvDuration("CACHE_INIT_TIMEOUT", 5*time.Second),
	}
}

// Validate checks required settings and enumerations
func (c *Config) Validate() error {
	var errs []error

	if c.ISPConfigLocation == "" {
		errs = append(errs, errors.New("ISPCONFIG_LOCATION is required"))
	} else if !strings.HasPrefix(c.ISPConfigLocation, "http://") &&
		!strings.HasPrefix(c.ISPConfigLocation, "https://") {
		errs = append(errs, fmt.Errorf(
			"invalid ISPCONFIG_LOCATION value: %q (must be an http or https URL)",
			c.ISPConfigLocation,
		))
	}
	if c.ISPConfigRemoteUser == "" {
		errs = append(errs, errors.New("ISPCONFIG_REMOTE_USER is required"))
	}

	switch c.APIAuthMode {
	case "", APIAuthModeBearer, APIAuthModeSimple, APIAuthModeHMAC:
	default:
		errs = append(errs, fmt.Errorf(
			"invalid API_AUTH_MODE value: %q (must be %q, %q or %q)",
			c.APIAuthMode, APIAuthModeBearer, APIAuthModeSimple, APIAuthModeHMAC,
		))
	}

	switch c.DatabaseDriver {
	case DatabaseDriverSQLite, DatabaseDriverPostgres:
	default:
		errs = append(errs, fmt.Errorf(
			"invalid DATABASE_DRIVER value: %q (must be %q or %q)",
			c.DatabaseDriver, DatabaseDriverSQLite, DatabaseDriverPostgres,
		))
	}

	if c.RateLimitStore != RateLimitStoreMemory && c.RateLimitStore != RateLimitStoreRedis {
		errs = append(errs, fmt.Errorf(
			"invalid RATE_LIMIT_STORE value: %q (must be %q or %q)",
			c.RateLimitStore, RateLimitStoreMemory, RateLimitStoreRedis,
		))
	}
	if c.EnableRateLimit && c.CheckPasswordRateLimit <= 0 {
		errs = append(errs, fmt.Errorf(
			"invalid CHECK_PASSWORD_RATE_LIMIT value: %d (must be positive)",
			c.CheckPasswordRateLimit,
		))
	}

	for name, value := range map[string]string{
		"USER_CACHE_TYPE":    c.UserCacheType,
		"METRICS_CACHE_TYPE": c.MetricsCacheType,
	} {
		if !validCacheType(value) {
			errs = append(errs, fmt.Errorf(
				"invalid %s value: %q (must be %q, %q or %q)",
				name, value, CacheTypeMemory, CacheTypeRedis, CacheTypeRedisAside,
			))
		}
	}
	if c.UserCacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("invalid USER_CACHE_TTL value: %s (must be positive)", c.UserCacheTTL))
	}

	return errors.Join(errs...)
}

func validCacheType(t string) bool {
	switch t {
	case CacheTypeMemory, CacheTypeRedis, CacheTypeRedisAside:
		return true
	}
	return false
}

// UsesRedis reports whether any component needs a Redis connection
func (c *Config) UsesRedis() bool {
	return (c.EnableRateLimit && c.RateLimitStore == RateLimitStoreRedis) ||
		c.UserCacheType != CacheTypeMemory ||
		(c.MetricsEnabled && c.MetricsCacheType != CacheTypeMemory)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		if parts := splitAndTrim(value, ","); len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}

func splitAndTrim(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
