package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		ISPConfigLocation:      "https://panel.example.com:8080/remote/json.php",
		ISPConfigRemoteUser:    "nextcloud",
		DatabaseDriver:         DatabaseDriverSQLite,
		RateLimitStore:         RateLimitStoreMemory,
		EnableRateLimit:        true,
		CheckPasswordRateLimit: 30,
		UserCacheType:          CacheTypeMemory,
		MetricsCacheType:       CacheTypeMemory,
		UserCacheTTL:           5 * time.Minute,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		errorMsg string
	}{
		{
			name:   "valid memory store",
			mutate: func(*Config) {},
		},
		{
			name:   "valid redis store",
			mutate: func(c *Config) { c.RateLimitStore = RateLimitStoreRedis },
		},
		{
			name:   "valid redis-aside cache",
			mutate: func(c *Config) { c.UserCacheType = CacheTypeRedisAside },
		},
		{
			name:     "missing location",
			mutate:   func(c *Config) { c.ISPConfigLocation = "" },
			errorMsg: "ISPCONFIG_LOCATION is required",
		},
		{
			name:     "location without scheme",
			mutate:   func(c *Config) { c.ISPConfigLocation = "panel.example.com/remote/json.php" },
			errorMsg: `invalid ISPCONFIG_LOCATION value: "panel.example.com/remote/json.php"`,
		},
		{
			name:     "missing remote user",
			mutate:   func(c *Config) { c.ISPConfigRemoteUser = "" },
			errorMsg: "ISPCONFIG_REMOTE_USER is required",
		},
		{
			name:     "invalid driver",
			mutate:   func(c *Config) { c.DatabaseDriver = "mysql" },
			errorMsg: `invalid DATABASE_DRIVER value: "mysql"`,
		},
		{
			name:     "invalid store - typo",
			mutate:   func(c *Config) { c.RateLimitStore = "reddis" },
			errorMsg: `invalid RATE_LIMIT_STORE value: "reddis"`,
		},
		{
			name:     "invalid store - empty string",
			mutate:   func(c *Config) { c.RateLimitStore = "" },
			errorMsg: `invalid RATE_LIMIT_STORE value: ""`,
		},
		{
			name:     "zero check password rate limit",
			mutate:   func(c *Config) { c.CheckPasswordRateLimit = 0 },
			errorMsg: "invalid CHECK_PASSWORD_RATE_LIMIT value: 0",
		},
		{
			name: "zero rate limit ignored when disabled",
			mutate: func(c *Config) {
				c.EnableRateLimit = false
				c.CheckPasswordRateLimit = 0
			},
		},
		{
			name:     "invalid user cache type",
			mutate:   func(c *Config) { c.UserCacheType = "memcache" },
			errorMsg: `invalid USER_CACHE_TYPE value: "memcache"`,
		},
		{
			name:     "invalid metrics cache type",
			mutate:   func(c *Config) { c.MetricsCacheType = "disk" },
			errorMsg: `invalid METRICS_CACHE_TYPE value: "disk"`,
		},
		{
			name:   "valid hmac api auth",
			mutate: func(c *Config) { c.APIAuthMode = APIAuthModeHMAC },
		},
		{
			name:     "invalid api auth mode",
			mutate:   func(c *Config) { c.APIAuthMode = "basic" },
			errorMsg: `invalid API_AUTH_MODE value: "basic"`,
		},
		{
			name:     "non-positive cache ttl",
			mutate:   func(c *Config) { c.UserCacheTTL = 0 },
			errorMsg: "invalid USER_CACHE_TTL value: 0s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.ISPConfigLocation = ""
	cfg.RateLimitStore = "bogus"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ISPCONFIG_LOCATION is required")
	assert.Contains(t, err.Error(), `invalid RATE_LIMIT_STORE value: "bogus"`)
}

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, 10*time.Second, cfg.ISPConfigTimeout)
	assert.Equal(t, 1, cfg.ISPConfigMaxRetries)
	assert.True(t, cfg.UIDMappingEnabled)
	assert.False(t, cfg.LoginNameFallback)
	assert.Equal(t, RateLimitStoreMemory, cfg.RateLimitStore)
	assert.Equal(t, CacheTypeMemory, cfg.UserCacheType)
	assert.Equal(t, 30*time.Second, cfg.DBInitTimeout)
	assert.Equal(t, 5*time.Second, cfg.ServerShutdownTimeout)
	assert.Equal(t, APIAuthModeBearer, cfg.APIAuthMode)
	assert.Equal(t, "X-API-Secret", cfg.APISecretHeader)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("ISPCONFIG_LOCATION", "https://panel/remote/json.php")
	t.Setenv("ISPCONFIG_TIMEOUT", "3s")
	t.Setenv("ISPCONFIG_INSECURE_SKIP_VERIFY", "true")
	t.Setenv("ALLOWED_DOMAINS", "example.com, Example.org ,")
	t.Setenv("DEFAULT_GROUPS", "mail-users,staff")
	t.Setenv("UID_MAPPING_ENABLED", "false")
	t.Setenv("LOGIN_NAME_FALLBACK", "1")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "host=db user=auth")

	cfg := Load()

	assert.Equal(t, "https://panel/remote/json.php", cfg.ISPConfigLocation)
	assert.Equal(t, 3*time.Second, cfg.ISPConfigTimeout)
	assert.True(t, cfg.ISPConfigInsecureSkipVerify)
	assert.Equal(t, []string{"example.com", "Example.org"}, cfg.AllowedDomains)
	assert.Equal(t, []string{"mail-users", "staff"}, cfg.DefaultGroups)
	assert.False(t, cfg.UIDMappingEnabled)
	assert.True(t, cfg.LoginNameFallback)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "host=db user=auth", cfg.DatabaseDSN)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ISPCONFIG_TIMEOUT", "ten seconds")
	t.Setenv("REDIS_DB", "x")

	cfg := Load()
	assert.Equal(t, 10*time.Second, cfg.ISPConfigTimeout)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestUsesRedis(t *testing.T) {
	cfg := validConfig()
	assert.False(t, cfg.UsesRedis())

	cfg.RateLimitStore = RateLimitStoreRedis
	assert.True(t, cfg.UsesRedis())

	cfg = validConfig()
	cfg.UserCacheType = CacheTypeRedis
	assert.True(t, cfg.UsesRedis())

	cfg = validConfig()
	cfg.MetricsCacheType = CacheTypeRedisAside
	assert.False(t, cfg.UsesRedis(), "metrics cache is unused while metrics are disabled")
	cfg.MetricsEnabled = true
	assert.True(t, cfg.UsesRedis())
}
