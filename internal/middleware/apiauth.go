package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	httpclient "github.com/appleboy/go-httpclient"
	"github.com/gin-gonic/gin"
)

// API authentication modes. simple and hmac are verified by go-httpclient,
// the same library AuthGate's http_api provider signs its requests with.
const (
	APIAuthBearer = "bearer"                  // Authorization: Bearer <secret>
	APIAuthSimple = httpclient.AuthModeSimple // shared secret in a custom header
	APIAuthHMAC   = httpclient.AuthModeHMAC   // HMAC-SHA256 signed requests
)

// Defaults for the signed modes
const (
	DefaultSecretHeader    = httpclient.DefaultAPISecretHeader
	DefaultSignatureMaxAge = 5 * time.Minute
)

// APIAuthConfig configures authentication of the user backend API
type APIAuthConfig struct {
	Mode   string // bearer (default), simple or hmac
	Secret string // empty disables the check

	SecretHeader string        // simple mode header (default X-API-Secret)
	MaxAge       time.Duration // hmac mode clock window (default 5m)
	MaxBodySize  int64         // hmac mode body limit (library default 10MB)
}

func (c APIAuthConfig) withDefaults() APIAuthConfig {
	if c.Mode == "" {
		c.Mode = APIAuthBearer
	}
	if c.SecretHeader == "" {
		c.SecretHeader = DefaultSecretHeader
	}
	if c.MaxAge <= 0 {
		c.MaxAge = DefaultSignatureMaxAge
	}
	return c
}

// APIAuthMiddleware protects the user backend API with the shared API secret
func APIAuthMiddleware(cfg APIAuthConfig) (gin.HandlerFunc, error) {
	cfg = cfg.withDefaults()

	switch cfg.Mode {
	case APIAuthBearer:
		return BearerAuthMiddleware("API", cfg.Secret), nil
	case APIAuthSimple, APIAuthHMAC:
	default:
		return nil, fmt.Errorf("unsupported API auth mode: %q", cfg.Mode)
	}

	auth := httpclient.NewAuthConfig(cfg.Mode, cfg.Secret)
	auth.HeaderName = cfg.SecretHeader
	opts := []httpclient.VerifyOption{
		httpclient.WithVerifyMaxAge(cfg.MaxAge),
		httpclient.WithVerifyMaxBodySize(cfg.MaxBodySize),
	}

	return func(c *gin.Context) {
		if cfg.Secret == "" {
			c.Next()
			return
		}

		if err := auth.Verify(c.Request, opts...); err != nil {
			log.Printf("[API] Rejected %s %s from %s: %v",
				c.Request.Method, c.Request.URL.Path, c.ClientIP(), err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "invalid API credentials",
			})
			return
		}
		c.Next()
	}, nil
}
