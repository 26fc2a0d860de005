package middleware

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// BearerAuthMiddleware protects routes with a static Bearer token.
// An empty token disables the check.
func BearerAuthMiddleware(realm, token string) gin.HandlerFunc {
	challenge := fmt.Sprintf("Bearer realm=%q", realm)

	reject := func(c *gin.Context, message string) {
		c.Header("WWW-Authenticate", challenge)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": message,
		})
	}

	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			reject(c, "Bearer token required")
			return
		}

		providedToken := strings.TrimPrefix(authHeader, "Bearer ")

		// Constant-time comparison to prevent timing attacks
		if subtle.ConstantTimeCompare([]byte(providedToken), []byte(token)) != 1 {
			reject(c, "Invalid token")
			return
		}

		c.Next()
	}
}

// MetricsAuthMiddleware protects the metrics endpoint with a Bearer token
func MetricsAuthMiddleware(token string) gin.HandlerFunc {
	return BearerAuthMiddleware("Metrics", token)
}
