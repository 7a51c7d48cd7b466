package middleware

import (
	"errors"
	"net/http"

	"kasir-pos/internal/auth"
	"kasir-pos/internal/errs"

	"github.com/gin-gonic/gin"
)

// ContextUser is where the resolved user lands for handlers and audit.
const ContextUser = "user"

// APIKeyAuth rejects any request without a resolvable X-API-Key before the
// core logic runs.
func APIKeyAuth(gate *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get the key from the "X-API-Key" header
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			c.Abort()
			return
		}

		// 2. Resolve it to a known user
		user, err := gate.Resolve(apiKey)
		if err != nil {
			if errors.Is(err, errs.ErrAuth) {
				c.JSON(http.StatusForbidden, gin.H{"error": "Invalid API Key"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify API Key"})
			}
			c.Abort()
			return
		}

		// 3. Store the user for the next handler to use
		c.Set(ContextUser, user)
		c.Next()
	}
}

// User returns the authenticated user set by APIKeyAuth.
func User(c *gin.Context) string {
	if v, ok := c.Get(ContextUser); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
