package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware checks the X-API-Key header on admin routes. An empty
// configured key disables the check (local development only).
func AuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}

		key := c.GetHeader("X-API-Key")
		if key != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Next()
	}
}
