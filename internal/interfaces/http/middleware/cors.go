package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const wildcardOrigin = "*"

// CORS returns a Gin middleware for handling Cross-Origin Resource Sharing.
// An allowed origin of "*" accepts any origin.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Set CORS headers
		c.Header("Access-Control-Allow-Origin", getAllowedOrigin(origin, allowedOrigins))
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Accept, Origin, Cache-Control, X-Requested-With, X-Request-ID, Idempotency-Key")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Expose-Headers", "Content-Length, X-Request-ID, X-Cache-Hit")
		c.Header("Access-Control-Max-Age", "86400")
		c.Header("Vary", "Origin")

		// Handle preflight requests
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// getAllowedOrigin returns the allowed origin based on the request origin
func getAllowedOrigin(origin string, allowedOrigins []string) string {
	for _, allowedOrigin := range allowedOrigins {
		if allowedOrigin == wildcardOrigin {
			if origin == "" {
				return wildcardOrigin
			}
			return origin
		}
		if origin == allowedOrigin {
			return origin
		}
	}

	// Origin not in whitelist, return empty string to reject the request
	return ""
}

// SecurityHeaders returns a middleware that sets security headers
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		c.Next()
	}
}
