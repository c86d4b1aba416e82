package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS gates the public read API to an explicit origin allow-list.
// Disallowed origins get no CORS headers at all; allowed preflights are
// answered with 204 before any handler runs.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := allowed[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Access-Control-Allow-Credentials", "true")
				c.Header("Access-Control-Max-Age", "86400")
				c.Header("Vary", "Origin")

				if c.Request.Method == http.MethodOptions {
					c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
					c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, "+CSRFHeader)
					c.AbortWithStatus(http.StatusNoContent)
					return
				}
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
