package middleware

import (
	"net/http"

	"github.com/astroflux/astroflux/backend/internal/config"
	"github.com/astroflux/astroflux/backend/internal/metrics"
	"github.com/astroflux/astroflux/backend/internal/services"
	"github.com/gin-gonic/gin"
)

// RateLimit enforces the shared fixed-window counter for one endpoint
// name. The check runs before the handler, the increment counts the
// request whether it succeeds or not.
func RateLimit(limiter *services.RateLimitService, cfg config.Config, endpoint string) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientKey := ClientKey(c, cfg.IPHashSalt)

		if limiter.Limited(clientKey, endpoint) {
			metrics.IncRateLimited(endpoint)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		limiter.Increment(clientKey, endpoint)

		metrics.IncAPIRequest(endpoint)
		c.Next()
	}
}
