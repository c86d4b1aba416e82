package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/astroflux/astroflux/backend/internal/config"
	"github.com/astroflux/astroflux/backend/internal/services"
	"github.com/gin-gonic/gin"
)

// CSRFHeader carries the per-session token on mutating requests.
const CSRFHeader = "X-CSRF-Token"

// CSRF rejects mutating requests whose token does not match the session's.
// Must run after SessionAuth. Failures hard-fail with 403 and land in the
// security event log; no partial processing happens.
func CSRF(audit *services.AuditService, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		session := GetSession(c)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		token := c.GetHeader(CSRFHeader)
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(session.CSRFToken)) != 1 {
			audit.SecurityEvent("csrf_validation_failed", c.Request.URL.Path, ClientKey(c, cfg.IPHashSalt))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "CSRF token validation failed"})
			return
		}

		c.Next()
	}
}
