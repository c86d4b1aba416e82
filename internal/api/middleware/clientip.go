package middleware

import (
	"github.com/astroflux/astroflux/backend/internal/util"
	"github.com/gin-gonic/gin"
)

// ClientKey returns the salted hash of the request's client IP. Every
// consumer (rate limiter, audit log, security events) sees only the hash.
func ClientKey(c *gin.Context, salt string) string {
	return util.HashIP(c.ClientIP(), salt)
}
