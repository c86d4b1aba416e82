package middleware

import (
	"errors"
	"net/http"

	"github.com/astroflux/astroflux/backend/internal/config"
	"github.com/astroflux/astroflux/backend/internal/models"
	"github.com/astroflux/astroflux/backend/internal/services"
	"github.com/gin-gonic/gin"
)

// SessionKey is the gin context key holding the resolved *models.Session.
const SessionKey = "session"

// SetSessionCookie writes the session cookie with the hardening flags the
// admin panel requires: HttpOnly always, Secure in production,
// SameSite=Strict.
func SetSessionCookie(c *gin.Context, cfg config.Config, token string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cfg.SessionCookieName, token, maxAge, "/", "", cfg.IsProduction(), true)
}

// ClearSessionCookie expires the session cookie immediately.
func ClearSessionCookie(c *gin.Context, cfg config.Config) {
	SetSessionCookie(c, cfg, "", -1)
}

// SessionAuth resolves the session cookie and aborts with 401 when the
// request carries no valid session. Expired sessions answer with a timeout
// marker so the frontend can redirect to the login screen. When validation
// rotated the token, the refreshed cookie is set on the way in.
func SessionAuth(sessions *services.SessionService, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cfg.SessionCookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		session, err := sessions.Validate(token)
		if err != nil {
			ClearSessionCookie(c, cfg)
			if errors.Is(err, services.ErrSessionExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":   "session expired",
					"timeout": true,
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		if session.Token != token {
			SetSessionCookie(c, cfg, session.Token, int(cfg.SessionLifetime.Seconds()))
		}

		c.Set(SessionKey, session)
		c.Next()
	}
}

// GetSession returns the request's session or nil.
func GetSession(c *gin.Context) *models.Session {
	if v, ok := c.Get(SessionKey); ok {
		if session, ok := v.(*models.Session); ok {
			return session
		}
	}
	return nil
}

// RequireRole gates a route group on the role total order. Absence of a
// session fails closed with 401; an insufficient role hard-fails with 403.
func RequireRole(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !services.HasRole(session, required) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}
