package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroflux/astroflux/backend/internal/models"
	"github.com/astroflux/astroflux/backend/internal/services"
)

func newCSRFTestRouter(t *testing.T) (*gin.Engine, *models.Session) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)
	cfg := testConfig()
	sessions := services.NewSessionService(db, cfg)
	audit := services.NewAuditService(db)

	session := openTestSession(t, db, sessions, models.RoleEditor)

	router := gin.New()
	group := router.Group("/", SessionAuth(sessions, cfg), CSRF(audit, cfg))
	group.POST("/mutate", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	group.GET("/read", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router, session
}

func csrfRequest(router *gin.Engine, method, path, sessionToken, csrfToken string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.AddCookie(&http.Cookie{Name: "astroflux_admin_session", Value: sessionToken})
	if csrfToken != "" {
		req.Header.Set(CSRFHeader, csrfToken)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCSRFAllowsMatchingToken(t *testing.T) {
	router, session := newCSRFTestRouter(t)

	w := csrfRequest(router, http.MethodPost, "/mutate", session.Token, session.CSRFToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCSRFRejectsMissingToken(t *testing.T) {
	router, session := newCSRFTestRouter(t)

	w := csrfRequest(router, http.MethodPost, "/mutate", session.Token, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "CSRF token validation failed")
}

func TestCSRFRejectsWrongToken(t *testing.T) {
	router, session := newCSRFTestRouter(t)

	w := csrfRequest(router, http.MethodPost, "/mutate", session.Token, "attacker-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "CSRF token validation failed")
}

func TestCSRFSkipsSafeMethods(t *testing.T) {
	router, session := newCSRFTestRouter(t)

	w := csrfRequest(router, http.MethodGet, "/read", session.Token, "")
	require.Equal(t, http.StatusOK, w.Code)
}
