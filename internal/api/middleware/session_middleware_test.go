package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/astroflux/astroflux/backend/internal/models"
	"github.com/astroflux/astroflux/backend/internal/services"
)

func newSessionTestRouter(t *testing.T) (*gin.Engine, *services.SessionService, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)
	cfg := testConfig()
	sessions := services.NewSessionService(db, cfg)

	router := gin.New()
	protected := router.Group("/", SessionAuth(sessions, cfg))
	protected.GET("/me", func(c *gin.Context) {
		session := GetSession(c)
		c.JSON(http.StatusOK, gin.H{"username": session.Username})
	})
	protected.GET("/admin-only", RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router, sessions, db
}

func openTestSession(t *testing.T, db *gorm.DB, sessions *services.SessionService, role string) *models.Session {
	t.Helper()
	account := &models.AdminAccount{
		Username: "stella",
		Email:    "stella@example.com",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, account.SetPassword("Sup3r$ecretPass!"))
	require.NoError(t, db.Create(account).Error)

	session, err := sessions.Create(account)
	require.NoError(t, err)
	return session
}

func requestWithCookie(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "astroflux_admin_session", Value: token})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSessionAuthMissingCookie(t *testing.T) {
	router, _, _ := newSessionTestRouter(t)

	w := requestWithCookie(router, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication required")
}

func TestSessionAuthInvalidToken(t *testing.T) {
	router, _, _ := newSessionTestRouter(t)

	w := requestWithCookie(router, "/me", "bogus-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication required")
}

func TestSessionAuthValidSession(t *testing.T) {
	router, sessions, db := newSessionTestRouter(t)
	session := openTestSession(t, db, sessions, models.RoleEditor)

	w := requestWithCookie(router, "/me", session.Token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "stella")
}

func TestSessionAuthExpiredSessionSignalsTimeout(t *testing.T) {
	router, sessions, db := newSessionTestRouter(t)
	session := openTestSession(t, db, sessions, models.RoleEditor)

	stale := time.Now().Add(-2 * time.Hour)
	require.NoError(t, db.Model(&models.Session{}).Where("id = ?", session.ID).
		Update("last_activity", stale).Error)

	w := requestWithCookie(router, "/me", session.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "session expired")
	assert.Contains(t, w.Body.String(), `"timeout":true`)
}

func TestSessionAuthReissuesRotatedToken(t *testing.T) {
	router, sessions, db := newSessionTestRouter(t)
	session := openTestSession(t, db, sessions, models.RoleEditor)

	due := time.Now().Add(-31 * time.Minute)
	require.NoError(t, db.Model(&models.Session{}).Where("id = ?", session.ID).
		Update("rotated_at", due).Error)

	w := requestWithCookie(router, "/me", session.Token)
	assert.Equal(t, http.StatusOK, w.Code)

	var reissued bool
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "astroflux_admin_session" && cookie.Value != "" && cookie.Value != session.Token {
			reissued = true
		}
	}
	assert.True(t, reissued, "expected a refreshed session cookie")
}

func TestRequireRole(t *testing.T) {
	t.Run("editor denied admin route", func(t *testing.T) {
		router, sessions, db := newSessionTestRouter(t)
		session := openTestSession(t, db, sessions, models.RoleEditor)

		w := requestWithCookie(router, "/admin-only", session.Token)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "insufficient permissions")
	})

	t.Run("admin allowed", func(t *testing.T) {
		router, sessions, db := newSessionTestRouter(t)
		session := openTestSession(t, db, sessions, models.RoleAdmin)

		w := requestWithCookie(router, "/admin-only", session.Token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("super_admin allowed", func(t *testing.T) {
		router, sessions, db := newSessionTestRouter(t)
		session := openTestSession(t, db, sessions, models.RoleSuperAdmin)

		w := requestWithCookie(router, "/admin-only", session.Token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
