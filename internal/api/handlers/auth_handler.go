package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/astroflux/astroflux/backend/internal/api/middleware"
	"github.com/astroflux/astroflux/backend/internal/config"
	"github.com/astroflux/astroflux/backend/internal/models"
	"github.com/astroflux/astroflux/backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AuthHandler exposes login, logout and account management over the
// session-cookie flow.
type AuthHandler struct {
	auth *services.AuthService
	cfg  config.Config
}

func NewAuthHandler(auth *services.AuthService, cfg config.Config) *AuthHandler {
	return &AuthHandler{auth: auth, cfg: cfg}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates by username or email and sets the session cookie.
// The CSRF token rides in the response body so the SPA can attach it to
// later mutating requests.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ipHash := middleware.ClientKey(c, h.cfg.IPHashSalt)
	account, session, err := h.auth.Login(req.Username, req.Password, ipHash, c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many login attempts. Please try again later."})
		case errors.Is(err, services.ErrAccountLocked):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": services.ErrInvalidCredentials.Error()})
		default:
			middleware.GetRequestLogger(c).WithError(err).Error("login failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	middleware.SetSessionCookie(c, h.cfg, session.Token, int(h.cfg.SessionLifetime.Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":       account.ID,
			"username": account.Username,
			"email":    account.Email,
			"role":     account.Role,
		},
		"csrf_token": session.CSRFToken,
	})
}

// Logout destroys the session and expires the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := middleware.GetSession(c)
	if session != nil {
		ipHash := middleware.ClientKey(c, h.cfg.IPHashSalt)
		if err := h.auth.Logout(session, ipHash, c.Request.UserAgent()); err != nil {
			middleware.GetRequestLogger(c).WithError(err).Error("logout failed")
		}
	}
	middleware.ClearSessionCookie(c, h.cfg)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// Me returns the sanitized identity bound to the session.
func (h *AuthHandler) Me(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":       session.AdminID,
			"username": session.Username,
			"email":    session.Email,
			"role":     session.Role,
		},
		"login_time": session.LoginTime,
	})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// ChangePassword re-hashes the caller's password. All sessions of the
// account are revoked, including the current one, so the cookie is cleared.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ipHash := middleware.ClientKey(c, h.cfg.IPHashSalt)
	err := h.auth.ChangePassword(session.AdminID, req.CurrentPassword, req.NewPassword, ipHash, c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWrongCurrentPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrWrongCurrentPassword.Error()})
		case errors.Is(err, services.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": passwordPolicyMessage})
		default:
			middleware.GetRequestLogger(c).WithError(err).Error("password change failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	middleware.ClearSessionCookie(c, h.cfg)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated successfully. Please log in again."})
}

const passwordPolicyMessage = "Password must be at least 12 characters and include uppercase, lowercase, number, and special character."

type CreateAccountRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// Setup creates the first super_admin. It refuses to run once any account
// exists, so the bootstrap flow cannot be replayed.
func (h *AuthHandler) Setup(c *gin.Context) {
	exists, err := h.auth.HasAccounts()
	if err != nil {
		middleware.GetRequestLogger(c).WithError(err).Error("setup check failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if exists {
		c.JSON(http.StatusForbidden, gin.H{"error": "setup already completed"})
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ipHash := middleware.ClientKey(c, h.cfg.IPHashSalt)
	account, err := h.auth.CreateAccount(req.Username, req.Email, req.Password, models.RoleSuperAdmin, 0, ipHash, c.Request.UserAgent())
	if err != nil {
		h.writeCreateAccountError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": account})
}

// CreateAccount adds an admin account; the route is gated to role >= admin.
func (h *AuthHandler) CreateAccount(c *gin.Context) {
	session := middleware.GetSession(c)

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Role == "" {
		req.Role = models.RoleEditor
	}

	ipHash := middleware.ClientKey(c, h.cfg.IPHashSalt)
	account, err := h.auth.CreateAccount(req.Username, req.Email, req.Password, req.Role, session.AdminID, ipHash, c.Request.UserAgent())
	if err != nil {
		h.writeCreateAccountError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": account})
}

func (h *AuthHandler) writeCreateAccountError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidEmail), errors.Is(err, services.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": passwordPolicyMessage})
	case errors.Is(err, services.ErrDuplicateAccount):
		c.JSON(http.StatusConflict, gin.H{"error": services.ErrDuplicateAccount.Error()})
	default:
		middleware.GetRequestLogger(c).WithError(err).Error("account creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// ListAccounts returns all admin accounts (role >= admin).
func (h *AuthHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.auth.ListAccounts()
	if err != nil {
		middleware.GetRequestLogger(c).WithError(err).Error("account listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "accounts": accounts})
}

// DeactivateAccount soft-deletes an account (role >= admin). Deactivating
// yourself is refused.
func (h *AuthHandler) DeactivateAccount(c *gin.Context) {
	session := middleware.GetSession(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}
	if uint(id) == session.AdminID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot deactivate your own account"})
		return
	}

	ipHash := middleware.ClientKey(c, h.cfg.IPHashSalt)
	if err := h.auth.DeactivateAccount(uint(id), session.AdminID, ipHash, c.Request.UserAgent()); err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": services.ErrAccountNotFound.Error()})
			return
		}
		middleware.GetRequestLogger(c).WithError(err).Error("account deactivation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Account deactivated"})
}
