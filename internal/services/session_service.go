package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/astroflux/astroflux/backend/internal/config"
	"github.com/astroflux/astroflux/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// SessionService manages the server-side session lifecycle: creation at
// login, activity refresh, periodic token rotation and destruction.
type SessionService struct {
	db  *gorm.DB
	cfg config.Config
}

func NewSessionService(db *gorm.DB, cfg config.Config) *SessionService {
	return &SessionService{db: db, cfg: cfg}
}

// Create opens a new session for the account with a fresh CSRF token.
func (s *SessionService) Create(account *models.AdminAccount) (*models.Session, error) {
	token, err := models.NewSessionToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}
	csrf, err := models.NewSessionToken()
	if err != nil {
		return nil, fmt.Errorf("generate csrf token: %w", err)
	}

	now := time.Now()
	session := &models.Session{
		Token:        token,
		AdminID:      account.ID,
		Username:     account.Username,
		Email:        account.Email,
		Role:         account.Role,
		CSRFToken:    csrf,
		LoginTime:    now,
		LastActivity: now,
		RotatedAt:    now,
	}

	if err := s.db.Create(session).Error; err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return session, nil
}

// Validate resolves a cookie token to a live session. An idle session past
// its lifetime is destroyed and reported as expired. On every hit the
// activity stamp is refreshed, and once the rotation interval has elapsed
// the token is regenerated in place so a fixated ID stops working. Callers
// must re-set the cookie when the returned token differs from the input.
func (s *SessionService) Validate(token string) (*models.Session, error) {
	var session models.Session
	if err := s.db.Where("token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	now := time.Now()
	if session.Expired(now, s.cfg.SessionLifetime) {
		s.db.Delete(&session)
		return nil, ErrSessionExpired
	}

	session.LastActivity = now
	if now.Sub(session.RotatedAt) >= s.cfg.SessionRotation {
		fresh, err := models.NewSessionToken()
		if err != nil {
			return nil, fmt.Errorf("rotate session token: %w", err)
		}
		session.Token = fresh
		session.RotatedAt = now
	}

	if err := s.db.Save(&session).Error; err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	return &session, nil
}

// Destroy removes the session addressed by token. Unknown tokens are a no-op.
func (s *SessionService) Destroy(token string) error {
	return s.db.Where("token = ?", token).Delete(&models.Session{}).Error
}

// DestroyForAdmin removes every session belonging to an account, e.g.
// after a password change.
func (s *SessionService) DestroyForAdmin(adminID uint) error {
	return s.db.Where("admin_id = ?", adminID).Delete(&models.Session{}).Error
}

// PurgeExpired deletes sessions idle past the lifetime. Run from cron;
// Validate already enforces expiry, so this is housekeeping only.
func (s *SessionService) PurgeExpired() error {
	cutoff := time.Now().Add(-s.cfg.SessionLifetime)
	return s.db.Where("last_activity < ?", cutoff).Delete(&models.Session{}).Error
}
