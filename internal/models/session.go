package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Session is a server-side admin session, addressed by an opaque token
// delivered in an HttpOnly cookie. The row is the source of truth; the
// cookie only carries the token.
type Session struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Token string `json:"-" gorm:"uniqueIndex"`

	AdminID  uint   `json:"admin_id" gorm:"index"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`

	CSRFToken    string    `json:"-"`
	LoginTime    time.Time `json:"login_time"`
	LastActivity time.Time `json:"last_activity"`
	// RotatedAt tracks when the token was last regenerated (fixation defense).
	RotatedAt time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Expired reports whether the idle timeout has elapsed.
func (s *Session) Expired(now time.Time, lifetime time.Duration) bool {
	return now.Sub(s.LastActivity) >= lifetime
}

// NewSessionToken returns a 256-bit unpredictable token in hex.
func NewSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
