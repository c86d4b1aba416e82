package models

import (
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// Admin roles form a total order: editor < admin < super_admin.
const (
	RoleEditor     = "editor"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// Password policy for admin accounts.
const PasswordMinLength = 12

// AdminAccount represents a panel administrator with role-based access.
// Mobile app users are never stored; only the editors of the content.
type AdminAccount struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Username      string     `json:"username" gorm:"uniqueIndex"`
	Email         string     `json:"email" gorm:"uniqueIndex"`
	PasswordHash  string     `json:"-"` // Never serialize password hash
	Role          string     `json:"role" gorm:"default:'editor'"`
	IsActive      bool       `json:"is_active" gorm:"default:true"`
	LoginAttempts int        `json:"-" gorm:"default:0"`
	LockoutUntil  *time.Time `json:"-"`
	LastLogin     *time.Time `json:"last_login,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetPassword hashes and sets the account's password.
func (a *AdminAccount) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares the provided password with the stored hash.
func (a *AdminAccount) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
	return err == nil
}

// IsLocked reports whether the account is currently in a lockout window.
func (a *AdminAccount) IsLocked(now time.Time) bool {
	return a.LockoutUntil != nil && a.LockoutUntil.After(now)
}

// RoleLevel maps a role name onto the total order used for authorization.
// Unknown roles map to 0 so checks against them fail closed.
func RoleLevel(role string) int {
	switch role {
	case RoleEditor:
		return 1
	case RoleAdmin:
		return 2
	case RoleSuperAdmin:
		return 3
	default:
		return 0
	}
}

// HasRole reports whether the account's role level meets the required level.
func (a *AdminAccount) HasRole(required string) bool {
	return RoleLevel(a.Role) >= RoleLevel(required)
}

// ValidRole reports whether the given role name exists.
func ValidRole(role string) bool {
	return RoleLevel(role) > 0
}

// StrongPassword enforces the admin password policy: at least 12
// characters including uppercase, lowercase, digit and special character.
func StrongPassword(password string) bool {
	if len(password) < PasswordMinLength {
		return false
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}

	return upper && lower && digit && special
}
