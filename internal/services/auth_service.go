package services

import (
	"errors"
	"fmt"
	"math"
	"net/mail"
	"time"

	"github.com/astroflux/astroflux/backend/internal/config"
	"github.com/astroflux/astroflux/backend/internal/logger"
	"github.com/astroflux/astroflux/backend/internal/metrics"
	"github.com/astroflux/astroflux/backend/internal/models"
	"github.com/astroflux/astroflux/backend/internal/notify"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials is returned for unknown accounts and wrong
	// passwords alike, so responses cannot be used to enumerate users.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountLocked      = errors.New("account locked")
	ErrRateLimited        = errors.New("too many login attempts")

	ErrWrongCurrentPassword = errors.New("current password is incorrect")
	ErrWeakPassword         = errors.New("password does not meet the policy")
	ErrDuplicateAccount     = errors.New("username or email already exists")
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrInvalidRole          = errors.New("invalid role")
	ErrAccountNotFound      = errors.New("account not found")
)

// AuthService composes the credential store, session manager and rate
// limiter into the login, logout and account management workflows.
type AuthService struct {
	db        *gorm.DB
	cfg       config.Config
	sessions  *SessionService
	rateLimit *RateLimitService
	audit     *AuditService
	notifier  *notify.Notifier
}

func NewAuthService(db *gorm.DB, cfg config.Config, sessions *SessionService, rateLimit *RateLimitService, audit *AuditService, notifier *notify.Notifier) *AuthService {
	return &AuthService{
		db:        db,
		cfg:       cfg,
		sessions:  sessions,
		rateLimit: rateLimit,
		audit:     audit,
		notifier:  notifier,
	}
}

// Login authenticates by username or email and opens a session.
//
// Two throttles apply independently: the per-IP fixed window (checked
// before the credential store is touched) and the per-account lockout
// counter. Failures all surface as ErrInvalidCredentials except lockout
// and rate limiting; the security log keeps the specific reason.
func (s *AuthService) Login(usernameOrEmail, password, ipHash, userAgent string) (*models.AdminAccount, *models.Session, error) {
	if s.rateLimit.Limited(ipHash, EndpointLogin) {
		s.audit.SecurityEvent("login_rate_limited", "username: "+usernameOrEmail, ipHash)
		metrics.IncRateLimited(EndpointLogin)
		return nil, nil, ErrRateLimited
	}

	var account models.AdminAccount
	err := s.db.Where("(username = ? OR email = ?) AND is_active = ?", usernameOrEmail, usernameOrEmail, true).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.rateLimit.Increment(ipHash, EndpointLogin)
			s.audit.SecurityEvent("login_failed_user_not_found", "username: "+usernameOrEmail, ipHash)
			metrics.IncLoginFailed()
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("look up account: %w", err)
	}

	now := time.Now()
	if account.IsLocked(now) {
		remaining := int(math.Ceil(account.LockoutUntil.Sub(now).Minutes()))
		s.rateLimit.Increment(ipHash, EndpointLogin)
		s.audit.SecurityEvent("login_account_locked", fmt.Sprintf("admin_id: %d", account.ID), ipHash)
		return nil, nil, fmt.Errorf("%w, try again in %d minutes", ErrAccountLocked, remaining)
	}

	if !account.CheckPassword(password) {
		account.LoginAttempts++
		if account.LoginAttempts >= s.cfg.MaxLoginAttempts {
			lockout := now.Add(s.cfg.LockoutDuration)
			account.LockoutUntil = &lockout
			metrics.IncLockout()
			s.notifier.Alert("Account locked",
				fmt.Sprintf("Admin account %q locked after %d failed login attempts", account.Username, account.LoginAttempts))
		}
		// Lockout accuracy under concurrent failures is approximate; the
		// last writer wins.
		if err := s.db.Model(&account).Select("login_attempts", "lockout_until").Updates(&account).Error; err != nil {
			logger.Log().WithError(err).Error("failed login counter update failed")
		}

		s.rateLimit.Increment(ipHash, EndpointLogin)
		s.audit.SecurityEvent("login_wrong_password",
			fmt.Sprintf("admin_id: %d, attempt: %d", account.ID, account.LoginAttempts), ipHash)
		metrics.IncLoginFailed()
		return nil, nil, ErrInvalidCredentials
	}

	account.LoginAttempts = 0
	account.LockoutUntil = nil
	account.LastLogin = &now
	if err := s.db.Model(&account).Select("login_attempts", "lockout_until", "last_login").Updates(&account).Error; err != nil {
		return nil, nil, fmt.Errorf("reset login attempts: %w", err)
	}

	session, err := s.sessions.Create(&account)
	if err != nil {
		return nil, nil, err
	}

	s.rateLimit.Increment(ipHash, EndpointLogin)
	s.audit.Record(account.ID, "login", "admin_accounts", account.ID, nil, ipHash, userAgent)
	s.audit.SecurityEvent("login_success", fmt.Sprintf("admin_id: %d", account.ID), ipHash)
	metrics.IncLoginSuccess()

	return &account, session, nil
}

// Logout destroys the session and records the action.
func (s *AuthService) Logout(session *models.Session, ipHash, userAgent string) error {
	s.audit.Record(session.AdminID, "logout", "admin_accounts", session.AdminID, nil, ipHash, userAgent)
	s.audit.SecurityEvent("logout", fmt.Sprintf("admin_id: %d", session.AdminID), ipHash)
	return s.sessions.Destroy(session.Token)
}

// ChangePassword verifies the current password, enforces the policy and
// re-hashes. Other sessions of the account are revoked.
func (s *AuthService) ChangePassword(adminID uint, currentPassword, newPassword, ipHash, userAgent string) error {
	var account models.AdminAccount
	if err := s.db.First(&account, adminID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("look up account: %w", err)
	}

	if !account.CheckPassword(currentPassword) {
		s.audit.SecurityEvent("password_change_wrong_current", fmt.Sprintf("admin_id: %d", adminID), ipHash)
		return ErrWrongCurrentPassword
	}

	if !models.StrongPassword(newPassword) {
		return ErrWeakPassword
	}

	if err := account.SetPassword(newPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.db.Model(&account).Update("password_hash", account.PasswordHash).Error; err != nil {
		return fmt.Errorf("persist password: %w", err)
	}

	if err := s.sessions.DestroyForAdmin(adminID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	s.audit.Record(adminID, "change_password", "admin_accounts", adminID, nil, ipHash, userAgent)
	s.audit.SecurityEvent("password_changed", fmt.Sprintf("admin_id: %d", adminID), ipHash)
	return nil
}

// CreateAccount inserts a new admin with a fresh hash. createdBy is zero
// for the bootstrap account.
func (s *AuthService) CreateAccount(username, email, password, role string, createdBy uint, ipHash, userAgent string) (*models.AdminAccount, error) {
	if username == "" || email == "" || password == "" {
		return nil, ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	if !models.StrongPassword(password) {
		return nil, ErrWeakPassword
	}

	var existing int64
	if err := s.db.Model(&models.AdminAccount{}).
		Where("username = ? OR email = ?", username, email).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("check duplicates: %w", err)
	}
	if existing > 0 {
		return nil, ErrDuplicateAccount
	}

	account := models.AdminAccount{
		Username: username,
		Email:    email,
		Role:     role,
		IsActive: true,
	}
	if err := account.SetPassword(password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.db.Create(&account).Error; err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}

	if createdBy != 0 {
		s.audit.Record(createdBy, "create_admin_account", "admin_accounts", account.ID, nil, ipHash, userAgent)
	}
	return &account, nil
}

// DeactivateAccount soft-deletes an admin by clearing is_active and
// revoking its sessions.
func (s *AuthService) DeactivateAccount(id uint, actorID uint, ipHash, userAgent string) error {
	res := s.db.Model(&models.AdminAccount{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("deactivate account: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	if err := s.sessions.DestroyForAdmin(id); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	s.audit.Record(actorID, "deactivate_admin_account", "admin_accounts", id, nil, ipHash, userAgent)
	return nil
}

// HasAccounts reports whether any admin exists; used to guard the
// one-time bootstrap flow.
func (s *AuthService) HasAccounts() (bool, error) {
	var count int64
	if err := s.db.Model(&models.AdminAccount{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count accounts: %w", err)
	}
	return count > 0, nil
}

// HasRole reports whether the session's role meets the required level on
// the editor < admin < super_admin order. A nil session fails closed.
func HasRole(session *models.Session, required string) bool {
	if session == nil {
		return false
	}
	return models.RoleLevel(session.Role) >= models.RoleLevel(required)
}

// ListAccounts returns all admin accounts, active first, newest first.
func (s *AuthService) ListAccounts() ([]models.AdminAccount, error) {
	var accounts []models.AdminAccount
	err := s.db.Order("is_active desc, created_at desc").Find(&accounts).Error
	return accounts, err
}
