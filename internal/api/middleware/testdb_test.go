package middleware

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/astroflux/astroflux/backend/internal/config"
	"github.com/astroflux/astroflux/backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsnName := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", dsnName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.AdminAccount{},
		&models.Session{},
		&models.RateLimitWindow{},
		&models.AuditLogEntry{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func testConfig() config.Config {
	return config.Config{
		Environment:       "test",
		SessionCookieName: "astroflux_admin_session",
		SessionLifetime:   time.Hour,
		SessionRotation:   30 * time.Minute,
		MaxLoginAttempts:  5,
		LockoutDuration:   15 * time.Minute,
		LoginRateLimit:    5,
		LoginRateWindow:   15 * time.Minute,
		APIRateLimit:      3,
		APIRateWindow:     time.Minute,
		IPHashSalt:        "test-salt",
	}
}
