package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/astroflux/astroflux/backend/internal/config"
	"github.com/astroflux/astroflux/backend/internal/database"
	"github.com/astroflux/astroflux/backend/internal/logger"
	"github.com/astroflux/astroflux/backend/internal/models"
	"github.com/astroflux/astroflux/backend/internal/server"
	"github.com/astroflux/astroflux/backend/internal/version"
)

func main() {
	// Setup logging with rotation
	logDir := "/app/data/logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		// Fallback to local directory if /app/data fails (e.g. local dev)
		logDir = "data/logs"
		_ = os.MkdirAll(logDir, 0755)
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "astroflux.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	// Log to both stdout and file
	mw := io.MultiWriter(os.Stdout, rotator)
	log.SetOutput(mw)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger.Init(!cfg.IsProduction(), mw)

	// Handle CLI commands
	if len(os.Args) > 1 && os.Args[1] == "reset-password" {
		if len(os.Args) != 4 {
			log.Fatalf("Usage: %s reset-password <username-or-email> <new-password>", os.Args[0])
		}
		resetPassword(cfg, os.Args[2], os.Args[3])
		return
	}

	log.Printf("starting %s backend version %s", version.Name, version.Full())

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	srv, err := server.New(db, cfg)
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("listening on :%s", cfg.HTTPPort)
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// resetPassword rehashes an account's password and clears any lockout so
// an operator can recover a locked-out admin from the shell.
func resetPassword(cfg config.Config, usernameOrEmail, newPassword string) {
	if !models.StrongPassword(newPassword) {
		log.Fatal("password must be at least 12 characters and include uppercase, lowercase, number, and special character")
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	var account models.AdminAccount
	if err := db.Where("username = ? OR email = ?", usernameOrEmail, usernameOrEmail).First(&account).Error; err != nil {
		log.Fatalf("account not found: %v", err)
	}

	if err := account.SetPassword(newPassword); err != nil {
		log.Fatalf("hash password: %v", err)
	}
	account.LoginAttempts = 0
	account.LockoutUntil = nil
	account.IsActive = true

	if err := db.Save(&account).Error; err != nil {
		log.Fatalf("save account: %v", err)
	}

	log.Printf("Password updated successfully for %s", account.Username)
}
