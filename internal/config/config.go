package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment  string
	HTTPPort     string
	DatabasePath string
	FrontendDir  string

	// Session handling
	SessionCookieName string
	SessionLifetime   time.Duration
	SessionRotation   time.Duration

	// Account lockout
	MaxLoginAttempts int
	LockoutDuration  time.Duration

	// Fixed-window rate limiting
	LoginRateLimit  int
	LoginRateWindow time.Duration
	APIRateLimit    int
	APIRateWindow   time.Duration

	// Client IPs are never persisted in plain text; they are salted and hashed.
	IPHashSalt string

	// CORS allow-list for the public read API
	AllowedOrigins []string

	// Horoscope importer
	APINinjasKey  string
	ImportTimeout time.Duration

	// Shoutrrr destinations for security alerts (comma separated)
	NotifyURLs []string
}

// Load reads env vars and falls back to defaults so the server can boot with zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:  getEnv("ASTRO_ENV", "development"),
		HTTPPort:     getEnv("ASTRO_HTTP_PORT", "8080"),
		DatabasePath: getEnv("ASTRO_DB_PATH", filepath.Join("data", "astroflux.db")),
		FrontendDir:  getEnv("ASTRO_FRONTEND_DIR", filepath.Clean(filepath.Join("..", "frontend", "dist"))),

		SessionCookieName: getEnv("ASTRO_SESSION_COOKIE", "astroflux_admin_session"),
		SessionLifetime:   getEnvDuration("ASTRO_SESSION_LIFETIME", time.Hour),
		SessionRotation:   getEnvDuration("ASTRO_SESSION_ROTATION", 30*time.Minute),

		MaxLoginAttempts: getEnvInt("ASTRO_MAX_LOGIN_ATTEMPTS", 5),
		LockoutDuration:  getEnvDuration("ASTRO_LOCKOUT_DURATION", 15*time.Minute),

		LoginRateLimit:  getEnvInt("ASTRO_LOGIN_RATE_LIMIT", 5),
		LoginRateWindow: getEnvDuration("ASTRO_LOGIN_RATE_WINDOW", 15*time.Minute),
		APIRateLimit:    getEnvInt("ASTRO_API_RATE_LIMIT", 100),
		APIRateWindow:   getEnvDuration("ASTRO_API_RATE_WINDOW", time.Minute),

		IPHashSalt: getEnv("ASTRO_IP_HASH_SALT", "astroflux-dev-salt"),

		AllowedOrigins: getEnvList("ASTRO_ALLOWED_ORIGINS", []string{"http://localhost"}),

		APINinjasKey:  getEnv("ASTRO_API_NINJAS_KEY", ""),
		ImportTimeout: getEnvDuration("ASTRO_IMPORT_TIMEOUT", 10*time.Second),

		NotifyURLs: getEnvList("ASTRO_NOTIFY_URLS", nil),
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether the server runs with production hardening
// (secure cookies require it).
func (c Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}

	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}

	var out []string
	for _, part := range strings.Split(val, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
