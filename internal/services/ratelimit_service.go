package services

import (
	"errors"
	"time"

	"github.com/astroflux/astroflux/backend/internal/config"
	"github.com/astroflux/astroflux/backend/internal/logger"
	"github.com/astroflux/astroflux/backend/internal/models"
	"gorm.io/gorm"
)

// EndpointLogin gets the stricter per-IP threshold; every other endpoint
// shares the general API limit.
const EndpointLogin = "login"

// RateLimitService implements fixed-window counting backed by one row per
// (client, endpoint) pair. Counter updates race under concurrent load and
// last-writer-wins is accepted: brute-force mitigation needs approximate
// accuracy, not exactness.
type RateLimitService struct {
	db  *gorm.DB
	cfg config.Config
}

func NewRateLimitService(db *gorm.DB, cfg config.Config) *RateLimitService {
	return &RateLimitService{db: db, cfg: cfg}
}

func (s *RateLimitService) limit(endpoint string) (int, time.Duration) {
	if endpoint == EndpointLogin {
		return s.cfg.LoginRateLimit, s.cfg.LoginRateWindow
	}
	return s.cfg.APIRateLimit, s.cfg.APIRateWindow
}

// Limited reports whether the client has exhausted the endpoint's window.
// A missing or expired window row never limits; Increment resets it.
func (s *RateLimitService) Limited(clientKey, endpoint string) bool {
	var window models.RateLimitWindow
	err := s.db.Where("client_key = ? AND endpoint = ?", clientKey, endpoint).First(&window).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Log().WithError(err).Error("rate limit lookup failed")
		}
		return false
	}

	max, duration := s.limit(endpoint)
	if time.Since(window.WindowStart) > duration {
		return false
	}
	return window.RequestCount >= max
}

// Increment upserts the window row: absent or expired windows restart at
// count=1, live windows count up in place.
func (s *RateLimitService) Increment(clientKey, endpoint string) {
	now := time.Now()
	_, duration := s.limit(endpoint)

	var window models.RateLimitWindow
	err := s.db.Where("client_key = ? AND endpoint = ?", clientKey, endpoint).First(&window).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		window = models.RateLimitWindow{
			ClientKey:    clientKey,
			Endpoint:     endpoint,
			RequestCount: 1,
			WindowStart:  now,
		}
		err = s.db.Create(&window).Error
	case err == nil:
		if now.Sub(window.WindowStart) > duration {
			window.RequestCount = 1
			window.WindowStart = now
		} else {
			window.RequestCount++
		}
		err = s.db.Save(&window).Error
	}

	if err != nil {
		logger.Log().WithError(err).Error("rate limit increment failed")
	}
}

// Cleanup drops windows that ended over an hour ago. Garbage collection
// only; expiry is already handled on read and write.
func (s *RateLimitService) Cleanup() error {
	cutoff := time.Now().Add(-time.Hour)
	return s.db.Where("window_start < ?", cutoff).Delete(&models.RateLimitWindow{}).Error
}
