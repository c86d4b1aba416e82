package models

import (
	"time"
)

// RateLimitWindow is one fixed-window counter per (client, endpoint) pair.
// ClientKey is a salted hash of the caller's IP, never the raw address.
type RateLimitWindow struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ClientKey    string    `json:"client_key" gorm:"uniqueIndex:idx_rate_limit_client_endpoint"`
	Endpoint     string    `json:"endpoint" gorm:"uniqueIndex:idx_rate_limit_client_endpoint"`
	RequestCount int       `json:"request_count"`
	WindowStart  time.Time `json:"window_start"`
}
