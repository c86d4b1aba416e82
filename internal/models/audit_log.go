package models

import (
	"time"
)

// AuditLogEntry records a single admin-performed mutation or security
// event. Rows are append-only; the application never updates or deletes them.
type AuditLogEntry struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UUID        string    `json:"uuid" gorm:"uniqueIndex"`
	AdminID     uint      `json:"admin_id" gorm:"index"`
	Action      string    `json:"action"`
	TableName   string    `json:"table_name,omitempty"`
	RecordID    uint      `json:"record_id,omitempty"`
	ChangesJSON string    `json:"changes_json,omitempty" gorm:"type:text"`
	IPHash      string    `json:"ip_hash"`
	UserAgent   string    `json:"user_agent"`
	CreatedAt   time.Time `json:"created_at"`
}
