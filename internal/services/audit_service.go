package services

import (
	"encoding/json"

	"github.com/astroflux/astroflux/backend/internal/logger"
	"github.com/astroflux/astroflux/backend/internal/models"
	"github.com/astroflux/astroflux/backend/internal/util"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditService appends admin actions to the audit log and emits security
// events. Both are best-effort: a failed write is logged and swallowed so
// logging can never block content management.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record appends one audit entry. changes may be nil; otherwise it is
// serialized as a JSON diff.
func (s *AuditService) Record(adminID uint, action, tableName string, recordID uint, changes any, ipHash, userAgent string) {
	entry := models.AuditLogEntry{
		UUID:      uuid.NewString(),
		AdminID:   adminID,
		Action:    action,
		TableName: tableName,
		RecordID:  recordID,
		IPHash:    ipHash,
		UserAgent: util.TruncateUserAgent(userAgent),
	}

	if changes != nil {
		if raw, err := json.Marshal(changes); err == nil {
			entry.ChangesJSON = string(raw)
		} else {
			logger.Log().WithError(err).Warn("audit changes not serializable")
		}
	}

	if err := s.db.Create(&entry).Error; err != nil {
		logger.Log().WithError(err).WithField("action", action).Error("failed to write audit entry")
	}
}

// SecurityEvent writes to the security log channel. The event code is
// internal and intentionally more specific than any user-facing message.
func (s *AuditService) SecurityEvent(event, detail, ipHash string) {
	logger.Security(event, ipHash).Info(util.SanitizeForLog(detail))
}

// List returns audit entries newest first with the total row count.
func (s *AuditService) List(limit, offset int) ([]models.AuditLogEntry, int64, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var total int64
	if err := s.db.Model(&models.AuditLogEntry{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.AuditLogEntry
	err := s.db.Order("created_at desc").Limit(limit).Offset(offset).Find(&entries).Error
	return entries, total, err
}
