package services

import (
	"errors"
	"fmt"

	"github.com/astroflux/astroflux/backend/internal/models"
	"gorm.io/gorm"
)

var ErrInsightNotFound = errors.New("no insights found for the specified date")

// InsightService covers admin CRUD and the grouped public read path.
type InsightService struct {
	db *gorm.DB
}

func NewInsightService(db *gorm.DB) *InsightService {
	return &InsightService{db: db}
}

// Create inserts an insight row.
func (s *InsightService) Create(insight *models.Insight) error {
	if !models.ValidPeriod(insight.Period) {
		return ErrInvalidPeriod
	}
	insight.IsActive = true
	if err := s.db.Create(insight).Error; err != nil {
		return fmt.Errorf("insert insight: %w", err)
	}
	return nil
}

// List returns rows for the admin screens, newest first.
func (s *InsightService) List(period, date string, limit int) ([]models.Insight, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := s.db.Order("target_date desc, category asc").Limit(limit)
	if period != "" {
		query = query.Where("period = ?", period)
	}
	if date != "" {
		query = query.Where("target_date = ?", date)
	}

	var rows []models.Insight
	err := query.Find(&rows).Error
	return rows, err
}

// Delete removes a row by ID.
func (s *InsightService) Delete(id uint) error {
	res := s.db.Delete(&models.Insight{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete insight: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInsightNotFound
	}
	return nil
}

// SetActive toggles public visibility of a row.
func (s *InsightService) SetActive(id uint, active bool) error {
	res := s.db.Model(&models.Insight{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return fmt.Errorf("update insight: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInsightNotFound
	}
	return nil
}

// PublicGrouped returns active insights for a period and date keyed by
// category, with the flat row count. category narrows the result when set.
func (s *InsightService) PublicGrouped(period, date, category string) (map[string][]models.Insight, int, error) {
	if !models.ValidPeriod(period) {
		return nil, 0, ErrInvalidPeriod
	}

	query := s.db.Where("period = ? AND target_date = ? AND is_active = ?", period, date, true)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var rows []models.Insight
	if err := query.Order("category asc").Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("load insights: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, ErrInsightNotFound
	}

	grouped := make(map[string][]models.Insight)
	for _, row := range rows {
		grouped[row.Category] = append(grouped[row.Category], row)
	}
	return grouped, len(rows), nil
}

// CountActive returns the number of active rows (dashboard).
func (s *InsightService) CountActive() (int64, error) {
	var count int64
	err := s.db.Model(&models.Insight{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}
