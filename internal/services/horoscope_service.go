package services

import (
	"errors"
	"fmt"

	"github.com/astroflux/astroflux/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrHoroscopeNotFound = errors.New("no horoscope found for the specified date")
	ErrInvalidZodiacSign = errors.New("invalid zodiac sign")
	ErrInvalidPeriod     = errors.New("invalid period")
)

// HoroscopeService covers admin CRUD and the public read path for
// horoscope rows.
type HoroscopeService struct {
	db *gorm.DB
}

func NewHoroscopeService(db *gorm.DB) *HoroscopeService {
	return &HoroscopeService{db: db}
}

func (s *HoroscopeService) validate(h *models.Horoscope) error {
	if !models.ValidZodiacSign(h.ZodiacSign) {
		return ErrInvalidZodiacSign
	}
	if !models.ValidPeriod(h.Period) {
		return ErrInvalidPeriod
	}
	return nil
}

// Create inserts a horoscope row.
func (s *HoroscopeService) Create(h *models.Horoscope) error {
	if err := s.validate(h); err != nil {
		return err
	}
	h.IsActive = true
	if err := s.db.Create(h).Error; err != nil {
		return fmt.Errorf("insert horoscope: %w", err)
	}
	return nil
}

// Exists reports whether a row for (sign, period, date) is already stored,
// regardless of active state. The importer refuses duplicates.
func (s *HoroscopeService) Exists(sign, period, date string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Horoscope{}).
		Where("zodiac_sign = ? AND period = ? AND target_date = ?", sign, period, date).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check horoscope: %w", err)
	}
	return count > 0, nil
}

// List returns rows for the admin screens, newest target date first.
// Empty filters are ignored.
func (s *HoroscopeService) List(sign, period, date string, limit int) ([]models.Horoscope, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := s.db.Order("target_date desc, zodiac_sign asc").Limit(limit)
	if sign != "" {
		query = query.Where("zodiac_sign = ?", sign)
	}
	if period != "" {
		query = query.Where("period = ?", period)
	}
	if date != "" {
		query = query.Where("target_date = ?", date)
	}

	var rows []models.Horoscope
	err := query.Find(&rows).Error
	return rows, err
}

// Delete removes a row by ID.
func (s *HoroscopeService) Delete(id uint) error {
	res := s.db.Delete(&models.Horoscope{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete horoscope: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrHoroscopeNotFound
	}
	return nil
}

// DeleteByDate removes all rows for a target date (import cleanup).
func (s *HoroscopeService) DeleteByDate(date string) (int64, error) {
	res := s.db.Where("target_date = ?", date).Delete(&models.Horoscope{})
	return res.RowsAffected, res.Error
}

// SetActive toggles the public visibility of a row.
func (s *HoroscopeService) SetActive(id uint, active bool) error {
	res := s.db.Model(&models.Horoscope{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return fmt.Errorf("update horoscope: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrHoroscopeNotFound
	}
	return nil
}

// GetPublic resolves the single active reading served by the public API.
func (s *HoroscopeService) GetPublic(sign, period, date string) (*models.Horoscope, error) {
	if !models.ValidZodiacSign(sign) {
		return nil, ErrInvalidZodiacSign
	}
	if !models.ValidPeriod(period) {
		return nil, ErrInvalidPeriod
	}

	var row models.Horoscope
	err := s.db.Where("zodiac_sign = ? AND period = ? AND target_date = ? AND is_active = ?",
		sign, period, date, true).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHoroscopeNotFound
		}
		return nil, fmt.Errorf("load horoscope: %w", err)
	}
	return &row, nil
}

// CountActive returns the number of active rows (dashboard).
func (s *HoroscopeService) CountActive() (int64, error) {
	var count int64
	err := s.db.Model(&models.Horoscope{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}
