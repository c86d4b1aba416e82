package services

import (
	"errors"
	"fmt"

	"github.com/astroflux/astroflux/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrTarotCardNotFound = errors.New("tarot card not found")
	ErrNoTarotCards      = errors.New("no tarot cards available")
)

// MaxTarotDraw caps the number of cards a single request can draw.
const MaxTarotDraw = 10

// TarotService covers deck management and the public draw endpoints.
type TarotService struct {
	db *gorm.DB
}

func NewTarotService(db *gorm.DB) *TarotService {
	return &TarotService{db: db}
}

// Create inserts a card.
func (s *TarotService) Create(card *models.TarotCard) error {
	card.IsActive = true
	if card.Suit == "" {
		card.Suit = "none"
	}
	if err := s.db.Create(card).Error; err != nil {
		return fmt.Errorf("insert tarot card: %w", err)
	}
	return nil
}

// List returns every card, deck order.
func (s *TarotService) List() ([]models.TarotCard, error) {
	var cards []models.TarotCard
	err := s.db.Order("card_type asc, suit asc, number asc").Find(&cards).Error
	return cards, err
}

// Delete removes a card by ID.
func (s *TarotService) Delete(id uint) error {
	res := s.db.Delete(&models.TarotCard{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete tarot card: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTarotCardNotFound
	}
	return nil
}

// SetActive toggles public visibility of a card.
func (s *TarotService) SetActive(id uint, active bool) error {
	res := s.db.Model(&models.TarotCard{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return fmt.Errorf("update tarot card: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTarotCardNotFound
	}
	return nil
}

// Random draws up to count distinct active cards. count is clamped to
// [1, MaxTarotDraw]. Fewer cards than requested is not an error; an empty
// deck is.
func (s *TarotService) Random(count int) ([]models.TarotCard, error) {
	if count < 1 {
		count = 1
	}
	if count > MaxTarotDraw {
		count = MaxTarotDraw
	}

	var cards []models.TarotCard
	err := s.db.Where("is_active = ?", true).Order("RANDOM()").Limit(count).Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("draw tarot cards: %w", err)
	}
	if len(cards) == 0 {
		return nil, ErrNoTarotCards
	}
	return cards, nil
}

// AllActive returns the active deck in canonical order.
func (s *TarotService) AllActive() ([]models.TarotCard, error) {
	var cards []models.TarotCard
	err := s.db.Where("is_active = ?", true).
		Order("card_type asc, suit asc, number asc").Find(&cards).Error
	return cards, err
}

// CountActive returns the number of active cards (dashboard).
func (s *TarotService) CountActive() (int64, error) {
	var count int64
	err := s.db.Model(&models.TarotCard{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}
