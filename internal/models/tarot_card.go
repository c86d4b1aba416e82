package models

import (
	"time"
)

// TarotCard is one card of the deck served by the public tarot endpoint.
type TarotCard struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	Name            string `json:"name"`
	CardType        string `json:"card_type"` // "major" or "minor"
	Suit            string `json:"suit" gorm:"default:'none'"`
	Number          int    `json:"number"`
	Emoji           string `json:"emoji"`
	MeaningUpright  string `json:"meaning_upright" gorm:"type:text"`
	MeaningReversed string `json:"meaning_reversed" gorm:"type:text"`
	Description     string `json:"description" gorm:"type:text"`
	Keywords        string `json:"keywords"`
	CreatedBy       uint   `json:"-"`
	IsActive        bool   `json:"-" gorm:"default:true"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
