package models

import (
	"time"
)

// Insight is a short themed note (love, career, wellness, ...) for a
// period and date, grouped by category on the public API.
type Insight struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Period     string `json:"period" gorm:"index:idx_insight_lookup"`
	TargetDate string `json:"date" gorm:"column:target_date;index:idx_insight_lookup"`
	Category   string `json:"category" gorm:"index"`
	Title      string `json:"title"`
	Content    string `json:"content" gorm:"type:text"`
	Icon       string `json:"icon"`
	ColorCode  string `json:"color_code"`
	CreatedBy  uint   `json:"-"`
	IsActive   bool   `json:"-" gorm:"default:true"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
