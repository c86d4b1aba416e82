package models

import (
	"time"
)

// Zodiac signs accepted by the public API and the importer.
var ZodiacSigns = []string{
	"aries", "taurus", "gemini", "cancer", "leo", "virgo",
	"libra", "scorpio", "sagittarius", "capricorn", "aquarius", "pisces",
}

// Content periods shared by horoscopes and insights.
var ContentPeriods = []string{"daily", "weekly", "monthly"}

// ValidZodiacSign reports whether sign is one of the twelve signs.
func ValidZodiacSign(sign string) bool {
	for _, s := range ZodiacSigns {
		if s == sign {
			return true
		}
	}
	return false
}

// ValidPeriod reports whether period is daily, weekly or monthly.
func ValidPeriod(period string) bool {
	for _, p := range ContentPeriods {
		if p == period {
			return true
		}
	}
	return false
}

// Horoscope is one curated or imported reading for a sign, period and date.
type Horoscope struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	ZodiacSign  string `json:"zodiac_sign" gorm:"index:idx_horoscope_lookup"`
	Period      string `json:"period" gorm:"index:idx_horoscope_lookup"`
	TargetDate  string `json:"date" gorm:"column:target_date;index:idx_horoscope_lookup"`
	Content     string `json:"content" gorm:"type:text"`
	LoveScore   int    `json:"love_score"`
	CareerScore int    `json:"career_score"`
	HealthScore int    `json:"health_score"`
	LuckyNumber string `json:"lucky_number"`
	LuckyColor  string `json:"lucky_color"`
	LuckyTime   string `json:"lucky_time"`
	Mood        string `json:"mood"`
	CreatedBy   uint   `json:"-"`
	IsActive    bool   `json:"-" gorm:"default:true"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
