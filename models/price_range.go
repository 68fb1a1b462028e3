package models

import (
	"time"
)

// PriceRangeBucket is an administrator-defined inclusive price interval with
// a display symbol. PriceHigh == 0 means "no upper bound". Read-only to the
// discovery engine.
type PriceRangeBucket struct {
	ID        uint      `gorm:"primary_key" json:"id"`
	PriceLow  float64   `gorm:"not null" json:"price_low"`
	PriceHigh float64   `gorm:"default:0" json:"price_high"`
	Symbol    string    `gorm:"not null" json:"symbol"`
	Sequence  int       `gorm:"default:0;index" json:"sequence"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
