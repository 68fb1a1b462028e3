package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SearchHistory records a consumer's search keyword and the top matched
// store. Written best-effort from a side channel; never read by this core.
type SearchHistory struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index" json:"customer_id"`
	Keyword    string     `json:"keyword"`
	StoreID    *uuid.UUID `gorm:"type:uuid" json:"store_id"`
	Lang       string     `json:"lang"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (h *SearchHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
