package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MerchantGroup is the corporate entity that owns one or more merchant brands.
type MerchantGroup struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	Merchants []Merchant     `gorm:"foreignKey:GroupID" json:"merchants,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (g *MerchantGroup) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// Merchant is a brand owned by a group; stores belong to a merchant.
// Managed by the admin CRUD surface elsewhere; the discovery engine only
// reads it for display enrichment.
type Merchant struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	GroupID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"group_id"`
	Group     MerchantGroup  `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Name      string         `gorm:"not null" json:"name"`
	Logo      string         `json:"logo"`
	Phone     string         `json:"phone"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	Stores    []Store        `gorm:"foreignKey:MerchantID" json:"stores,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *Merchant) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
