package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoreStatus string

const (
	StoreStatusActive   StoreStatus = "active"
	StoreStatusInactive StoreStatus = "inactive"
	StoreStatusPending  StoreStatus = "pending"
	StoreStatusRejected StoreStatus = "rejected"
)

type DeliveryType string

const (
	DeliveryTypeDelivery       DeliveryType = "delivery"
	DeliveryTypePickup         DeliveryType = "pickup"
	DeliveryTypeDeliveryPickup DeliveryType = "delivery_pickup"
)

type Store struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	MerchantID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"merchant_id"`
	Merchant     Merchant        `gorm:"foreignKey:MerchantID" json:"merchant,omitempty"`
	Name         string          `gorm:"not null" json:"name"`
	Address      string          `json:"address"`
	City         string          `json:"city"`
	Latitude     float64         `gorm:"not null" json:"latitude"`
	Longitude    float64         `gorm:"not null" json:"longitude"`
	Status       StoreStatus     `gorm:"default:'pending';index" json:"status"`
	DeliveryType DeliveryType    `gorm:"default:'delivery_pickup'" json:"delivery_type"`
	AveragePrice float64         `gorm:"default:0" json:"average_price"`
	IsOpen24h    bool            `gorm:"column:is_open_24h;default:false" json:"is_open_24h"`
	IsStoreOpen  bool            `gorm:"default:true" json:"is_store_open"` // manual override toggle
	Platform     bool            `gorm:"default:true" json:"platform"`      // online vs. non-digital channel
	Rating       float64         `gorm:"default:0" json:"rating"`
	OrderCount   int64           `gorm:"default:0" json:"order_count"`
	ApprovedAt   *time.Time      `json:"approved_at"`
	Hours        []OperationalHours `gorm:"foreignKey:StoreID" json:"operational_hours,omitempty"`
	Categories   []StoreCategory `gorm:"many2many:store_category_assignments" json:"categories,omitempty"`
	Addons       []ServiceAddon  `gorm:"many2many:store_service_addons" json:"service_addons,omitempty"`
	MenuItems    []MenuItem      `gorm:"foreignKey:StoreID" json:"menu_items,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
