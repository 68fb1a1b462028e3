package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OperationalHours holds one store's schedule for one weekday (0=Sunday,
// 6=Saturday). At most one row exists per (store, weekday).
type OperationalHours struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StoreID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_store_day" json:"store_id"`
	DayOfWeek int       `gorm:"not null;uniqueIndex:idx_store_day" json:"day_of_week"`
	IsOpen    bool      `gorm:"default:true" json:"is_open"`
	IsOpen24h bool      `gorm:"column:is_open_24h;default:false" json:"is_open_24h"`
	GMTOffset int       `gorm:"default:0" json:"gmt_offset"` // minutes east of UTC at onboarding
	Shifts    []Shift   `gorm:"foreignKey:OperationalHoursID" json:"shifts,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *OperationalHours) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// Shift is a single open/close window within a day. Hours are "HH:MM"
// wall-clock values already normalized to UTC using the day's gmt_offset at
// creation time; open_hour < close_hour always (overnight hours are modeled
// as two shifts or the 24h override).
type Shift struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OperationalHoursID uuid.UUID `gorm:"type:uuid;not null;index" json:"operational_hours_id"`
	OpenHour           string    `gorm:"not null;default:'09:00'" json:"open_hour"`
	CloseHour          string    `gorm:"not null;default:'21:00'" json:"close_hour"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (s *Shift) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
