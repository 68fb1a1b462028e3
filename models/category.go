package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreCategory is a cuisine/type tag for stores, with localized display
// names keyed by language code.
type StoreCategory struct {
	ID           uuid.UUID                  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Image        string                     `json:"image"`
	IsActive     bool                       `gorm:"default:true" json:"is_active"`
	Translations []StoreCategoryTranslation `gorm:"foreignKey:StoreCategoryID" json:"translations,omitempty"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
	DeletedAt    gorm.DeletedAt             `gorm:"index" json:"-"`
}

func (c *StoreCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// NameFor returns the category name in the requested language, falling back
// to fallbackLang, then to any available variant.
func (c *StoreCategory) NameFor(lang, fallbackLang string) string {
	var fallback string
	for _, t := range c.Translations {
		if t.LangCode == lang {
			return t.Name
		}
		if t.LangCode == fallbackLang {
			fallback = t.Name
		}
	}
	if fallback == "" && len(c.Translations) > 0 {
		fallback = c.Translations[0].Name
	}
	return fallback
}

type StoreCategoryTranslation struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StoreCategoryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_category_lang" json:"store_category_id"`
	LangCode        string    `gorm:"not null;uniqueIndex:idx_category_lang" json:"lang_code"`
	Name            string    `gorm:"not null" json:"name"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (t *StoreCategoryTranslation) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
