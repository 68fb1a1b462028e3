package discovery

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"makanloka-backend/logger"
	"makanloka-backend/models"
)

// HistoryRecorder captures what people search for. Recording is strictly
// fire-and-forget: a failure is logged and never surfaces to the caller.
type HistoryRecorder interface {
	RecordKeyword(customerID *uuid.UUID, keyword, lang string)
	RecordStore(customerID *uuid.UUID, storeID uuid.UUID, lang string)
}

type DBHistoryRecorder struct {
	db  *gorm.DB
	log logger.Logger
}

func NewDBHistoryRecorder(db *gorm.DB, log logger.Logger) *DBHistoryRecorder {
	return &DBHistoryRecorder{db: db, log: log}
}

func (r *DBHistoryRecorder) RecordKeyword(customerID *uuid.UUID, keyword, lang string) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return
	}
	entry := models.SearchHistory{
		CustomerID: customerID,
		Keyword:    keyword,
		Lang:       lang,
	}
	go r.write(entry)
}

func (r *DBHistoryRecorder) RecordStore(customerID *uuid.UUID, storeID uuid.UUID, lang string) {
	entry := models.SearchHistory{
		CustomerID: customerID,
		StoreID:    &storeID,
		Lang:       lang,
	}
	go r.write(entry)
}

func (r *DBHistoryRecorder) write(entry models.SearchHistory) {
	defer func() {
		if rec := recover(); rec != nil && r.log != nil {
			r.log.Error("search history write panicked", map[string]interface{}{"panic": rec})
		}
	}()
	if err := r.db.Create(&entry).Error; err != nil && r.log != nil {
		r.log.WithError(err).Warn("search history write failed", nil)
	}
}

// NoopHistoryRecorder is used when history capture is disabled.
type NoopHistoryRecorder struct{}

func (NoopHistoryRecorder) RecordKeyword(*uuid.UUID, string, string)  {}
func (NoopHistoryRecorder) RecordStore(*uuid.UUID, uuid.UUID, string) {}
