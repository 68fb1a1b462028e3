package discovery

import (
	"testing"

	"github.com/google/uuid"

	"makanloka-backend/logger"
	"makanloka-backend/models"
)

func TestHistoryRecorderWritesKeyword(t *testing.T) {
	db := freshDB()
	recorder := NewDBHistoryRecorder(db, logger.NewTestLogger(t))

	customerID := uuid.New()
	recorder.write(models.SearchHistory{
		CustomerID: &customerID,
		Keyword:    "bakso",
		Lang:       "id",
	})

	var rows []models.SearchHistory
	if err := db.Find(&rows).Error; err != nil {
		t.Fatalf("failed to read history: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 history row, got %d", len(rows))
	}
	if rows[0].Keyword != "bakso" || rows[0].CustomerID == nil || *rows[0].CustomerID != customerID {
		t.Errorf("unexpected history row: %+v", rows[0])
	}
}

func TestHistoryRecorderAnonymous(t *testing.T) {
	db := freshDB()
	recorder := NewDBHistoryRecorder(db, logger.NewTestLogger(t))

	storeID := uuid.New()
	recorder.write(models.SearchHistory{StoreID: &storeID, Lang: "en"})

	var rows []models.SearchHistory
	db.Find(&rows)
	if len(rows) != 1 {
		t.Fatalf("expected 1 history row, got %d", len(rows))
	}
	if rows[0].CustomerID != nil {
		t.Error("expected nil customer id for anonymous entry")
	}
	if rows[0].StoreID == nil || *rows[0].StoreID != storeID {
		t.Errorf("expected store id recorded, got %+v", rows[0].StoreID)
	}
}

func TestRecordKeywordSkipsBlank(t *testing.T) {
	db := freshDB()
	recorder := NewDBHistoryRecorder(db, logger.NewTestLogger(t))

	recorder.RecordKeyword(nil, "   ", "id")

	var count int64
	db.Model(&models.SearchHistory{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no rows for blank keyword, got %d", count)
	}
}
