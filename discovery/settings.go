package discovery

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"makanloka-backend/models"
)

var ErrSettingNotFound = errors.New("setting not found")

// DBSettings reads system settings straight from the app_settings table.
type DBSettings struct {
	db *gorm.DB
}

func NewDBSettings(db *gorm.DB) *DBSettings {
	return &DBSettings{db: db}
}

func (s *DBSettings) Value(ctx context.Context, name string) (string, error) {
	var setting models.AppSetting
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrSettingNotFound
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

type settingEntry struct {
	value     string
	fetchedAt time.Time
}

// CachedSettings memoizes setting reads for a short TTL. On a source
// failure a stale entry is served if one exists; settings change rarely and
// bounded staleness beats failing the request.
type CachedSettings struct {
	source SettingsReader
	ttl    time.Duration

	mu      sync.Mutex
	entries map[string]settingEntry
}

func NewCachedSettings(source SettingsReader, ttl time.Duration) *CachedSettings {
	return &CachedSettings{
		source:  source,
		ttl:     ttl,
		entries: make(map[string]settingEntry),
	}
}

func (c *CachedSettings) Value(ctx context.Context, name string) (string, error) {
	c.mu.Lock()
	entry, cached := c.entries[name]
	c.mu.Unlock()

	if cached && time.Since(entry.fetchedAt) < c.ttl {
		return entry.value, nil
	}

	value, err := c.source.Value(ctx, name)
	if err != nil {
		if cached {
			return entry.value, nil
		}
		return "", err
	}

	c.mu.Lock()
	c.entries[name] = settingEntry{value: value, fetchedAt: time.Now()}
	c.mu.Unlock()
	return value, nil
}
