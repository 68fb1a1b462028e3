package database

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"makanloka-backend/models"
)

func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=makanloka port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// Ensure PostgreSQL has gen_random_uuid() available (pgcrypto extension).
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	return db.AutoMigrate(
		&models.MerchantGroup{},
		&models.Merchant{},
		&models.Store{},
		&models.OperationalHours{},
		&models.Shift{},
		&models.StoreCategory{},
		&models.StoreCategoryTranslation{},
		&models.ServiceAddon{},
		&models.MenuItem{},
		&models.PriceRangeBucket{},
		&models.SearchHistory{},
		&models.AppSetting{},
	)
}

// SeedPriceRanges installs the standard four-bucket price scale on an empty
// table. Administrators adjust the bounds later; discovery only reads them.
func SeedPriceRanges(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.PriceRangeBucket{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	buckets := []models.PriceRangeBucket{
		{ID: 1, PriceLow: 0, PriceHigh: 25000, Symbol: "$", Sequence: 1},
		{ID: 2, PriceLow: 25001, PriceHigh: 50000, Symbol: "$$", Sequence: 2},
		{ID: 3, PriceLow: 50001, PriceHigh: 100000, Symbol: "$$$", Sequence: 3},
		{ID: 4, PriceLow: 100001, PriceHigh: 0, Symbol: "$$$$", Sequence: 4},
	}
	return db.Create(&buckets).Error
}

// SeedDefaultSettings installs the settings discovery depends on when they
// are absent, so a fresh deployment works before the admin surface is used.
func SeedDefaultSettings(db *gorm.DB) error {
	defaults := map[string]string{
		models.SettingDefaultSearchRadius: "25",
		models.SettingBudgetMealMaxPrice:  "25000",
	}
	for name, value := range defaults {
		var existing models.AppSetting
		err := db.Where("name = ?", name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&models.AppSetting{Name: name, Value: value}).Error; err != nil {
			return err
		}
	}
	return nil
}
