package db

import (
	"github.com/avlawson/candyshop-backend/internal/app/model"
	"github.com/avlawson/candyshop-backend/pkg/logger"
)

// Migrate runs database migrations and seeds the singleton settings row.
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Category{},
		&model.WeightTier{},
		&model.PackagingOption{},
		&model.LabelRange{},
		&model.Settings{},
		&model.ProductionBlock{},
		&model.QuoteBlock{},
		&model.ProductionSlot{},
		&model.OrderSlot{},
		&model.Order{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedSettings(); err != nil {
		logger.Error("Failed to seed settings during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// seedSettings inserts the singleton settings row with defaults if missing.
func seedSettings() error {
	var count int64
	if err := DB.Model(&model.Settings{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	logger.Info("Seeding default settings row...")
	settings := model.Settings{ID: model.SettingsRowID}
	if err := DB.Create(&settings).Error; err != nil {
		logger.Error("Failed to create settings row", err)
		return err
	}

	logger.Info("Default settings seeded successfully")
	return nil
}
