package repository

import (
	"github.com/avlawson/candyshop-backend/internal/app/model"
	"github.com/avlawson/candyshop-backend/pkg/logger"
	"gorm.io/gorm"
)

type SettingsRepository interface {
	Get() (*model.Settings, error)
	Update(settings *model.Settings) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// Get loads the singleton settings row, creating it with defaults if the
// database has never been seeded.
func (r *settingsRepository) Get() (*model.Settings, error) {
	var settings model.Settings
	err := r.db.First(&settings, model.SettingsRowID).Error
	if err == gorm.ErrRecordNotFound {
		settings = model.Settings{ID: model.SettingsRowID}
		if createErr := r.db.Create(&settings).Error; createErr != nil {
			logger.Error("Failed to create default settings row", createErr)
			return nil, createErr
		}
		// Re-load so the column defaults are populated.
		if reloadErr := r.db.First(&settings, model.SettingsRowID).Error; reloadErr != nil {
			return nil, reloadErr
		}
		return &settings, nil
	}
	if err != nil {
		logger.Error("Failed to load settings in database", err)
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Update(settings *model.Settings) error {
	settings.ID = model.SettingsRowID
	if err := r.db.Save(settings).Error; err != nil {
		logger.Error("Failed to update settings in database", err)
		return err
	}
	return nil
}
