package service

import (
	"errors"

	"github.com/avlawson/candyshop-backend/internal/app/model"
	"github.com/avlawson/candyshop-backend/internal/app/repository"
	"github.com/avlawson/candyshop-backend/pkg/logger"
)

var (
	ErrNegativePercent   = errors.New("percentages must not be negative")
	ErrInvalidCapacity   = errors.New("capacity values must be positive")
	ErrInvalidLeadTime   = errors.New("lead time values must not be negative")
	ErrInvalidMultiplier = errors.New("labels markup multiplier must be at least 1")
)

// SettingsService owns the shop settings singleton.
type SettingsService interface {
	Get() (*model.Settings, error)
	Update(settings *model.Settings) (*model.Settings, error)
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
}

func NewSettingsService(settingsRepo repository.SettingsRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

func (s *settingsService) Get() (*model.Settings, error) {
	return s.settingsRepo.Get()
}

// Update validates and saves the settings row. The row id is pinned by the
// repository, so the singleton cannot fork.
func (s *settingsService) Update(settings *model.Settings) (*model.Settings, error) {
	if settings.UrgencyFeePercent < 0 || settings.TransactionFeePercent < 0 {
		return nil, ErrNegativePercent
	}
	if settings.MaxTotalKg <= 0 || settings.ProductionSlotsPerDay <= 0 {
		return nil, ErrInvalidCapacity
	}
	if settings.LeadTimeDays < 0 || settings.UrgencyWindowDays < 0 {
		return nil, ErrInvalidLeadTime
	}
	if settings.LabelsMarkupMultiplier < 1 {
		return nil, ErrInvalidMultiplier
	}

	if err := s.settingsRepo.Update(settings); err != nil {
		return nil, err
	}

	logger.Info("Settings updated", map[string]interface{}{
		"max_total_kg":        settings.MaxTotalKg,
		"slots_per_day":       settings.ProductionSlotsPerDay,
		"lead_time_days":      settings.LeadTimeDays,
		"urgency_window_days": settings.UrgencyWindowDays,
	})
	return s.settingsRepo.Get()
}
