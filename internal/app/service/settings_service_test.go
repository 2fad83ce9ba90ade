package service

import (
	"testing"

	"github.com/avlawson/candyshop-backend/internal/app/repository"
	"github.com/avlawson/candyshop-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSettingsServiceTest(t *testing.T) SettingsService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return NewSettingsService(repository.NewSettingsRepository(testDB))
}

func TestSettingsService_GetCreatesDefaults(t *testing.T) {
	svc := setupSettingsServiceTest(t)

	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, 20.0, settings.MaxTotalKg)
	assert.Equal(t, 2, settings.ProductionSlotsPerDay)
	assert.True(t, settings.NoProductionSat)
	assert.True(t, settings.NoProductionSun)

	// Always the same row.
	again, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, settings.ID, again.ID)
}

func TestSettingsService_Update(t *testing.T) {
	svc := setupSettingsServiceTest(t)

	settings, err := svc.Get()
	require.NoError(t, err)

	settings.MaxTotalKg = 25
	settings.UrgencyFeePercent = 12.5
	updated, err := svc.Update(settings)
	require.NoError(t, err)

	assert.Equal(t, 25.0, updated.MaxTotalKg)
	assert.Equal(t, 12.5, updated.UrgencyFeePercent)
}

func TestSettingsService_Update_Validation(t *testing.T) {
	svc := setupSettingsServiceTest(t)

	settings, err := svc.Get()
	require.NoError(t, err)

	bad := *settings
	bad.UrgencyFeePercent = -1
	_, err = svc.Update(&bad)
	assert.ErrorIs(t, err, ErrNegativePercent)

	bad = *settings
	bad.MaxTotalKg = 0
	_, err = svc.Update(&bad)
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	bad = *settings
	bad.ProductionSlotsPerDay = 0
	_, err = svc.Update(&bad)
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	bad = *settings
	bad.LeadTimeDays = -1
	_, err = svc.Update(&bad)
	assert.ErrorIs(t, err, ErrInvalidLeadTime)

	bad = *settings
	bad.LabelsMarkupMultiplier = 0.5
	_, err = svc.Update(&bad)
	assert.ErrorIs(t, err, ErrInvalidMultiplier)
}
