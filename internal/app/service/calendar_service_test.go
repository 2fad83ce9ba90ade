package service

import (
	"testing"
	"time"

	"github.com/avlawson/candyshop-backend/internal/app/model"
	"github.com/avlawson/candyshop-backend/internal/app/repository"
	"github.com/avlawson/candyshop-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCalendarServiceTest(t *testing.T) (CalendarService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	blockRepo := repository.NewBlockRepository(testDB)
	settingsRepo := repository.NewSettingsRepository(testDB)

	return NewCalendarService(blockRepo, settingsRepo), testDB
}

func TestCalendarService_IsProductionBlocked_WeekendDefaults(t *testing.T) {
	svc, _ := setupCalendarServiceTest(t)

	saturday := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	blocked, err := svc.IsProductionBlocked(saturday)
	require.NoError(t, err)
	assert.True(t, blocked)

	blocked, err = svc.IsProductionBlocked(sunday)
	require.NoError(t, err)
	assert.True(t, blocked)

	blocked, err = svc.IsProductionBlocked(monday)
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestCalendarService_IsProductionBlocked_OpenOverrideUnblocksWeekend(t *testing.T) {
	svc, _ := setupCalendarServiceTest(t)

	saturday := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	_, err := svc.CreateProductionBlock(saturday, saturday, model.BlockReasonOpenOverride)
	require.NoError(t, err)

	blocked, err := svc.IsProductionBlocked(saturday)
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestCalendarService_IsProductionBlocked_ExplicitBlockWins(t *testing.T) {
	svc, _ := setupCalendarServiceTest(t)

	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	_, err := svc.CreateProductionBlock(monday, monday, "Maintenance")
	require.NoError(t, err)

	blocked, err := svc.IsProductionBlocked(monday)
	require.NoError(t, err)
	assert.True(t, blocked)
}

func TestCalendarService_CreateProductionBlock_RemovesOverlappingOverrides(t *testing.T) {
	svc, _ := setupCalendarServiceTest(t)

	saturday := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	override, err := svc.CreateProductionBlock(saturday, saturday, model.BlockReasonOpenOverride)
	require.NoError(t, err)

	// A manual block over the same range replaces the override entirely.
	_, err = svc.CreateProductionBlock(saturday.AddDate(0, 0, -1), saturday.AddDate(0, 0, 1), "Holiday")
	require.NoError(t, err)

	blocks, err := svc.ListProductionBlocks()
	require.NoError(t, err)
	for _, b := range blocks {
		assert.NotEqual(t, override.ID, b.ID)
	}

	blocked, err := svc.IsProductionBlocked(saturday)
	require.NoError(t, err)
	assert.True(t, blocked)
}

func TestCalendarService_CreateProductionBlock_Validation(t *testing.T) {
	svc, _ := setupCalendarServiceTest(t)

	start := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	_, err := svc.CreateProductionBlock(start, start, "")
	assert.ErrorIs(t, err, ErrBlockReasonEmpty)

	_, err = svc.CreateProductionBlock(start, start.AddDate(0, 0, -1), "Holiday")
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestCalendarService_DeleteProductionBlock(t *testing.T) {
	svc, _ := setupCalendarServiceTest(t)

	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	block, err := svc.CreateProductionBlock(monday, monday, "Maintenance")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProductionBlock(block.ID))

	blocked, err := svc.IsProductionBlocked(monday)
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestCalendarService_QuoteBlocks(t *testing.T) {
	svc, _ := setupCalendarServiceTest(t)

	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)

	block, err := svc.CreateQuoteBlock(start, end, "Market weekend")
	require.NoError(t, err)

	// Inclusive on both ends, independent of production blocking.
	for _, d := range []time.Time{start, start.AddDate(0, 0, 1), end} {
		blocked, err := svc.IsQuoteBlocked(d)
		require.NoError(t, err)
		assert.True(t, blocked, d.Format("2006-01-02"))
	}

	blocked, err := svc.IsQuoteBlocked(end.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, blocked)

	blocked, err = svc.IsProductionBlocked(start)
	require.NoError(t, err)
	assert.False(t, blocked)

	require.NoError(t, svc.DeleteQuoteBlock(block.ID))
	blocked, err = svc.IsQuoteBlocked(start)
	require.NoError(t, err)
	assert.False(t, blocked)

	_, err = svc.CreateQuoteBlock(end, start, "backwards")
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}
