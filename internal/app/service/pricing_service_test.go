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

// Fixed clock for deterministic urgency window checks.
var pricingTestNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func setupPricingServiceTest(t *testing.T) (PricingService, *gorm.DB, *model.Category, *model.PackagingOption) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	categoryRepo := repository.NewCategoryRepository(testDB)
	packagingRepo := repository.NewPackagingRepository(testDB)
	labelRepo := repository.NewLabelRepository(testDB)
	settingsRepo := repository.NewSettingsRepository(testDB)
	blockRepo := repository.NewBlockRepository(testDB)

	settings, err := settingsRepo.Get()
	require.NoError(t, err)
	settings.LeadTimeDays = 0
	settings.UrgencyFeePercent = 10
	settings.UrgencyWindowDays = 7
	settings.TransactionFeePercent = 0
	settings.JacketTwoColour = 12
	settings.JacketPinstripe = 8
	settings.JacketRainbow = 15
	settings.LabelsMarkupMultiplier = 1.5
	settings.LabelsSupplierShipping = 15
	settings.LabelsMaxBulk = 1000
	require.NoError(t, settingsRepo.Update(settings))

	category := &model.Category{Name: "Rock candy", HasJacket: true}
	require.NoError(t, categoryRepo.Create(category))

	// Flat tier up to 5 kg, per-kg tier above it.
	require.NoError(t, categoryRepo.CreateTier(&model.WeightTier{
		CategoryID: category.ID,
		MinKg:      0,
		MaxKg:      5,
		Price:      20,
	}))
	require.NoError(t, categoryRepo.CreateTier(&model.WeightTier{
		CategoryID: category.ID,
		MinKg:      5.001,
		MaxKg:      10,
		Price:      5,
		PerKg:      true,
	}))

	bag := &model.PackagingOption{
		Type:         model.PackagingBag,
		SizeLabel:    "Cello bag 500g",
		CandyWeightG: 500,
		UnitPrice:    1,
	}
	require.NoError(t, packagingRepo.Create(bag))

	require.NoError(t, labelRepo.Create(&model.LabelRange{UpperBound: 25, RangeCost: 20}))
	require.NoError(t, labelRepo.Create(&model.LabelRange{UpperBound: 100, RangeCost: 40}))

	svc := NewPricingService(categoryRepo, packagingRepo, labelRepo, settingsRepo, blockRepo, func() time.Time {
		return pricingTestNow
	})
	return svc, testDB, category, bag
}

func TestPricingService_Quote_BasePlusPackaging(t *testing.T) {
	svc, _, category, bag := setupPricingServiceTest(t)

	// 10 bags x 500 g = 5 kg, flat tier $20 plus 10 x $1 packaging.
	breakdown, err := svc.Quote(QuoteInput{
		CategoryID: category.ID,
		Packaging:  []QuotePackagingLine{{OptionID: bag.ID, Quantity: 10}},
	})
	require.NoError(t, err)

	assert.Equal(t, 5.0, breakdown.TotalWeightKg)
	assert.Equal(t, 20.0, breakdown.BasePrice)
	assert.Equal(t, 10.0, breakdown.PackagingPrice)
	assert.Equal(t, 0.0, breakdown.UrgencyFee)
	assert.Equal(t, 30.0, breakdown.Total)

	require.NotEmpty(t, breakdown.Items)
	assert.Equal(t, "Rock candy (5.00 kg)", breakdown.Items[0].Label)
}

func TestPricingService_Quote_PerKgTier(t *testing.T) {
	svc, _, category, bag := setupPricingServiceTest(t)

	// 12 bags = 6 kg lands in the per-kg tier: 6 x $5 = $30 base.
	breakdown, err := svc.Quote(QuoteInput{
		CategoryID: category.ID,
		Packaging:  []QuotePackagingLine{{OptionID: bag.ID, Quantity: 12}},
	})
	require.NoError(t, err)

	assert.Equal(t, 6.0, breakdown.TotalWeightKg)
	assert.Equal(t, 30.0, breakdown.BasePrice)
}

func TestPricingService_Quote_UrgencyFee(t *testing.T) {
	svc, _, category, bag := setupPricingServiceTest(t)

	due := pricingTestNow.AddDate(0, 0, 3)
	breakdown, err := svc.Quote(QuoteInput{
		CategoryID: category.ID,
		Packaging:  []QuotePackagingLine{{OptionID: bag.ID, Quantity: 10}},
		DueDate:    &due,
	})
	require.NoError(t, err)

	// 10% of the $30 subtotal.
	assert.Equal(t, 3.0, breakdown.UrgencyFee)
	assert.Equal(t, 33.0, breakdown.Total)
}

func TestPricingService_Quote_NoUrgencyFeeOutsideWindow(t *testing.T) {
	svc, _, category, bag := setupPricingServiceTest(t)

	due := pricingTestNow.AddDate(0, 0, 30)
	breakdown, err := svc.Quote(QuoteInput{
		CategoryID: category.ID,
		Packaging:  []QuotePackagingLine{{OptionID: bag.ID, Quantity: 10}},
		DueDate:    &due,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, breakdown.UrgencyFee)
	assert.Equal(t, 30.0, breakdown.Total)
}

func TestPricingService_Quote_TransactionFeeOnChargedAmount(t *testing.T) {
	svc, testDB, category, bag := setupPricingServiceTest(t)

	settingsRepo := repository.NewSettingsRepository(testDB)
	settings, err := settingsRepo.Get()
	require.NoError(t, err)
	settings.TransactionFeePercent = 2
	require.NoError(t, settingsRepo.Update(settings))

	due := pricingTestNow.AddDate(0, 0, 3)
	breakdown, err := svc.Quote(QuoteInput{
		CategoryID: category.ID,
		Packaging:  []QuotePackagingLine{{OptionID: bag.ID, Quantity: 10}},
		DueDate:    &due,
	})
	require.NoError(t, err)

	// 2% of subtotal plus urgency fee: (30 + 3) x 0.02.
	assert.Equal(t, 0.66, breakdown.TransactionFee)
	assert.Equal(t, 33.66, breakdown.Total)
}

func TestPricingService_Quote_TwoColourPinstripeDecomposes(t *testing.T) {
	svc, _, category, bag := setupPricingServiceTest(t)

	breakdown, err := svc.Quote(QuoteInput{
		CategoryID: category.ID,
		Packaging:  []QuotePackagingLine{{OptionID: bag.ID, Quantity: 10}},
		Extras:     []string{ExtraTwoColourPinstripe},
	})
	require.NoError(t, err)

	assert.Equal(t, 20.0, breakdown.ExtrasPrice)

	var labels []string
	for _, item := range breakdown.Items {
		labels = append(labels, item.Label)
	}
	assert.Contains(t, labels, "Two colour jacket")
	assert.Contains(t, labels, "Pinstripe jacket")
}

func TestPricingService_Quote_LabelsBand(t *testing.T) {
	svc, _, category, bag := setupPricingServiceTest(t)

	// 50 labels fall into the 100 band: 40 x 1.5 markup + $15 shipping.
	breakdown, err := svc.Quote(QuoteInput{
		CategoryID:  category.ID,
		Packaging:   []QuotePackagingLine{{OptionID: bag.ID, Quantity: 10}},
		LabelsCount: 50,
	})
	require.NoError(t, err)

	assert.Equal(t, 75.0, breakdown.LabelsPrice)
}

func TestPricingService_Quote_LabelsBulkRequiresManualQuote(t *testing.T) {
	svc, _, category, bag := setupPricingServiceTest(t)

	_, err := svc.Quote(QuoteInput{
		CategoryID:  category.ID,
		Packaging:   []QuotePackagingLine{{OptionID: bag.ID, Quantity: 10}},
		LabelsCount: 1001,
	})
	assert.ErrorIs(t, err, ErrLabelsBulkQuote)
}

func TestPricingService_Quote_NoLabelBand(t *testing.T) {
	svc, _, category, bag := setupPricingServiceTest(t)

	_, err := svc.Quote(QuoteInput{
		CategoryID:  category.ID,
		Packaging:   []QuotePackagingLine{{OptionID: bag.ID, Quantity: 10}},
		LabelsCount: 500,
	})
	assert.ErrorIs(t, err, ErrNoLabelBand)
}

func TestPricingService_Quote_NoTierMatch(t *testing.T) {
	svc, _, category, bag := setupPricingServiceTest(t)

	// 30 bags = 15 kg, above every tier.
	_, err := svc.Quote(QuoteInput{
		CategoryID: category.ID,
		Packaging:  []QuotePackagingLine{{OptionID: bag.ID, Quantity: 30}},
	})
	assert.ErrorIs(t, err, ErrNoTierMatch)
}

func TestPricingService_Quote_PackagingNotAllowed(t *testing.T) {
	svc, testDB, category, _ := setupPricingServiceTest(t)

	categoryRepo := repository.NewCategoryRepository(testDB)
	packagingRepo := repository.NewPackagingRepository(testDB)

	other := &model.Category{Name: "Wedding hearts"}
	require.NoError(t, categoryRepo.Create(other))

	restricted := &model.PackagingOption{
		Type:         model.PackagingJar,
		SizeLabel:    "Small jar 120g",
		CandyWeightG: 120,
		UnitPrice:    4,
	}
	require.NoError(t, packagingRepo.Create(restricted))
	require.NoError(t, packagingRepo.ReplaceAllowedCategories(restricted, []model.Category{*other}))

	_, err := svc.Quote(QuoteInput{
		CategoryID: category.ID,
		Packaging:  []QuotePackagingLine{{OptionID: restricted.ID, Quantity: 2}},
	})
	assert.ErrorIs(t, err, ErrPackagingNotAllowed)
}

func TestPricingService_Quote_QuantityOverMax(t *testing.T) {
	svc, testDB, category, _ := setupPricingServiceTest(t)

	packagingRepo := repository.NewPackagingRepository(testDB)
	max := 3
	limited := &model.PackagingOption{
		Type:         model.PackagingTub,
		SizeLabel:    "Tub 1kg",
		CandyWeightG: 1000,
		UnitPrice:    2,
		MaxPackages:  &max,
	}
	require.NoError(t, packagingRepo.Create(limited))

	_, err := svc.Quote(QuoteInput{
		CategoryID: category.ID,
		Packaging:  []QuotePackagingLine{{OptionID: limited.ID, Quantity: 4}},
	})
	assert.ErrorIs(t, err, ErrQuantityOverMax)
}

func TestPricingService_Quote_DueDateBlocked(t *testing.T) {
	svc, testDB, category, bag := setupPricingServiceTest(t)

	blockRepo := repository.NewBlockRepository(testDB)
	due := pricingTestNow.AddDate(0, 0, 10)
	require.NoError(t, blockRepo.CreateQuoteBlock(&model.QuoteBlock{
		StartDate: model.DateOnly(due.AddDate(0, 0, -1)),
		EndDate:   model.DateOnly(due.AddDate(0, 0, 1)),
		Reason:    "Holiday",
	}))

	_, err := svc.Quote(QuoteInput{
		CategoryID: category.ID,
		Packaging:  []QuotePackagingLine{{OptionID: bag.ID, Quantity: 10}},
		DueDate:    &due,
	})
	assert.ErrorIs(t, err, ErrDueDateBlocked)
}

func TestPricingService_Quote_DueDateInsideLeadTime(t *testing.T) {
	svc, testDB, category, bag := setupPricingServiceTest(t)

	settingsRepo := repository.NewSettingsRepository(testDB)
	settings, err := settingsRepo.Get()
	require.NoError(t, err)
	settings.LeadTimeDays = 14
	require.NoError(t, settingsRepo.Update(settings))

	soon := pricingTestNow.AddDate(0, 0, 3)
	_, err = svc.Quote(QuoteInput{
		CategoryID: category.ID,
		Packaging:  []QuotePackagingLine{{OptionID: bag.ID, Quantity: 10}},
		DueDate:    &soon,
	})
	assert.ErrorIs(t, err, ErrDueDateTooSoon)

	// Exactly on the floor is allowed.
	floor := pricingTestNow.AddDate(0, 0, 14)
	_, err = svc.Quote(QuoteInput{
		CategoryID: category.ID,
		Packaging:  []QuotePackagingLine{{OptionID: bag.ID, Quantity: 10}},
		DueDate:    &floor,
	})
	assert.NoError(t, err)
}

func TestPricingService_Quote_Deterministic(t *testing.T) {
	svc, _, category, bag := setupPricingServiceTest(t)

	input := QuoteInput{
		CategoryID:  category.ID,
		Packaging:   []QuotePackagingLine{{OptionID: bag.ID, Quantity: 10}},
		LabelsCount: 20,
		Extras:      []string{ExtraRainbow},
	}

	first, err := svc.Quote(input)
	require.NoError(t, err)
	second, err := svc.Quote(input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPricingService_Quote_ValidationErrors(t *testing.T) {
	svc, _, category, bag := setupPricingServiceTest(t)

	_, err := svc.Quote(QuoteInput{CategoryID: category.ID})
	assert.ErrorIs(t, err, ErrEmptyPackaging)

	_, err = svc.Quote(QuoteInput{
		CategoryID: category.ID,
		Packaging:  []QuotePackagingLine{{OptionID: bag.ID, Quantity: 0}},
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Quote(QuoteInput{
		CategoryID: 9999,
		Packaging:  []QuotePackagingLine{{OptionID: bag.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = svc.Quote(QuoteInput{
		CategoryID: category.ID,
		Packaging:  []QuotePackagingLine{{OptionID: bag.ID, Quantity: 1}},
		Extras:     []string{"glitter"},
	})
	assert.ErrorIs(t, err, ErrInvalidExtra)
}
