package service

import (
	"testing"

	"github.com/avlawson/candyshop-backend/internal/app/model"
	"github.com/avlawson/candyshop-backend/internal/app/repository"
	"github.com/avlawson/candyshop-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCatalogServiceTest(t *testing.T) CatalogService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	return NewCatalogService(
		repository.NewCategoryRepository(testDB),
		repository.NewPackagingRepository(testDB),
		repository.NewLabelRepository(testDB),
	)
}

func TestCatalogService_CategoryCRUD(t *testing.T) {
	svc := setupCatalogServiceTest(t)

	category, err := svc.CreateCategory(&model.Category{Name: "Rock candy", HasJacket: true})
	require.NoError(t, err)
	require.NotZero(t, category.ID)

	category.Name = "Rock candy sticks"
	updated, err := svc.UpdateCategory(category)
	require.NoError(t, err)
	assert.Equal(t, "Rock candy sticks", updated.Name)

	list, err := svc.ListCategories()
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteCategory(category.ID))
	_, err = svc.GetCategory(category.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCatalogService_CategoryValidation(t *testing.T) {
	svc := setupCatalogServiceTest(t)

	_, err := svc.CreateCategory(&model.Category{})
	assert.ErrorIs(t, err, ErrCategoryNameEmpty)

	_, err = svc.UpdateCategory(&model.Category{ID: 9999, Name: "Ghost"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	assert.ErrorIs(t, svc.DeleteCategory(9999), ErrCategoryNotFound)
}

func TestCatalogService_TierValidation(t *testing.T) {
	svc := setupCatalogServiceTest(t)

	category, err := svc.CreateCategory(&model.Category{Name: "Rock candy"})
	require.NoError(t, err)

	_, err = svc.CreateTier(&model.WeightTier{CategoryID: category.ID, MinKg: 5, MaxKg: 5, Price: 20})
	assert.ErrorIs(t, err, ErrInvalidTierRange)

	_, err = svc.CreateTier(&model.WeightTier{CategoryID: category.ID, MinKg: 0, MaxKg: 5, Price: -1})
	assert.ErrorIs(t, err, ErrNegativePrice)

	_, err = svc.CreateTier(&model.WeightTier{CategoryID: 9999, MinKg: 0, MaxKg: 5, Price: 20})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	tier, err := svc.CreateTier(&model.WeightTier{CategoryID: category.ID, MinKg: 0, MaxKg: 5, Price: 20})
	require.NoError(t, err)
	require.NotZero(t, tier.ID)

	require.NoError(t, svc.DeleteTier(tier.ID))
}

func TestCatalogService_PackagingRestrictions(t *testing.T) {
	svc := setupCatalogServiceTest(t)

	rock, err := svc.CreateCategory(&model.Category{Name: "Rock candy"})
	require.NoError(t, err)
	hearts, err := svc.CreateCategory(&model.Category{Name: "Wedding hearts"})
	require.NoError(t, err)

	jar, err := svc.CreatePackaging(&model.PackagingOption{
		Type:         model.PackagingJar,
		SizeLabel:    "Small jar 120g",
		CandyWeightG: 120,
		UnitPrice:    4,
	}, []uint{hearts.ID})
	require.NoError(t, err)

	forRock, err := svc.ListPackagingForCategory(rock.ID)
	require.NoError(t, err)
	assert.Empty(t, forRock)

	forHearts, err := svc.ListPackagingForCategory(hearts.ID)
	require.NoError(t, err)
	require.Len(t, forHearts, 1)
	assert.Equal(t, jar.ID, forHearts[0].ID)

	// Empty list clears the restriction; the option goes everywhere.
	_, err = svc.UpdatePackaging(jar, []uint{})
	require.NoError(t, err)

	forRock, err = svc.ListPackagingForCategory(rock.ID)
	require.NoError(t, err)
	assert.Len(t, forRock, 1)

	// Nil leaves the restriction untouched.
	jar.UnitPrice = 5
	updated, err := svc.UpdatePackaging(jar, nil)
	require.NoError(t, err)
	assert.Equal(t, 5.0, updated.UnitPrice)

	forRock, err = svc.ListPackagingForCategory(rock.ID)
	require.NoError(t, err)
	assert.Len(t, forRock, 1)
}

func TestCatalogService_PackagingValidation(t *testing.T) {
	svc := setupCatalogServiceTest(t)

	_, err := svc.CreatePackaging(&model.PackagingOption{Type: model.PackagingBag, UnitPrice: 1}, nil)
	assert.ErrorIs(t, err, ErrPackagingWeight)

	_, err = svc.CreatePackaging(&model.PackagingOption{
		Type:         model.PackagingBag,
		CandyWeightG: 500,
		UnitPrice:    -1,
	}, nil)
	assert.ErrorIs(t, err, ErrNegativePrice)

	_, err = svc.UpdatePackaging(&model.PackagingOption{
		ID:           9999,
		Type:         model.PackagingBag,
		CandyWeightG: 500,
	}, nil)
	assert.ErrorIs(t, err, ErrPackagingNotFound)
}

func TestCatalogService_LabelRanges(t *testing.T) {
	svc := setupCatalogServiceTest(t)

	_, err := svc.CreateLabelRange(&model.LabelRange{UpperBound: 0, RangeCost: 20})
	assert.ErrorIs(t, err, ErrInvalidUpperBound)

	_, err = svc.CreateLabelRange(&model.LabelRange{UpperBound: 25, RangeCost: -1})
	assert.ErrorIs(t, err, ErrNegativePrice)

	band, err := svc.CreateLabelRange(&model.LabelRange{UpperBound: 25, RangeCost: 20})
	require.NoError(t, err)

	band.RangeCost = 22
	updated, err := svc.UpdateLabelRange(band)
	require.NoError(t, err)
	assert.Equal(t, 22.0, updated.RangeCost)

	list, err := svc.ListLabelRanges()
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteLabelRange(band.ID))
}
