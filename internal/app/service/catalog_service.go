package service

import (
	"errors"

	"github.com/avlawson/candyshop-backend/internal/app/model"
	"github.com/avlawson/candyshop-backend/internal/app/repository"
	"github.com/avlawson/candyshop-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCategoryNameEmpty = errors.New("category name is required")
	ErrInvalidTierRange  = errors.New("tier max weight must exceed its min weight")
	ErrNegativePrice     = errors.New("prices must not be negative")
	ErrInvalidUpperBound = errors.New("label range upper bound must be positive")
	ErrPackagingWeight   = errors.New("packaging candy weight must be positive")
)

// CatalogService owns the admin-editable pricing tables: categories with
// their weight tiers, packaging options and label ranges.
type CatalogService interface {
	ListCategories() ([]model.Category, error)
	GetCategory(id uint) (*model.Category, error)
	CreateCategory(category *model.Category) (*model.Category, error)
	UpdateCategory(category *model.Category) (*model.Category, error)
	DeleteCategory(id uint) error

	CreateTier(tier *model.WeightTier) (*model.WeightTier, error)
	UpdateTier(tier *model.WeightTier) (*model.WeightTier, error)
	DeleteTier(id uint) error

	ListPackaging() ([]model.PackagingOption, error)
	ListPackagingForCategory(categoryID uint) ([]model.PackagingOption, error)
	CreatePackaging(option *model.PackagingOption, categoryIDs []uint) (*model.PackagingOption, error)
	UpdatePackaging(option *model.PackagingOption, categoryIDs []uint) (*model.PackagingOption, error)
	DeletePackaging(id uint) error

	ListLabelRanges() ([]model.LabelRange, error)
	CreateLabelRange(labelRange *model.LabelRange) (*model.LabelRange, error)
	UpdateLabelRange(labelRange *model.LabelRange) (*model.LabelRange, error)
	DeleteLabelRange(id uint) error
}

type catalogService struct {
	categoryRepo  repository.CategoryRepository
	packagingRepo repository.PackagingRepository
	labelRepo     repository.LabelRepository
}

func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	packagingRepo repository.PackagingRepository,
	labelRepo repository.LabelRepository,
) CatalogService {
	return &catalogService{
		categoryRepo:  categoryRepo,
		packagingRepo: packagingRepo,
		labelRepo:     labelRepo,
	}
}

func (s *catalogService) ListCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *catalogService) GetCategory(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *catalogService) CreateCategory(category *model.Category) (*model.Category, error) {
	if category.Name == "" {
		return nil, ErrCategoryNameEmpty
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	return category, nil
}

func (s *catalogService) UpdateCategory(category *model.Category) (*model.Category, error) {
	if category.Name == "" {
		return nil, ErrCategoryNameEmpty
	}
	if _, err := s.GetCategory(category.ID); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return s.categoryRepo.FindByID(category.ID)
}

func (s *catalogService) DeleteCategory(id uint) error {
	if _, err := s.GetCategory(id); err != nil {
		return err
	}
	if err := s.categoryRepo.Delete(id); err != nil {
		return err
	}
	logger.Info("Category deleted", map[string]interface{}{
		"category_id": id,
	})
	return nil
}

func validateTier(tier *model.WeightTier) error {
	if tier.MinKg < 0 || tier.Price < 0 {
		return ErrNegativePrice
	}
	if tier.MaxKg <= tier.MinKg {
		return ErrInvalidTierRange
	}
	return nil
}

func (s *catalogService) CreateTier(tier *model.WeightTier) (*model.WeightTier, error) {
	if err := validateTier(tier); err != nil {
		return nil, err
	}
	if _, err := s.GetCategory(tier.CategoryID); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.CreateTier(tier); err != nil {
		return nil, err
	}
	logger.Info("Weight tier created", map[string]interface{}{
		"tier_id":     tier.ID,
		"category_id": tier.CategoryID,
		"min_kg":      tier.MinKg,
	})
	return tier, nil
}

func (s *catalogService) UpdateTier(tier *model.WeightTier) (*model.WeightTier, error) {
	if err := validateTier(tier); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.UpdateTier(tier); err != nil {
		return nil, err
	}
	return tier, nil
}

func (s *catalogService) DeleteTier(id uint) error {
	return s.categoryRepo.DeleteTier(id)
}

func (s *catalogService) ListPackaging() ([]model.PackagingOption, error) {
	return s.packagingRepo.FindAll()
}

func (s *catalogService) ListPackagingForCategory(categoryID uint) ([]model.PackagingOption, error) {
	if _, err := s.GetCategory(categoryID); err != nil {
		return nil, err
	}
	return s.packagingRepo.FindForCategory(categoryID)
}

func (s *catalogService) CreatePackaging(option *model.PackagingOption, categoryIDs []uint) (*model.PackagingOption, error) {
	if option.CandyWeightG <= 0 {
		return nil, ErrPackagingWeight
	}
	if option.UnitPrice < 0 {
		return nil, ErrNegativePrice
	}

	if err := s.packagingRepo.Create(option); err != nil {
		return nil, err
	}
	if err := s.setAllowedCategories(option, categoryIDs); err != nil {
		return nil, err
	}

	logger.Info("Packaging option created", map[string]interface{}{
		"option_id":  option.ID,
		"type":       option.Type,
		"size_label": option.SizeLabel,
	})
	return s.packagingRepo.FindByID(option.ID)
}

func (s *catalogService) UpdatePackaging(option *model.PackagingOption, categoryIDs []uint) (*model.PackagingOption, error) {
	if option.CandyWeightG <= 0 {
		return nil, ErrPackagingWeight
	}
	if option.UnitPrice < 0 {
		return nil, ErrNegativePrice
	}
	if _, err := s.packagingRepo.FindByID(option.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackagingNotFound
		}
		return nil, err
	}

	if err := s.packagingRepo.Update(option); err != nil {
		return nil, err
	}
	if err := s.setAllowedCategories(option, categoryIDs); err != nil {
		return nil, err
	}
	return s.packagingRepo.FindByID(option.ID)
}

func (s *catalogService) DeletePackaging(id uint) error {
	return s.packagingRepo.Delete(id)
}

// setAllowedCategories replaces the option's category restriction list. A
// nil list leaves the existing restriction untouched; an empty one clears
// it, making the option available everywhere.
func (s *catalogService) setAllowedCategories(option *model.PackagingOption, categoryIDs []uint) error {
	if categoryIDs == nil {
		return nil
	}

	categories := make([]model.Category, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		category, err := s.GetCategory(id)
		if err != nil {
			return err
		}
		categories = append(categories, *category)
	}
	return s.packagingRepo.ReplaceAllowedCategories(option, categories)
}

func (s *catalogService) ListLabelRanges() ([]model.LabelRange, error) {
	return s.labelRepo.FindAll()
}

func (s *catalogService) CreateLabelRange(labelRange *model.LabelRange) (*model.LabelRange, error) {
	if labelRange.UpperBound <= 0 {
		return nil, ErrInvalidUpperBound
	}
	if labelRange.RangeCost < 0 {
		return nil, ErrNegativePrice
	}
	if err := s.labelRepo.Create(labelRange); err != nil {
		return nil, err
	}
	return labelRange, nil
}

func (s *catalogService) UpdateLabelRange(labelRange *model.LabelRange) (*model.LabelRange, error) {
	if labelRange.UpperBound <= 0 {
		return nil, ErrInvalidUpperBound
	}
	if labelRange.RangeCost < 0 {
		return nil, ErrNegativePrice
	}
	if err := s.labelRepo.Update(labelRange); err != nil {
		return nil, err
	}
	return labelRange, nil
}

func (s *catalogService) DeleteLabelRange(id uint) error {
	return s.labelRepo.Delete(id)
}
