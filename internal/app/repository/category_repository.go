package repository

import (
	"github.com/avlawson/candyshop-backend/internal/app/model"
	"github.com/avlawson/candyshop-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	FindByID(id uint) (*model.Category, error)
	FindAll() ([]model.Category, error)
	Update(category *model.Category) error
	Delete(id uint) error
	FindTiers(categoryID uint) ([]model.WeightTier, error)
	CreateTier(tier *model.WeightTier) error
	UpdateTier(tier *model.WeightTier) error
	DeleteTier(id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"name": category.Name,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.Preload("WeightTiers", func(db *gorm.DB) *gorm.DB {
		return db.Order("min_kg ASC")
	}).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindAll() ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Preload("WeightTiers", func(db *gorm.DB) *gorm.DB {
		return db.Order("min_kg ASC")
	}).Order("sort_order ASC, name ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to list categories in database", err)
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) Update(category *model.Category) error {
	if err := r.db.Save(category).Error; err != nil {
		logger.Error("Failed to update category in database", err, map[string]interface{}{
			"category_id": category.ID,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Category{}, id).Error; err != nil {
		logger.Error("Failed to delete category in database", err, map[string]interface{}{
			"category_id": id,
		})
		return err
	}
	return nil
}

// FindTiers returns a category's weight tiers ordered by ascending min_kg,
// which is also the tie-break order when ranges overlap.
func (r *categoryRepository) FindTiers(categoryID uint) ([]model.WeightTier, error) {
	var tiers []model.WeightTier
	if err := r.db.Where("category_id = ?", categoryID).
		Order("min_kg ASC").
		Find(&tiers).Error; err != nil {
		logger.Error("Failed to find weight tiers in database", err, map[string]interface{}{
			"category_id": categoryID,
		})
		return nil, err
	}
	return tiers, nil
}

func (r *categoryRepository) CreateTier(tier *model.WeightTier) error {
	if err := r.db.Create(tier).Error; err != nil {
		logger.Error("Failed to create weight tier in database", err, map[string]interface{}{
			"category_id": tier.CategoryID,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) UpdateTier(tier *model.WeightTier) error {
	if err := r.db.Save(tier).Error; err != nil {
		logger.Error("Failed to update weight tier in database", err, map[string]interface{}{
			"tier_id": tier.ID,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) DeleteTier(id uint) error {
	if err := r.db.Delete(&model.WeightTier{}, id).Error; err != nil {
		logger.Error("Failed to delete weight tier in database", err, map[string]interface{}{
			"tier_id": id,
		})
		return err
	}
	return nil
}
