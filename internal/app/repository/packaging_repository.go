package repository

import (
	"github.com/avlawson/candyshop-backend/internal/app/model"
	"github.com/avlawson/candyshop-backend/pkg/logger"
	"gorm.io/gorm"
)

type PackagingRepository interface {
	Create(option *model.PackagingOption) error
	FindByID(id uint) (*model.PackagingOption, error)
	FindAll() ([]model.PackagingOption, error)
	FindForCategory(categoryID uint) ([]model.PackagingOption, error)
	Update(option *model.PackagingOption) error
	ReplaceAllowedCategories(option *model.PackagingOption, categories []model.Category) error
	Delete(id uint) error
}

type packagingRepository struct {
	db *gorm.DB
}

func NewPackagingRepository(db *gorm.DB) PackagingRepository {
	return &packagingRepository{db: db}
}

func (r *packagingRepository) Create(option *model.PackagingOption) error {
	if err := r.db.Create(option).Error; err != nil {
		logger.Error("Failed to create packaging option in database", err, map[string]interface{}{
			"size_label": option.SizeLabel,
		})
		return err
	}
	return nil
}

func (r *packagingRepository) FindByID(id uint) (*model.PackagingOption, error) {
	var option model.PackagingOption
	if err := r.db.Preload("AllowedCategories").First(&option, id).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *packagingRepository) FindAll() ([]model.PackagingOption, error) {
	var options []model.PackagingOption
	if err := r.db.Preload("AllowedCategories").
		Order("sort_order ASC, size_label ASC").
		Find(&options).Error; err != nil {
		logger.Error("Failed to list packaging options in database", err)
		return nil, err
	}
	return options, nil
}

// FindForCategory returns options allowed for a category, including
// unrestricted options that list no categories at all.
func (r *packagingRepository) FindForCategory(categoryID uint) ([]model.PackagingOption, error) {
	options, err := r.FindAll()
	if err != nil {
		return nil, err
	}
	filtered := make([]model.PackagingOption, 0, len(options))
	for _, o := range options {
		if o.AllowsCategory(categoryID) {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

func (r *packagingRepository) Update(option *model.PackagingOption) error {
	if err := r.db.Save(option).Error; err != nil {
		logger.Error("Failed to update packaging option in database", err, map[string]interface{}{
			"option_id": option.ID,
		})
		return err
	}
	return nil
}

func (r *packagingRepository) ReplaceAllowedCategories(option *model.PackagingOption, categories []model.Category) error {
	if err := r.db.Model(option).Association("AllowedCategories").Replace(categories); err != nil {
		logger.Error("Failed to replace packaging option categories", err, map[string]interface{}{
			"option_id": option.ID,
		})
		return err
	}
	return nil
}

func (r *packagingRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.PackagingOption{}, id).Error; err != nil {
		logger.Error("Failed to delete packaging option in database", err, map[string]interface{}{
			"option_id": id,
		})
		return err
	}
	return nil
}
