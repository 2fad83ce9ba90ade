package repository

import (
	"github.com/avlawson/candyshop-backend/internal/app/model"
	"github.com/avlawson/candyshop-backend/pkg/logger"
	"gorm.io/gorm"
)

type LabelRepository interface {
	Create(labelRange *model.LabelRange) error
	FindAll() ([]model.LabelRange, error)
	FindBandFor(labelCount int) (*model.LabelRange, error)
	Update(labelRange *model.LabelRange) error
	Delete(id uint) error
}

type labelRepository struct {
	db *gorm.DB
}

func NewLabelRepository(db *gorm.DB) LabelRepository {
	return &labelRepository{db: db}
}

func (r *labelRepository) Create(labelRange *model.LabelRange) error {
	if err := r.db.Create(labelRange).Error; err != nil {
		logger.Error("Failed to create label range in database", err, map[string]interface{}{
			"upper_bound": labelRange.UpperBound,
		})
		return err
	}
	return nil
}

func (r *labelRepository) FindAll() ([]model.LabelRange, error) {
	var ranges []model.LabelRange
	if err := r.db.Order("upper_bound ASC").Find(&ranges).Error; err != nil {
		logger.Error("Failed to list label ranges in database", err)
		return nil, err
	}
	return ranges, nil
}

// FindBandFor returns the band with the smallest upper bound that still
// covers the requested label count. gorm.ErrRecordNotFound when no band does.
func (r *labelRepository) FindBandFor(labelCount int) (*model.LabelRange, error) {
	var band model.LabelRange
	if err := r.db.Where("upper_bound >= ?", labelCount).
		Order("upper_bound ASC").
		First(&band).Error; err != nil {
		return nil, err
	}
	return &band, nil
}

func (r *labelRepository) Update(labelRange *model.LabelRange) error {
	if err := r.db.Save(labelRange).Error; err != nil {
		logger.Error("Failed to update label range in database", err, map[string]interface{}{
			"range_id": labelRange.ID,
		})
		return err
	}
	return nil
}

func (r *labelRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.LabelRange{}, id).Error; err != nil {
		logger.Error("Failed to delete label range in database", err, map[string]interface{}{
			"range_id": id,
		})
		return err
	}
	return nil
}
