package repository

import (
	"time"

	"github.com/avlawson/candyshop-backend/internal/app/model"
	"github.com/avlawson/candyshop-backend/pkg/logger"
	"gorm.io/gorm"
)

type BlockRepository interface {
	CreateProductionBlock(block *model.ProductionBlock) error
	FindProductionBlocks() ([]model.ProductionBlock, error)
	FindProductionBlocksCovering(date time.Time) ([]model.ProductionBlock, error)
	DeleteProductionBlock(id uint) error
	DeleteOpenOverridesInRange(start, end time.Time) error

	CreateQuoteBlock(block *model.QuoteBlock) error
	FindQuoteBlocks() ([]model.QuoteBlock, error)
	FindQuoteBlocksCovering(date time.Time) ([]model.QuoteBlock, error)
	DeleteQuoteBlock(id uint) error
}

type blockRepository struct {
	db *gorm.DB
}

func NewBlockRepository(db *gorm.DB) BlockRepository {
	return &blockRepository{db: db}
}

func (r *blockRepository) CreateProductionBlock(block *model.ProductionBlock) error {
	if err := r.db.Create(block).Error; err != nil {
		logger.Error("Failed to create production block in database", err, map[string]interface{}{
			"start_date": block.StartDate,
			"end_date":   block.EndDate,
			"reason":     block.Reason,
		})
		return err
	}
	return nil
}

func (r *blockRepository) FindProductionBlocks() ([]model.ProductionBlock, error) {
	var blocks []model.ProductionBlock
	if err := r.db.Order("start_date ASC").Find(&blocks).Error; err != nil {
		logger.Error("Failed to list production blocks in database", err)
		return nil, err
	}
	return blocks, nil
}

func (r *blockRepository) FindProductionBlocksCovering(date time.Time) ([]model.ProductionBlock, error) {
	day := model.DateOnly(date)
	var blocks []model.ProductionBlock
	if err := r.db.Where("start_date <= ? AND end_date >= ?", day, day).
		Find(&blocks).Error; err != nil {
		logger.Error("Failed to find production blocks covering date", err, map[string]interface{}{
			"date": day,
		})
		return nil, err
	}
	return blocks, nil
}

func (r *blockRepository) DeleteProductionBlock(id uint) error {
	if err := r.db.Delete(&model.ProductionBlock{}, id).Error; err != nil {
		logger.Error("Failed to delete production block in database", err, map[string]interface{}{
			"block_id": id,
		})
		return err
	}
	return nil
}

// DeleteOpenOverridesInRange removes open-override rows overlapping the given
// range. Called when a manual block is written so a block and an override
// never coexist on a date.
func (r *blockRepository) DeleteOpenOverridesInRange(start, end time.Time) error {
	if err := r.db.Where("reason = ? AND start_date <= ? AND end_date >= ?",
		model.BlockReasonOpenOverride, model.DateOnly(end), model.DateOnly(start)).
		Delete(&model.ProductionBlock{}).Error; err != nil {
		logger.Error("Failed to delete overlapping open overrides", err, map[string]interface{}{
			"start_date": start,
			"end_date":   end,
		})
		return err
	}
	return nil
}

func (r *blockRepository) CreateQuoteBlock(block *model.QuoteBlock) error {
	if err := r.db.Create(block).Error; err != nil {
		logger.Error("Failed to create quote block in database", err, map[string]interface{}{
			"start_date": block.StartDate,
			"end_date":   block.EndDate,
		})
		return err
	}
	return nil
}

func (r *blockRepository) FindQuoteBlocks() ([]model.QuoteBlock, error) {
	var blocks []model.QuoteBlock
	if err := r.db.Order("start_date ASC").Find(&blocks).Error; err != nil {
		logger.Error("Failed to list quote blocks in database", err)
		return nil, err
	}
	return blocks, nil
}

func (r *blockRepository) FindQuoteBlocksCovering(date time.Time) ([]model.QuoteBlock, error) {
	day := model.DateOnly(date)
	var blocks []model.QuoteBlock
	if err := r.db.Where("start_date <= ? AND end_date >= ?", day, day).
		Find(&blocks).Error; err != nil {
		logger.Error("Failed to find quote blocks covering date", err, map[string]interface{}{
			"date": day,
		})
		return nil, err
	}
	return blocks, nil
}

func (r *blockRepository) DeleteQuoteBlock(id uint) error {
	if err := r.db.Delete(&model.QuoteBlock{}, id).Error; err != nil {
		logger.Error("Failed to delete quote block in database", err, map[string]interface{}{
			"block_id": id,
		})
		return err
	}
	return nil
}
