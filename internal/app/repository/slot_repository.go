package repository

import (
	"time"

	"github.com/avlawson/candyshop-backend/internal/app/model"
	"github.com/avlawson/candyshop-backend/pkg/logger"
	"gorm.io/gorm"
)

type SlotRepository interface {
	FindByID(id uint) (*model.ProductionSlot, error)
	FindByDateIndex(date time.Time, index int) (*model.ProductionSlot, error)
	Create(slot *model.ProductionSlot) error
	Update(slot *model.ProductionSlot) error
	FindByDateRange(start, end time.Time) ([]model.ProductionSlot, error)

	FindAssignmentByID(id uint) (*model.OrderSlot, error)
	FindAssignmentBySlot(slotID uint) (*model.OrderSlot, error)
	FindAssignmentsByOrder(orderID uint) ([]model.OrderSlot, error)
}

type slotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) SlotRepository {
	return &slotRepository{db: db}
}

func (r *slotRepository) FindByID(id uint) (*model.ProductionSlot, error) {
	var slot model.ProductionSlot
	if err := r.db.Preload("Assignment").First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepository) FindByDateIndex(date time.Time, index int) (*model.ProductionSlot, error) {
	var slot model.ProductionSlot
	if err := r.db.Preload("Assignment").
		Where("slot_date = ? AND slot_index = ?", model.DateOnly(date), index).
		First(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepository) Create(slot *model.ProductionSlot) error {
	if err := r.db.Create(slot).Error; err != nil {
		logger.Error("Failed to create production slot in database", err, map[string]interface{}{
			"slot_date":  slot.SlotDate,
			"slot_index": slot.SlotIndex,
		})
		return err
	}
	return nil
}

func (r *slotRepository) Update(slot *model.ProductionSlot) error {
	if err := r.db.Save(slot).Error; err != nil {
		logger.Error("Failed to update production slot in database", err, map[string]interface{}{
			"slot_id": slot.ID,
		})
		return err
	}
	return nil
}

// FindByDateRange returns slots in the inclusive range with assignments and
// their orders preloaded, ordered for schedule display.
func (r *slotRepository) FindByDateRange(start, end time.Time) ([]model.ProductionSlot, error) {
	var slots []model.ProductionSlot
	if err := r.db.Preload("Assignment.Order").
		Where("slot_date >= ? AND slot_date <= ?", model.DateOnly(start), model.DateOnly(end)).
		Order("slot_date ASC, slot_index ASC").
		Find(&slots).Error; err != nil {
		logger.Error("Failed to find production slots by date range", err, map[string]interface{}{
			"start": start,
			"end":   end,
		})
		return nil, err
	}
	return slots, nil
}

func (r *slotRepository) FindAssignmentByID(id uint) (*model.OrderSlot, error) {
	var assignment model.OrderSlot
	if err := r.db.Preload("Slot").First(&assignment, id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *slotRepository) FindAssignmentBySlot(slotID uint) (*model.OrderSlot, error) {
	var assignment model.OrderSlot
	if err := r.db.Where("slot_id = ?", slotID).First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *slotRepository) FindAssignmentsByOrder(orderID uint) ([]model.OrderSlot, error) {
	var assignments []model.OrderSlot
	if err := r.db.Preload("Slot").
		Where("order_id = ?", orderID).
		Find(&assignments).Error; err != nil {
		logger.Error("Failed to find assignments by order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}
	return assignments, nil
}
