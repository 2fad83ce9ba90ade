package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/avlawson/candyshop-backend/internal/app/model"
	"github.com/avlawson/candyshop-backend/internal/app/repository"
	"github.com/avlawson/candyshop-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrSlotNotFound       = errors.New("production slot not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrInvalidKg          = errors.New("assigned kg must be a positive finite number")
	ErrInvalidSlotIndex   = errors.New("slot index outside the configured slots per day")
	ErrPastDate           = errors.New("cannot assign to a slot in the past")
	ErrSlotOccupied       = errors.New("slot already has an order assigned")
	ErrSlotClosed         = errors.New("slot is closed")
	ErrOverOrderWeight    = errors.New("assigned kg exceeds order total weight")
	ErrOverSlotCapacity   = errors.New("assigned kg exceeds slot capacity")
	ErrMissingSlotTarget  = errors.New("either slot id or slot date and index required")
)

// AssignTarget names the slot to assign into: either an existing slot id, or
// a (date, index) pair that lazily creates the slot on first use.
type AssignTarget struct {
	SlotID    *uint      `json:"slot_id,omitempty"`
	SlotDate  *time.Time `json:"slot_date,omitempty"`
	SlotIndex *int       `json:"slot_index,omitempty"`
}

// ScheduleDay is one date on the production board.
type ScheduleDay struct {
	Date    time.Time              `json:"date"`
	Blocked bool                   `json:"blocked"`
	Slots   []model.ProductionSlot `json:"slots"`
}

// ScheduleService assigns orders into dated, indexed production slots and
// keeps the capacity invariants: at most one order per slot, and the summed
// assigned weight of an order never above its total weight.
type ScheduleService interface {
	Assign(orderID uint, target AssignTarget, kgAssigned float64) (*model.OrderSlot, error)
	Unassign(assignmentID uint) error
	ScheduleStatus(order *model.Order) model.ScheduleStatus
	Board(start, end time.Time) ([]ScheduleDay, error)
}

type scheduleService struct {
	slotRepo     repository.SlotRepository
	orderRepo    repository.OrderRepository
	settingsRepo repository.SettingsRepository
	calendar     CalendarService
	db           *gorm.DB
	now          func() time.Time
}

func NewScheduleService(
	slotRepo repository.SlotRepository,
	orderRepo repository.OrderRepository,
	settingsRepo repository.SettingsRepository,
	calendar CalendarService,
	db *gorm.DB,
	nowFn ...func() time.Time,
) ScheduleService {
	now := time.Now
	if len(nowFn) > 0 && nowFn[0] != nil {
		now = nowFn[0]
	}
	return &scheduleService{
		slotRepo:     slotRepo,
		orderRepo:    orderRepo,
		settingsRepo: settingsRepo,
		calendar:     calendar,
		db:           db,
		now:          now,
	}
}

// Assign binds kgAssigned of an order's weight to the target slot. The whole
// check-then-write sequence runs in one transaction with row locks so the
// invariants hold under concurrent admin sessions.
func (s *scheduleService) Assign(orderID uint, target AssignTarget, kgAssigned float64) (*model.OrderSlot, error) {
	logger.Info("Assigning order to production slot", map[string]interface{}{
		"order_id":    orderID,
		"kg_assigned": kgAssigned,
	})

	if kgAssigned <= 0 || math.IsNaN(kgAssigned) || math.IsInf(kgAssigned, 0) {
		return nil, ErrInvalidKg
	}
	if target.SlotID == nil && (target.SlotDate == nil || target.SlotIndex == nil) {
		return nil, ErrMissingSlotTarget
	}

	// Past-date rejection on direct date input, before touching the store.
	today := model.DateOnly(s.now())
	if target.SlotDate != nil && model.DateOnly(*target.SlotDate).Before(today) {
		return nil, ErrPastDate
	}

	settings, err := s.settingsRepo.Get()
	if err != nil {
		return nil, err
	}

	// Slot indexes run 1..ProductionSlotsPerDay; anything else would lazily
	// create a phantom slot row.
	if target.SlotIndex != nil &&
		(*target.SlotIndex < 1 || *target.SlotIndex > settings.ProductionSlotsPerDay) {
		return nil, ErrInvalidSlotIndex
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during slot assignment, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"order_id": orderID,
			})
		}
	}()

	var order model.Order
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, orderID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	slot, err := s.resolveSlot(tx, target, settings)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// Re-check the date after resolving an existing slot.
	if model.DateOnly(slot.SlotDate).Before(today) {
		tx.Rollback()
		return nil, ErrPastDate
	}
	if slot.Status == model.SlotStatusClosed {
		tx.Rollback()
		return nil, ErrSlotClosed
	}
	if kgAssigned > slot.CapacityKg {
		tx.Rollback()
		logger.Warn("Assignment rejected: over slot capacity", map[string]interface{}{
			"order_id":    orderID,
			"slot_id":     slot.ID,
			"kg_assigned": kgAssigned,
			"capacity_kg": slot.CapacityKg,
		})
		return nil, ErrOverSlotCapacity
	}

	// One order per slot: a different order's assignment blocks the target.
	var slotAssignment model.OrderSlot
	slotTaken := true
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("slot_id = ?", slot.ID).
		First(&slotAssignment).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			tx.Rollback()
			return nil, err
		}
		slotTaken = false
	}
	if slotTaken && slotAssignment.OrderID != orderID {
		tx.Rollback()
		logger.Warn("Assignment rejected: slot occupied", map[string]interface{}{
			"order_id":      orderID,
			"slot_id":       slot.ID,
			"occupied_by":   slotAssignment.OrderID,
			"assignment_id": slotAssignment.ID,
		})
		return nil, ErrSlotOccupied
	}

	// Summed weight across the order's other assignments, excluding the row
	// being replaced when this is an update of the same slot.
	var existing []model.OrderSlot
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_id = ?", orderID).
		Find(&existing).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	var assignedOther float64
	for _, a := range existing {
		if a.SlotID != slot.ID {
			assignedOther += a.KgAssigned
		}
	}
	if assignedOther+kgAssigned > order.TotalWeightKg {
		tx.Rollback()
		logger.Warn("Assignment rejected: over order weight", map[string]interface{}{
			"order_id":       orderID,
			"kg_assigned":    kgAssigned,
			"already_other":  assignedOther,
			"order_total_kg": order.TotalWeightKg,
		})
		return nil, ErrOverOrderWeight
	}

	assignment := &model.OrderSlot{
		OrderID:    orderID,
		SlotID:     slot.ID,
		KgAssigned: kgAssigned,
	}
	if slotTaken {
		// Same order re-assigning the same slot: resize in place.
		slotAssignment.KgAssigned = kgAssigned
		assignment = &slotAssignment
		if err := tx.Save(assignment).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	} else {
		if err := tx.Create(assignment).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Model(&model.Order{}).Where("id = ?", orderID).
		Update("status", model.OrderStatusScheduled).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit slot assignment", err, map[string]interface{}{
			"order_id": orderID,
			"slot_id":  slot.ID,
		})
		return nil, err
	}

	logger.Info("Order assigned to production slot", map[string]interface{}{
		"order_id":      orderID,
		"slot_id":       slot.ID,
		"slot_date":     slot.SlotDate,
		"slot_index":    slot.SlotIndex,
		"kg_assigned":   kgAssigned,
		"assignment_id": assignment.ID,
	})
	return s.slotRepo.FindAssignmentByID(assignment.ID)
}

// resolveSlot finds the target slot, creating it lazily for a (date, index)
// pair that has never held an assignment.
func (s *scheduleService) resolveSlot(tx *gorm.DB, target AssignTarget, settings *model.Settings) (*model.ProductionSlot, error) {
	if target.SlotID != nil {
		var slot model.ProductionSlot
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&slot, *target.SlotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSlotNotFound
			}
			return nil, err
		}
		return &slot, nil
	}

	date := model.DateOnly(*target.SlotDate)
	index := *target.SlotIndex

	var slot model.ProductionSlot
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("slot_date = ? AND slot_index = ?", date, index).
		First(&slot).Error
	if err == nil {
		return &slot, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	slot = model.ProductionSlot{
		SlotDate:   date,
		SlotIndex:  index,
		CapacityKg: settings.MaxTotalKg,
		Status:     model.SlotStatusOpen,
	}
	if err := tx.Create(&slot).Error; err != nil {
		return nil, err
	}

	logger.Debug("Production slot created lazily", map[string]interface{}{
		"slot_id":     slot.ID,
		"slot_date":   date,
		"slot_index":  index,
		"capacity_kg": slot.CapacityKg,
	})
	return &slot, nil
}

// Unassign removes an assignment and reverts the order to unassigned.
func (s *scheduleService) Unassign(assignmentID uint) error {
	assignment, err := s.slotRepo.FindAssignmentByID(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	tx := s.db.Begin()
	if err := tx.Delete(&model.OrderSlot{}, assignmentID).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Model(&model.Order{}).Where("id = ?", assignment.OrderID).
		Update("status", model.OrderStatusUnassigned).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit unassign", err, map[string]interface{}{
			"assignment_id": assignmentID,
		})
		return err
	}

	logger.Info("Assignment removed", map[string]interface{}{
		"assignment_id": assignmentID,
		"order_id":      assignment.OrderID,
		"slot_id":       assignment.SlotID,
	})
	return nil
}

// ScheduleStatus derives the display status from the order and its loaded
// assignments. Never stored.
func (s *scheduleService) ScheduleStatus(order *model.Order) model.ScheduleStatus {
	if order.Status == model.OrderStatusArchived {
		return model.ScheduleArchived
	}
	if len(order.Assignments) == 0 {
		return model.ScheduleUnassigned
	}
	today := model.DateOnly(s.now())
	for _, a := range order.Assignments {
		if !model.DateOnly(a.Slot.SlotDate).Before(today) {
			return model.ScheduleScheduled
		}
	}
	return model.SchedulePendingCompletion
}

// Board builds the per-date slot view for the admin schedule screen.
func (s *scheduleService) Board(start, end time.Time) ([]ScheduleDay, error) {
	if model.DateOnly(end).Before(model.DateOnly(start)) {
		return nil, ErrInvalidDateRange
	}

	slots, err := s.slotRepo.FindByDateRange(start, end)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]model.ProductionSlot)
	for _, slot := range slots {
		key := model.DateOnly(slot.SlotDate).Format("2006-01-02")
		byDate[key] = append(byDate[key], slot)
	}

	var days []ScheduleDay
	for d := model.DateOnly(start); !d.After(model.DateOnly(end)); d = d.AddDate(0, 0, 1) {
		blocked, err := s.calendar.IsProductionBlocked(d)
		if err != nil {
			return nil, err
		}
		days = append(days, ScheduleDay{
			Date:    d,
			Blocked: blocked,
			Slots:   byDate[d.Format("2006-01-02")],
		})
	}
	return days, nil
}
