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

// Tuesday, so the weekly no-production defaults stay out of the way.
var scheduleTestNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func setupScheduleServiceTest(t *testing.T) (ScheduleService, *gorm.DB, *model.Order) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	slotRepo := repository.NewSlotRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	settingsRepo := repository.NewSettingsRepository(testDB)
	blockRepo := repository.NewBlockRepository(testDB)

	calendar := NewCalendarService(blockRepo, settingsRepo)

	order := &model.Order{
		OrderNumber:   "100001",
		CustomerName:  "Avery Lawson",
		CustomerEmail: "avery@example.com",
		TotalWeightKg: 5,
		TotalPrice:    30,
		Status:        model.OrderStatusPaid,
	}
	require.NoError(t, orderRepo.Create(order))

	svc := NewScheduleService(slotRepo, orderRepo, settingsRepo, calendar, testDB, func() time.Time {
		return scheduleTestNow
	})
	return svc, testDB, order
}

func dateIndexTarget(date time.Time, index int) AssignTarget {
	return AssignTarget{SlotDate: &date, SlotIndex: &index}
}

func TestScheduleService_Assign_CreatesSlotLazily(t *testing.T) {
	svc, testDB, order := setupScheduleServiceTest(t)

	date := scheduleTestNow.AddDate(0, 0, 2)
	assignment, err := svc.Assign(order.ID, dateIndexTarget(date, 1), 3)
	require.NoError(t, err)

	assert.Equal(t, order.ID, assignment.OrderID)
	assert.Equal(t, 3.0, assignment.KgAssigned)

	// Slot inherits capacity from settings at creation time.
	var slot model.ProductionSlot
	require.NoError(t, testDB.First(&slot, assignment.SlotID).Error)
	assert.Equal(t, 20.0, slot.CapacityKg)
	assert.Equal(t, model.SlotStatusOpen, slot.Status)

	var updated model.Order
	require.NoError(t, testDB.First(&updated, order.ID).Error)
	assert.Equal(t, model.OrderStatusScheduled, updated.Status)
}

func TestScheduleService_Assign_RejectsOverOrderWeight(t *testing.T) {
	svc, _, order := setupScheduleServiceTest(t)

	date := scheduleTestNow.AddDate(0, 0, 2)
	_, err := svc.Assign(order.ID, dateIndexTarget(date, 1), 3)
	require.NoError(t, err)

	// 3 kg already bound, another 3 would exceed the 5 kg order total.
	_, err = svc.Assign(order.ID, dateIndexTarget(date, 2), 3)
	assert.ErrorIs(t, err, ErrOverOrderWeight)

	// 2 kg still fits.
	_, err = svc.Assign(order.ID, dateIndexTarget(date, 2), 2)
	assert.NoError(t, err)
}

func TestScheduleService_Assign_RejectsOccupiedSlot(t *testing.T) {
	svc, testDB, order := setupScheduleServiceTest(t)

	orderRepo := repository.NewOrderRepository(testDB)
	other := &model.Order{
		OrderNumber:   "100002",
		CustomerName:  "Jordan Reyes",
		CustomerEmail: "jordan@example.com",
		TotalWeightKg: 4,
		Status:        model.OrderStatusPaid,
	}
	require.NoError(t, orderRepo.Create(other))

	date := scheduleTestNow.AddDate(0, 0, 2)
	_, err := svc.Assign(order.ID, dateIndexTarget(date, 1), 3)
	require.NoError(t, err)

	_, err = svc.Assign(other.ID, dateIndexTarget(date, 1), 2)
	assert.ErrorIs(t, err, ErrSlotOccupied)
}

func TestScheduleService_Assign_SameSlotResizesInPlace(t *testing.T) {
	svc, testDB, order := setupScheduleServiceTest(t)

	date := scheduleTestNow.AddDate(0, 0, 2)
	first, err := svc.Assign(order.ID, dateIndexTarget(date, 1), 2)
	require.NoError(t, err)

	second, err := svc.Assign(order.ID, dateIndexTarget(date, 1), 4)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 4.0, second.KgAssigned)

	var count int64
	require.NoError(t, testDB.Model(&model.OrderSlot{}).
		Where("order_id = ?", order.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestScheduleService_Assign_RejectsOutOfRangeSlotIndex(t *testing.T) {
	svc, testDB, order := setupScheduleServiceTest(t)

	// Default settings allow indexes 1 and 2.
	date := scheduleTestNow.AddDate(0, 0, 2)
	for _, index := range []int{0, -3, 3, 99} {
		_, err := svc.Assign(order.ID, dateIndexTarget(date, index), 2)
		assert.ErrorIs(t, err, ErrInvalidSlotIndex, "index %d", index)
	}

	// No phantom slot rows were created along the way.
	var count int64
	require.NoError(t, testDB.Model(&model.ProductionSlot{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	_, err := svc.Assign(order.ID, dateIndexTarget(date, 2), 2)
	assert.NoError(t, err)
}

func TestScheduleService_Assign_RejectsPastDate(t *testing.T) {
	svc, _, order := setupScheduleServiceTest(t)

	yesterday := scheduleTestNow.AddDate(0, 0, -1)
	_, err := svc.Assign(order.ID, dateIndexTarget(yesterday, 1), 2)
	assert.ErrorIs(t, err, ErrPastDate)
}

func TestScheduleService_Assign_AllowsToday(t *testing.T) {
	svc, _, order := setupScheduleServiceTest(t)

	_, err := svc.Assign(order.ID, dateIndexTarget(scheduleTestNow, 1), 2)
	assert.NoError(t, err)
}

func TestScheduleService_Assign_RejectsClosedSlot(t *testing.T) {
	svc, testDB, order := setupScheduleServiceTest(t)

	slotRepo := repository.NewSlotRepository(testDB)
	slot := &model.ProductionSlot{
		SlotDate:   model.DateOnly(scheduleTestNow.AddDate(0, 0, 2)),
		SlotIndex:  1,
		CapacityKg: 20,
		Status:     model.SlotStatusClosed,
	}
	require.NoError(t, slotRepo.Create(slot))

	_, err := svc.Assign(order.ID, AssignTarget{SlotID: &slot.ID}, 2)
	assert.ErrorIs(t, err, ErrSlotClosed)
}

func TestScheduleService_Assign_RejectsOverSlotCapacity(t *testing.T) {
	svc, testDB, order := setupScheduleServiceTest(t)

	slotRepo := repository.NewSlotRepository(testDB)
	slot := &model.ProductionSlot{
		SlotDate:   model.DateOnly(scheduleTestNow.AddDate(0, 0, 2)),
		SlotIndex:  1,
		CapacityKg: 1.5,
		Status:     model.SlotStatusOpen,
	}
	require.NoError(t, slotRepo.Create(slot))

	_, err := svc.Assign(order.ID, AssignTarget{SlotID: &slot.ID}, 2)
	assert.ErrorIs(t, err, ErrOverSlotCapacity)
}

func TestScheduleService_Assign_Validation(t *testing.T) {
	svc, _, order := setupScheduleServiceTest(t)

	date := scheduleTestNow.AddDate(0, 0, 2)

	_, err := svc.Assign(order.ID, dateIndexTarget(date, 1), 0)
	assert.ErrorIs(t, err, ErrInvalidKg)

	_, err = svc.Assign(order.ID, dateIndexTarget(date, 1), -2)
	assert.ErrorIs(t, err, ErrInvalidKg)

	_, err = svc.Assign(order.ID, AssignTarget{}, 2)
	assert.ErrorIs(t, err, ErrMissingSlotTarget)

	_, err = svc.Assign(order.ID, AssignTarget{SlotDate: &date}, 2)
	assert.ErrorIs(t, err, ErrMissingSlotTarget)

	_, err = svc.Assign(9999, dateIndexTarget(date, 1), 2)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	missing := uint(9999)
	_, err = svc.Assign(order.ID, AssignTarget{SlotID: &missing}, 2)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestScheduleService_Unassign(t *testing.T) {
	svc, testDB, order := setupScheduleServiceTest(t)

	date := scheduleTestNow.AddDate(0, 0, 2)
	assignment, err := svc.Assign(order.ID, dateIndexTarget(date, 1), 3)
	require.NoError(t, err)

	require.NoError(t, svc.Unassign(assignment.ID))

	var updated model.Order
	require.NoError(t, testDB.First(&updated, order.ID).Error)
	assert.Equal(t, model.OrderStatusUnassigned, updated.Status)

	var count int64
	require.NoError(t, testDB.Model(&model.OrderSlot{}).
		Where("order_id = ?", order.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	assert.ErrorIs(t, svc.Unassign(assignment.ID), ErrAssignmentNotFound)
}

func TestScheduleService_ScheduleStatus(t *testing.T) {
	svc, _, _ := setupScheduleServiceTest(t)

	archived := &model.Order{Status: model.OrderStatusArchived}
	assert.Equal(t, model.ScheduleArchived, svc.ScheduleStatus(archived))

	unassigned := &model.Order{Status: model.OrderStatusPaid}
	assert.Equal(t, model.ScheduleUnassigned, svc.ScheduleStatus(unassigned))

	futureSlot := model.ProductionSlot{SlotDate: scheduleTestNow.AddDate(0, 0, 3)}
	scheduled := &model.Order{
		Status:      model.OrderStatusScheduled,
		Assignments: []model.OrderSlot{{KgAssigned: 2, Slot: futureSlot}},
	}
	assert.Equal(t, model.ScheduleScheduled, svc.ScheduleStatus(scheduled))

	pastSlot := model.ProductionSlot{SlotDate: scheduleTestNow.AddDate(0, 0, -3)}
	pending := &model.Order{
		Status:      model.OrderStatusScheduled,
		Assignments: []model.OrderSlot{{KgAssigned: 2, Slot: pastSlot}},
	}
	assert.Equal(t, model.SchedulePendingCompletion, svc.ScheduleStatus(pending))

	// One future assignment keeps the order scheduled even with past ones.
	mixed := &model.Order{
		Status: model.OrderStatusScheduled,
		Assignments: []model.OrderSlot{
			{KgAssigned: 2, Slot: pastSlot},
			{KgAssigned: 1, Slot: futureSlot},
		},
	}
	assert.Equal(t, model.ScheduleScheduled, svc.ScheduleStatus(mixed))
}

func TestScheduleService_Board(t *testing.T) {
	svc, _, order := setupScheduleServiceTest(t)

	// Friday 4th through Sunday 6th; the weekend defaults block Sat and Sun.
	friday := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)

	_, err := svc.Assign(order.ID, dateIndexTarget(friday, 1), 3)
	require.NoError(t, err)

	days, err := svc.Board(friday, sunday)
	require.NoError(t, err)
	require.Len(t, days, 3)

	assert.False(t, days[0].Blocked)
	require.Len(t, days[0].Slots, 1)
	assert.Equal(t, 1, days[0].Slots[0].SlotIndex)

	assert.True(t, days[1].Blocked)
	assert.Empty(t, days[1].Slots)
	assert.True(t, days[2].Blocked)
}

func TestScheduleService_Board_InvalidRange(t *testing.T) {
	svc, _, _ := setupScheduleServiceTest(t)

	_, err := svc.Board(scheduleTestNow, scheduleTestNow.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}
