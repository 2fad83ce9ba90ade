package controller

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/avlawson/candyshop-backend/internal/errors"
	"github.com/avlawson/candyshop-backend/internal/app/service"
	"github.com/avlawson/candyshop-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

type ScheduleController struct {
	scheduleService service.ScheduleService
}

func NewScheduleController(scheduleService service.ScheduleService) *ScheduleController {
	return &ScheduleController{
		scheduleService: scheduleService,
	}
}

type AssignRequest struct {
	OrderID    uint                 `json:"order_id" binding:"required"`
	Target     service.AssignTarget `json:"target" binding:"required"`
	KgAssigned float64              `json:"kg_assigned" binding:"required"`
}

// Assign places (part of) an order into a production slot
// POST /api/v1/admin/schedule/assign
func (ctrl *ScheduleController) Assign(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	assignment, err := ctrl.scheduleService.Assign(req.OrderID, req.Target, req.KgAssigned)
	if err != nil {
		ctrl.respondAssignError(c, err, req.OrderID)
		return
	}

	log.Info("Order assigned to slot", map[string]interface{}{
		"order_id":    req.OrderID,
		"slot_id":     assignment.SlotID,
		"kg_assigned": assignment.KgAssigned,
	})

	c.JSON(http.StatusOK, gin.H{
		"assignment": assignment,
	})
}

// Unassign removes an assignment from the board
// DELETE /api/v1/admin/schedule/assignments/:id
func (ctrl *ScheduleController) Unassign(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.scheduleService.Unassign(id); err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Assignment not found",
				"code":  apperrors.ResourceNotFound,
			})
			return
		}
		log.Error("Failed to unassign order", err, map[string]interface{}{
			"assignment_id": id,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to unassign order",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Assignment removed",
	})
}

// Board returns the production board for a date range
// GET /api/v1/admin/schedule/board?start=2026-09-01&end=2026-09-14
func (ctrl *ScheduleController) Board(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}

	days, err := ctrl.scheduleService.Board(start, end)
	if err != nil {
		log.Error("Failed to build schedule board", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to build schedule board",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"days": days,
	})
}

// Export streams the board for a date range as an XLSX workbook
// GET /api/v1/admin/schedule/export?start=2026-09-01&end=2026-09-14
func (ctrl *ScheduleController) Export(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}

	days, err := ctrl.scheduleService.Board(start, end)
	if err != nil {
		log.Error("Failed to build schedule export", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to build schedule export",
		})
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Schedule"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Date", "Blocked", "Slot", "Order", "Customer", "Kg", "Due date", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, day := range days {
		for _, slot := range day.Slots {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), day.Date.Format("2006-01-02"))
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), day.Blocked)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), slot.SlotIndex)
			if slot.Assignment != nil && slot.Assignment.Order.ID != 0 {
				order := slot.Assignment.Order
				f.SetCellValue(sheet, fmt.Sprintf("D%d", row), order.OrderNumber)
				f.SetCellValue(sheet, fmt.Sprintf("E%d", row), order.CustomerName)
				f.SetCellValue(sheet, fmt.Sprintf("F%d", row), slot.Assignment.KgAssigned)
				if order.DueDate != nil {
					f.SetCellValue(sheet, fmt.Sprintf("G%d", row), order.DueDate.Format("2006-01-02"))
				}
				f.SetCellValue(sheet, fmt.Sprintf("H%d", row), string(order.Status))
			}
			row++
		}
	}

	filename := fmt.Sprintf("schedule_%s_%s.xlsx", start.Format("20060102"), end.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		log.Error("Failed to write schedule export", err, nil)
	}
}

func (ctrl *ScheduleController) respondAssignError(c *gin.Context, err error, orderID uint) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
			"code":  apperrors.ResourceNotFound,
		})
	case errors.Is(err, service.ErrSlotNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Production slot not found",
			"code":  apperrors.ResourceNotFound,
		})
	case errors.Is(err, service.ErrInvalidKg):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Assigned weight must be a positive number",
			"code":  apperrors.ValidationInvalidWeight,
		})
	case errors.Is(err, service.ErrInvalidSlotIndex):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Slot index is outside the configured slots per day",
			"code":  apperrors.ValidationInvalidRange,
		})
	case errors.Is(err, service.ErrMissingSlotTarget):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "A slot id or a slot date and index is required",
			"code":  apperrors.ValidationRequired,
		})
	case errors.Is(err, service.ErrPastDate):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Cannot assign production to a past date",
			"code":  apperrors.CapacityPastDate,
		})
	case errors.Is(err, service.ErrSlotOccupied):
		c.JSON(http.StatusConflict, gin.H{
			"error": "That slot already holds another order",
			"code":  apperrors.CapacitySlotOccupied,
		})
	case errors.Is(err, service.ErrSlotClosed):
		c.JSON(http.StatusConflict, gin.H{
			"error": "That slot is closed",
			"code":  apperrors.CapacitySlotClosed,
		})
	case errors.Is(err, service.ErrOverOrderWeight), errors.Is(err, service.ErrOverSlotCapacity):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Assigned weight exceeds what the order has left",
			"code":  apperrors.CapacityOverOrderWeight,
		})
	default:
		log.Error("Assignment failed", err, map[string]interface{}{
			"order_id": orderID,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Assignment failed",
		})
	}
}

// parseDateRange reads start/end query dates, writing the 400 itself on bad
// input.
func parseDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	const layout = "2006-01-02"

	start, err := time.Parse(layout, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid or missing start date, expected YYYY-MM-DD",
			"code":  apperrors.ValidationInvalidRange,
		})
		return time.Time{}, time.Time{}, false
	}

	end, err := time.Parse(layout, c.Query("end"))
	if err != nil || end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid end date, expected YYYY-MM-DD on or after start",
			"code":  apperrors.ValidationInvalidRange,
		})
		return time.Time{}, time.Time{}, false
	}

	return start, end, true
}
