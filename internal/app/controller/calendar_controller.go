package controller

import (
	"errors"
	"net/http"
	"time"

	apperrors "github.com/avlawson/candyshop-backend/internal/errors"
	"github.com/avlawson/candyshop-backend/internal/app/service"
	"github.com/avlawson/candyshop-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CalendarController struct {
	calendarService service.CalendarService
}

func NewCalendarController(calendarService service.CalendarService) *CalendarController {
	return &CalendarController{
		calendarService: calendarService,
	}
}

type CreateBlockRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

func (req *CreateBlockRequest) dates() (time.Time, time.Time, error) {
	const layout = "2006-01-02"
	start, err := time.Parse(layout, req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(layout, req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// Availability reports whether a date accepts new quotes
// GET /api/v1/calendar/availability?date=2026-09-10
func (ctrl *CalendarController) Availability(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid or missing date, expected YYYY-MM-DD",
			"code":  apperrors.ValidationInvalidRange,
		})
		return
	}

	blocked, err := ctrl.calendarService.IsQuoteBlocked(date)
	if err != nil {
		log.Error("Failed to check date availability", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to check availability",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":      date.Format("2006-01-02"),
		"available": !blocked,
	})
}

// ListProductionBlocks returns all production block rows
// GET /api/v1/admin/calendar/production-blocks
func (ctrl *CalendarController) ListProductionBlocks(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	blocks, err := ctrl.calendarService.ListProductionBlocks()
	if err != nil {
		log.Error("Failed to list production blocks", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch blocks",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"blocks": blocks,
	})
}

// CreateProductionBlock blocks (or, via the open override reason, unblocks)
// a production date range
// POST /api/v1/admin/calendar/production-blocks
func (ctrl *CalendarController) CreateProductionBlock(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	start, end, err := req.dates()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Dates must be YYYY-MM-DD",
			"code":  apperrors.ValidationInvalidRange,
		})
		return
	}

	block, err := ctrl.calendarService.CreateProductionBlock(start, end, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDateRange):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "End date must not be before start date",
				"code":  apperrors.ValidationInvalidRange,
			})
		case errors.Is(err, service.ErrBlockReasonEmpty):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "A block reason is required",
				"code":  apperrors.ValidationRequired,
			})
		default:
			log.Error("Failed to create production block", err, nil)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create block",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"block": block,
	})
}

// DeleteProductionBlock removes a production block row
// DELETE /api/v1/admin/calendar/production-blocks/:id
func (ctrl *CalendarController) DeleteProductionBlock(c *gin.Context) {
	ctrl.deleteBlock(c, ctrl.calendarService.DeleteProductionBlock)
}

// ListQuoteBlocks returns all quote block rows
// GET /api/v1/admin/calendar/quote-blocks
func (ctrl *CalendarController) ListQuoteBlocks(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	blocks, err := ctrl.calendarService.ListQuoteBlocks()
	if err != nil {
		log.Error("Failed to list quote blocks", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch blocks",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"blocks": blocks,
	})
}

// CreateQuoteBlock blocks a date range from customer due date selection
// POST /api/v1/admin/calendar/quote-blocks
func (ctrl *CalendarController) CreateQuoteBlock(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	start, end, err := req.dates()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Dates must be YYYY-MM-DD",
			"code":  apperrors.ValidationInvalidRange,
		})
		return
	}

	block, err := ctrl.calendarService.CreateQuoteBlock(start, end, req.Reason)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDateRange) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "End date must not be before start date",
				"code":  apperrors.ValidationInvalidRange,
			})
			return
		}
		log.Error("Failed to create quote block", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create block",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"block": block,
	})
}

// DeleteQuoteBlock removes a quote block row
// DELETE /api/v1/admin/calendar/quote-blocks/:id
func (ctrl *CalendarController) DeleteQuoteBlock(c *gin.Context) {
	ctrl.deleteBlock(c, ctrl.calendarService.DeleteQuoteBlock)
}

func (ctrl *CalendarController) deleteBlock(c *gin.Context, del func(id uint) error) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := del(id); err != nil {
		log.Error("Failed to delete block", err, map[string]interface{}{
			"block_id": id,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete block",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Block deleted",
	})
}
