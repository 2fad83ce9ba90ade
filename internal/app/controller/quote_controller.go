package controller

import (
	"errors"
	"net/http"

	apperrors "github.com/avlawson/candyshop-backend/internal/errors"
	"github.com/avlawson/candyshop-backend/internal/app/service"
	"github.com/avlawson/candyshop-backend/internal/middleware"
	"github.com/avlawson/candyshop-backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

type QuoteController struct {
	pricingService service.PricingService
}

func NewQuoteController(pricingService service.PricingService) *QuoteController {
	return &QuoteController{
		pricingService: pricingService,
	}
}

// Quote prices an order description without creating anything
// POST /api/v1/quote
func (ctrl *QuoteController) Quote(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.QuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid quote request", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	breakdown, err := ctrl.pricingService.Quote(input)
	if err != nil {
		respondQuoteError(c, log, err)
		return
	}

	log.Info("Quote produced", map[string]interface{}{
		"category_id": input.CategoryID,
		"total":       breakdown.Total,
		"weight_kg":   breakdown.TotalWeightKg,
	})

	c.JSON(http.StatusOK, gin.H{
		"quote": breakdown,
	})
}

// respondQuoteError maps pricing failures onto statuses: unknown records
// are 404, malformed input is 400 and pricing rule violations are 422.
func respondQuoteError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Category not found",
			"code":  apperrors.ResourceNotFound,
		})
	case errors.Is(err, service.ErrPackagingNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Packaging option not found",
			"code":  apperrors.ResourceNotFound,
		})
	case errors.Is(err, service.ErrInvalidQuantity), errors.Is(err, service.ErrEmptyPackaging), errors.Is(err, service.ErrInvalidExtra):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"code":  apperrors.ValidationInvalidInput,
		})
	case errors.Is(err, service.ErrNoTierMatch):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "No price tier covers that weight, please get in touch for a custom quote",
			"code":  apperrors.PricingNoTierMatch,
		})
	case errors.Is(err, service.ErrPackagingNotAllowed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "That packaging is not available for the chosen candy type",
			"code":  apperrors.PricingPackagingNotAllowed,
		})
	case errors.Is(err, service.ErrQuantityOverMax):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Quantity exceeds the maximum for that packaging",
			"code":  apperrors.PricingQuantityOverMax,
		})
	case errors.Is(err, service.ErrLabelsBulkQuote):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Label quantities that large are quoted manually, please get in touch",
			"code":  apperrors.PricingLabelsOutOfRange,
		})
	case errors.Is(err, service.ErrNoLabelBand):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "No label price band covers that quantity",
			"code":  apperrors.PricingLabelsOutOfRange,
		})
	case errors.Is(err, service.ErrDueDateBlocked):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Orders cannot be placed for that date",
			"code":  apperrors.PricingDateBlocked,
		})
	case errors.Is(err, service.ErrDueDateTooSoon):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "That date is sooner than the minimum lead time allows",
			"code":  apperrors.PricingDateTooSoon,
		})
	default:
		log.Error("Quote failed", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to produce a quote",
			"code":  apperrors.InternalServerError,
		})
	}
}
