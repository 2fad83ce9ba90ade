package controller

import (
	"errors"
	"net/http"

	apperrors "github.com/avlawson/candyshop-backend/internal/errors"
	"github.com/avlawson/candyshop-backend/internal/app/service"
	"github.com/avlawson/candyshop-backend/internal/middleware"
	"github.com/avlawson/candyshop-backend/pkg/logger"
	"github.com/avlawson/candyshop-backend/pkg/payment/paypal"
	"github.com/avlawson/candyshop-backend/pkg/payment/square"
	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	paymentService  service.PaymentService
	orderService    service.OrderService
	platformService service.PlatformService
	notification    service.NotificationService
}

func NewPaymentController(
	paymentService service.PaymentService,
	orderService service.OrderService,
	platformService service.PlatformService,
	notification service.NotificationService,
) *PaymentController {
	return &PaymentController{
		paymentService:  paymentService,
		orderService:    orderService,
		platformService: platformService,
		notification:    notification,
	}
}

type SquareCaptureRequest struct {
	OrderID  uint   `json:"order_id" binding:"required"`
	SourceID string `json:"source_id" binding:"required"`
}

type PayPalCaptureRequest struct {
	OrderID       uint   `json:"order_id" binding:"required"`
	PayPalOrderID string `json:"paypal_order_id" binding:"required"`
}

type RefundRequest struct {
	Reason string `json:"reason"`
}

// CaptureSquare charges a tokenised card for the order
// POST /api/v1/payments/square
func (ctrl *PaymentController) CaptureSquare(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SquareCaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := ctrl.paymentService.CaptureSquare(c.Request.Context(), req.OrderID, req.SourceID)
	if err != nil {
		ctrl.respondCaptureError(c, err, req.OrderID)
		return
	}

	ctrl.afterCapture(c, log, req.OrderID)

	c.JSON(http.StatusOK, gin.H{
		"payment": result,
	})
}

// CapturePayPal captures an approved PayPal order
// POST /api/v1/payments/paypal
func (ctrl *PaymentController) CapturePayPal(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PayPalCaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := ctrl.paymentService.CapturePayPal(c.Request.Context(), req.OrderID, req.PayPalOrderID)
	if err != nil {
		ctrl.respondCaptureError(c, err, req.OrderID)
		return
	}

	ctrl.afterCapture(c, log, req.OrderID)

	c.JSON(http.StatusOK, gin.H{
		"payment": result,
	})
}

// Refund refunds a paid order in full via its original provider
// POST /api/v1/admin/orders/:id/refund
func (ctrl *PaymentController) Refund(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	// Body is optional for refunds.
	var req RefundRequest
	_ = c.ShouldBindJSON(&req)

	result, err := ctrl.paymentService.Refund(c.Request.Context(), id, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
				"code":  apperrors.ResourceNotFound,
			})
		case errors.Is(err, service.ErrOrderNotPaid):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Order has no completed payment to refund",
			})
		case errors.Is(err, service.ErrPaymentAlreadyProcessed):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Order is already refunded",
			})
		default:
			log.Error("Refund failed", err, map[string]interface{}{
				"order_id": id,
			})
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Refund could not be processed",
				"code":  apperrors.ExternalRefundFailed,
			})
		}
		return
	}

	// Mirror the refund on the store platform; the money has already moved,
	// so a platform failure is logged rather than surfaced.
	if err := ctrl.platformService.MarkRefunded(c.Request.Context(), id); err != nil && !errors.Is(err, service.ErrOrderNotSynced) {
		log.Warn("Platform refund mirror failed", map[string]interface{}{
			"order_id": id,
			"error":    err.Error(),
		})
	}

	if order, err := ctrl.orderService.GetOrder(id); err == nil {
		ctrl.notification.OrderRefunded(order)
	}

	c.JSON(http.StatusOK, gin.H{
		"refund": result,
	})
}

// afterCapture runs the post-payment side effects: platform mirror and
// customer receipt. The charge has succeeded, so failures here are logged,
// not returned.
func (ctrl *PaymentController) afterCapture(c *gin.Context, log *logger.Logger, orderID uint) {
	if err := ctrl.platformService.SyncOrder(c.Request.Context(), orderID); err != nil {
		log.Warn("Platform order sync failed after capture", map[string]interface{}{
			"order_id": orderID,
			"error":    err.Error(),
		})
	}

	if order, err := ctrl.orderService.GetOrder(orderID); err == nil {
		ctrl.notification.OrderPaid(order)
	}
}

func (ctrl *PaymentController) respondCaptureError(c *gin.Context, err error, orderID uint) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
			"code":  apperrors.ResourceNotFound,
		})
	case errors.Is(err, service.ErrPaymentAlreadyProcessed):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Order is already paid",
		})
	case errors.Is(err, service.ErrMissingPaymentSource):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Payment source is required",
			"code":  apperrors.ValidationRequired,
		})
	case errors.Is(err, square.ErrCardDeclined):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Card declined",
			"code":  apperrors.ExternalPaymentFailed,
		})
	case errors.Is(err, square.ErrPaymentFailed), errors.Is(err, paypal.ErrCaptureFailed),
		errors.Is(err, square.ErrNetworkError), errors.Is(err, paypal.ErrNetworkError):
		log.Error("Payment capture failed", err, map[string]interface{}{
			"order_id": orderID,
		})
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Payment could not be processed",
			"code":  apperrors.ExternalPaymentFailed,
		})
	default:
		log.Error("Payment capture failed", err, map[string]interface{}{
			"order_id": orderID,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Payment could not be processed",
		})
	}
}
