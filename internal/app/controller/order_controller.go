package controller

import (
	"errors"
	"net/http"
	"strconv"

	apperrors "github.com/avlawson/candyshop-backend/internal/errors"
	"github.com/avlawson/candyshop-backend/internal/app/service"
	"github.com/avlawson/candyshop-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

// PlaceOrder prices and creates an order from the storefront
// POST /api/v1/orders
func (ctrl *OrderController) PlaceOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.PlaceOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid place order request", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	orders, err := ctrl.orderService.PlaceOrder(input)
	if err != nil {
		if errors.Is(err, service.ErrMissingCustomer) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Customer name and email are required",
				"code":  apperrors.ValidationRequired,
			})
			return
		}
		if errors.Is(err, service.ErrOrderNumberExhausted) {
			log.Error("Order placement failed: numbering exhausted", err, nil)
			c.JSON(http.StatusConflict, gin.H{
				"error": "Could not allocate an order number, please try again",
				"code":  apperrors.ConflictOrderNumber,
			})
			return
		}
		respondQuoteError(c, log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"orders": orders,
	})
}

// GetOrderByNumber looks an order up for the customer-facing status page
// GET /api/v1/orders/:number
func (ctrl *OrderController) GetOrderByNumber(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	order, err := ctrl.orderService.GetOrderByNumber(c.Param("number"))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
				"code":  apperrors.ResourceNotFound,
			})
			return
		}
		log.Error("Failed to fetch order", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch order",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// ListOrders returns orders for the admin console, optionally by status
// GET /api/v1/admin/orders?status=paid
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orders, err := ctrl.orderService.ListOrders(c.Query("status"))
	if err != nil {
		log.Error("Failed to list orders", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder returns one order by id for the admin console
// GET /api/v1/admin/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrder(id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
				"code":  apperrors.ResourceNotFound,
			})
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": id,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch order",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// UpdateOrder applies a partial edit from the admin console
// PATCH /api/v1/admin/orders/:id
func (ctrl *OrderController) UpdateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var patch service.OrderPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	order, err := ctrl.orderService.UpdateOrder(id, patch)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
				"code":  apperrors.ResourceNotFound,
			})
		case errors.Is(err, service.ErrOrderArchived):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Archived orders cannot be edited",
			})
		default:
			log.Error("Failed to update order", err, map[string]interface{}{
				"order_id": id,
			})
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update order",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// MarkShipped flags a premade order as shipped
// POST /api/v1/admin/orders/:id/ship
func (ctrl *OrderController) MarkShipped(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.orderService.MarkShipped(id); err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
				"code":  apperrors.ResourceNotFound,
			})
		case errors.Is(err, service.ErrOrderNotShippable):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Only premade items can be marked shipped",
			})
		default:
			log.Error("Failed to mark order shipped", err, map[string]interface{}{
				"order_id": id,
			})
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to mark order shipped",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order marked shipped",
	})
}

// Archive removes an order from the working views
// POST /api/v1/admin/orders/:id/archive
func (ctrl *OrderController) Archive(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.orderService.Archive(id); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
				"code":  apperrors.ResourceNotFound,
			})
			return
		}
		log.Error("Failed to archive order", err, map[string]interface{}{
			"order_id": id,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to archive order",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order archived",
	})
}

// parseIDParam reads the :id path parameter, writing the 400 itself on bad
// input.
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid id",
			"code":  apperrors.ValidationInvalidID,
		})
		return 0, false
	}
	return uint(id), true
}
