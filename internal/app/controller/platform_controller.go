package controller

import (
	"errors"
	"net/http"

	apperrors "github.com/avlawson/candyshop-backend/internal/errors"
	"github.com/avlawson/candyshop-backend/internal/app/service"
	"github.com/avlawson/candyshop-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type PlatformController struct {
	platformService service.PlatformService
}

func NewPlatformController(platformService service.PlatformService) *PlatformController {
	return &PlatformController{
		platformService: platformService,
	}
}

// Categories returns the store platform's category list, cached
// GET /api/v1/platform/categories
func (ctrl *PlatformController) Categories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.platformService.Categories(c.Request.Context())
	if err != nil {
		log.Error("Failed to fetch platform categories", err, nil)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Store platform could not be reached",
			"code":  apperrors.ExternalPlatformFailed,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}

// BustCategoryCache drops the cached platform category list
// DELETE /api/v1/admin/platform/categories/cache
func (ctrl *PlatformController) BustCategoryCache(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if err := ctrl.platformService.BustCategoryCache(c.Request.Context()); err != nil {
		log.Error("Failed to bust category cache", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cache",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category cache cleared",
	})
}

// SyncOrder pushes one order to the store platform on demand
// POST /api/v1/admin/orders/:id/sync
func (ctrl *PlatformController) SyncOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.platformService.SyncOrder(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
				"code":  apperrors.ResourceNotFound,
			})
			return
		}
		log.Error("Manual platform sync failed", err, map[string]interface{}{
			"order_id": id,
		})
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Store platform could not be reached",
			"code":  apperrors.ExternalPlatformFailed,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order synced",
	})
}
