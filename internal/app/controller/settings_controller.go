package controller

import (
	"errors"
	"net/http"

	"github.com/avlawson/candyshop-backend/internal/app/model"
	"github.com/avlawson/candyshop-backend/internal/app/service"
	"github.com/avlawson/candyshop-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	settingsService service.SettingsService
}

func NewSettingsController(settingsService service.SettingsService) *SettingsController {
	return &SettingsController{
		settingsService: settingsService,
	}
}

// Get returns the shop settings
// GET /api/v1/admin/settings
func (ctrl *SettingsController) Get(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	settings, err := ctrl.settingsService.Get()
	if err != nil {
		log.Error("Failed to fetch settings", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch settings",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"settings": settings,
	})
}

// Update replaces the shop settings
// PUT /api/v1/admin/settings
func (ctrl *SettingsController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var settings model.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := ctrl.settingsService.Update(&settings)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNegativePercent),
			errors.Is(err, service.ErrInvalidCapacity),
			errors.Is(err, service.ErrInvalidLeadTime),
			errors.Is(err, service.ErrInvalidMultiplier):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		default:
			log.Error("Failed to update settings", err, nil)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update settings",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"settings": updated,
	})
}
