package controller

import (
	"errors"
	"net/http"

	apperrors "github.com/avlawson/candyshop-backend/internal/errors"
	"github.com/avlawson/candyshop-backend/internal/app/model"
	"github.com/avlawson/candyshop-backend/internal/app/service"
	"github.com/avlawson/candyshop-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// CatalogController serves the storefront's read endpoints for the pricing
// tables and the admin's write endpoints over the same data.
type CatalogController struct {
	catalogService service.CatalogService
}

func NewCatalogController(catalogService service.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

type PackagingRequest struct {
	Option      model.PackagingOption `json:"option"`
	CategoryIDs []uint                `json:"category_ids"`
}

// ListCategories returns all candy categories with their weight tiers
// GET /api/v1/categories
func (ctrl *CatalogController) ListCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.catalogService.ListCategories()
	if err != nil {
		log.Error("Failed to list categories", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch categories",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}

// ListPackagingForCategory returns packaging available to one category
// GET /api/v1/categories/:id/packaging
func (ctrl *CatalogController) ListPackagingForCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	options, err := ctrl.catalogService.ListPackagingForCategory(id)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Category not found",
				"code":  apperrors.ResourceNotFound,
			})
			return
		}
		log.Error("Failed to list packaging", err, map[string]interface{}{
			"category_id": id,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch packaging",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"packaging": options,
	})
}

// CreateCategory adds a candy category
// POST /api/v1/admin/categories
func (ctrl *CatalogController) CreateCategory(c *gin.Context) {
	var category model.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := ctrl.catalogService.CreateCategory(&category)
	if err != nil {
		ctrl.respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"category": created,
	})
}

// UpdateCategory edits a candy category
// PUT /api/v1/admin/categories/:id
func (ctrl *CatalogController) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var category model.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}
	category.ID = id

	updated, err := ctrl.catalogService.UpdateCategory(&category)
	if err != nil {
		ctrl.respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": updated,
	})
}

// DeleteCategory removes a candy category
// DELETE /api/v1/admin/categories/:id
func (ctrl *CatalogController) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.catalogService.DeleteCategory(id); err != nil {
		ctrl.respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category deleted",
	})
}

// CreateTier adds a weight tier to a category
// POST /api/v1/admin/tiers
func (ctrl *CatalogController) CreateTier(c *gin.Context) {
	var tier model.WeightTier
	if err := c.ShouldBindJSON(&tier); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := ctrl.catalogService.CreateTier(&tier)
	if err != nil {
		ctrl.respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"tier": created,
	})
}

// UpdateTier edits a weight tier
// PUT /api/v1/admin/tiers/:id
func (ctrl *CatalogController) UpdateTier(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var tier model.WeightTier
	if err := c.ShouldBindJSON(&tier); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}
	tier.ID = id

	updated, err := ctrl.catalogService.UpdateTier(&tier)
	if err != nil {
		ctrl.respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tier": updated,
	})
}

// DeleteTier removes a weight tier
// DELETE /api/v1/admin/tiers/:id
func (ctrl *CatalogController) DeleteTier(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.catalogService.DeleteTier(id); err != nil {
		ctrl.respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tier deleted",
	})
}

// ListPackaging returns every packaging option
// GET /api/v1/admin/packaging
func (ctrl *CatalogController) ListPackaging(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	options, err := ctrl.catalogService.ListPackaging()
	if err != nil {
		log.Error("Failed to list packaging", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch packaging",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"packaging": options,
	})
}

// CreatePackaging adds a packaging option with its category restriction
// POST /api/v1/admin/packaging
func (ctrl *CatalogController) CreatePackaging(c *gin.Context) {
	var req PackagingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := ctrl.catalogService.CreatePackaging(&req.Option, req.CategoryIDs)
	if err != nil {
		ctrl.respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"option": created,
	})
}

// UpdatePackaging edits a packaging option
// PUT /api/v1/admin/packaging/:id
func (ctrl *CatalogController) UpdatePackaging(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req PackagingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}
	req.Option.ID = id

	updated, err := ctrl.catalogService.UpdatePackaging(&req.Option, req.CategoryIDs)
	if err != nil {
		ctrl.respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"option": updated,
	})
}

// DeletePackaging removes a packaging option
// DELETE /api/v1/admin/packaging/:id
func (ctrl *CatalogController) DeletePackaging(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.catalogService.DeletePackaging(id); err != nil {
		ctrl.respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Packaging option deleted",
	})
}

// ListLabelRanges returns the label price bands
// GET /api/v1/admin/labels
func (ctrl *CatalogController) ListLabelRanges(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ranges, err := ctrl.catalogService.ListLabelRanges()
	if err != nil {
		log.Error("Failed to list label ranges", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch label ranges",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"label_ranges": ranges,
	})
}

// CreateLabelRange adds a label price band
// POST /api/v1/admin/labels
func (ctrl *CatalogController) CreateLabelRange(c *gin.Context) {
	var labelRange model.LabelRange
	if err := c.ShouldBindJSON(&labelRange); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := ctrl.catalogService.CreateLabelRange(&labelRange)
	if err != nil {
		ctrl.respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"label_range": created,
	})
}

// UpdateLabelRange edits a label price band
// PUT /api/v1/admin/labels/:id
func (ctrl *CatalogController) UpdateLabelRange(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var labelRange model.LabelRange
	if err := c.ShouldBindJSON(&labelRange); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}
	labelRange.ID = id

	updated, err := ctrl.catalogService.UpdateLabelRange(&labelRange)
	if err != nil {
		ctrl.respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"label_range": updated,
	})
}

// DeleteLabelRange removes a label price band
// DELETE /api/v1/admin/labels/:id
func (ctrl *CatalogController) DeleteLabelRange(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.catalogService.DeleteLabelRange(id); err != nil {
		ctrl.respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Label range deleted",
	})
}

func (ctrl *CatalogController) respondCatalogError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

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
	case errors.Is(err, service.ErrCategoryNameEmpty),
		errors.Is(err, service.ErrInvalidTierRange),
		errors.Is(err, service.ErrNegativePrice),
		errors.Is(err, service.ErrInvalidUpperBound),
		errors.Is(err, service.ErrPackagingWeight):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"code":  apperrors.ValidationInvalidInput,
		})
	default:
		if apperrors.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "That record already exists",
				"code":  apperrors.ResourceAlreadyExists,
			})
			return
		}
		log.Error("Catalog operation failed", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Catalog operation failed",
		})
	}
}
