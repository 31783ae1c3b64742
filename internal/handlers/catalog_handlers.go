package handlers

import (
	"net/http"
	"strconv"

	"pos_backend/internal/models"
	"pos_backend/internal/services"
	"pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CatalogHandler exposes categories and measurement units.
type CatalogHandler struct {
	catalogService services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cs services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: cs}
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	created, err := h.catalogService.CreateCategory(&category)
	if err != nil {
		utils.LogError(err, "CreateCategory: Error from catalogService.CreateCategory")
		respondServiceError(c, err, "Failed to create category.")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *CatalogHandler) GetCategories(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	categories, totalCount, err := h.catalogService.GetCategories(page, pageSize)
	if err != nil {
		utils.LogError(err, "GetCategories: Error from catalogService.GetCategories")
		respondServiceError(c, err, "Failed to fetch categories.")
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	c.JSON(http.StatusOK, gin.H{"data": categories, "total": totalCount})
}

func (h *CatalogHandler) GetCategoryByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	category, err := h.catalogService.GetCategoryByID(id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch category.")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	category.ID = id
	updated, err := h.catalogService.UpdateCategory(&category)
	if err != nil {
		utils.LogError(err, "UpdateCategory: Error from catalogService.UpdateCategory")
		respondServiceError(c, err, "Failed to update category.")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.catalogService.DeleteCategory(id); err != nil {
		respondServiceError(c, err, "Failed to delete category.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

func (h *CatalogHandler) CreateUnit(c *gin.Context) {
	var unit models.Unit
	if err := c.ShouldBindJSON(&unit); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	created, err := h.catalogService.CreateUnit(&unit)
	if err != nil {
		utils.LogError(err, "CreateUnit: Error from catalogService.CreateUnit")
		respondServiceError(c, err, "Failed to create unit.")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *CatalogHandler) GetUnits(c *gin.Context) {
	units, err := h.catalogService.GetUnits()
	if err != nil {
		utils.LogError(err, "GetUnits: Error from catalogService.GetUnits")
		respondServiceError(c, err, "Failed to fetch units.")
		return
	}
	if units == nil {
		units = []models.Unit{}
	}
	c.JSON(http.StatusOK, units)
}

func (h *CatalogHandler) DeleteUnit(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.catalogService.DeleteUnit(id); err != nil {
		respondServiceError(c, err, "Failed to delete unit.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unit deleted successfully"})
}
