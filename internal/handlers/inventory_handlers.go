package handlers

import (
	"net/http"
	"strconv"

	"pos_backend/internal/models"
	"pos_backend/internal/services"
	"pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// InventoryHandler exposes raw materials and the stock ledger.
type InventoryHandler struct {
	inventoryService services.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(is services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: is}
}

// --- Ingredients ---

func (h *InventoryHandler) CreateIngredient(c *gin.Context) {
	var ing models.Ingredient
	if err := c.ShouldBindJSON(&ing); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	created, err := h.inventoryService.CreateIngredient(&ing)
	if err != nil {
		utils.LogError(err, "CreateIngredient: Error from inventoryService.CreateIngredient")
		respondServiceError(c, err, "Failed to create ingredient.")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *InventoryHandler) GetIngredients(c *gin.Context) {
	ingredients, err := h.inventoryService.GetIngredients()
	if err != nil {
		utils.LogError(err, "GetIngredients: Error from inventoryService.GetIngredients")
		respondServiceError(c, err, "Failed to fetch ingredients.")
		return
	}
	if ingredients == nil {
		ingredients = []models.Ingredient{}
	}
	c.JSON(http.StatusOK, ingredients)
}

func (h *InventoryHandler) GetIngredientByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	ing, err := h.inventoryService.GetIngredientByID(id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch ingredient.")
		return
	}
	c.JSON(http.StatusOK, ing)
}

func (h *InventoryHandler) UpdateIngredient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var ing models.Ingredient
	if err := c.ShouldBindJSON(&ing); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	ing.ID = id
	updated, err := h.inventoryService.UpdateIngredient(&ing)
	if err != nil {
		utils.LogError(err, "UpdateIngredient: Error from inventoryService.UpdateIngredient")
		respondServiceError(c, err, "Failed to update ingredient.")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *InventoryHandler) DeleteIngredient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.inventoryService.DeleteIngredient(id); err != nil {
		respondServiceError(c, err, "Failed to delete ingredient.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ingredient deleted successfully"})
}

// --- Consumables ---

func (h *InventoryHandler) CreateConsumable(c *gin.Context) {
	var cons models.Consumable
	if err := c.ShouldBindJSON(&cons); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	created, err := h.inventoryService.CreateConsumable(&cons)
	if err != nil {
		utils.LogError(err, "CreateConsumable: Error from inventoryService.CreateConsumable")
		respondServiceError(c, err, "Failed to create consumable.")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *InventoryHandler) GetConsumables(c *gin.Context) {
	consumables, err := h.inventoryService.GetConsumables()
	if err != nil {
		utils.LogError(err, "GetConsumables: Error from inventoryService.GetConsumables")
		respondServiceError(c, err, "Failed to fetch consumables.")
		return
	}
	if consumables == nil {
		consumables = []models.Consumable{}
	}
	c.JSON(http.StatusOK, consumables)
}

func (h *InventoryHandler) GetConsumableByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	cons, err := h.inventoryService.GetConsumableByID(id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch consumable.")
		return
	}
	c.JSON(http.StatusOK, cons)
}

func (h *InventoryHandler) UpdateConsumable(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var cons models.Consumable
	if err := c.ShouldBindJSON(&cons); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	cons.ID = id
	updated, err := h.inventoryService.UpdateConsumable(&cons)
	if err != nil {
		utils.LogError(err, "UpdateConsumable: Error from inventoryService.UpdateConsumable")
		respondServiceError(c, err, "Failed to update consumable.")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *InventoryHandler) DeleteConsumable(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.inventoryService.DeleteConsumable(id); err != nil {
		respondServiceError(c, err, "Failed to delete consumable.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Consumable deleted successfully"})
}

// --- Stock Corrections and Ledger ---

// CorrectStock sets an absolute stock level; the service records the delta as
// a manual correction in the ledger.
func (h *InventoryHandler) CorrectStock(c *gin.Context) {
	var req services.StockCorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	result, err := h.inventoryService.CorrectStock(req)
	if err != nil {
		utils.LogError(err, "CorrectStock: Error from inventoryService.CorrectStock")
		respondServiceError(c, err, "Failed to correct stock.")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetTransactions handles fetching the stock ledger with filters.
func (h *InventoryHandler) GetTransactions(c *gin.Context) {
	var filters models.TransactionFilters

	if entityType := c.Query("entity_type"); entityType != "" {
		filters.EntityType = &entityType
	}
	if entityIDStr := c.Query("entity_id"); entityIDStr != "" {
		entityID, err := strconv.ParseInt(entityIDStr, 10, 64)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid entity_id format.", err.Error()))
			return
		}
		filters.EntityID = &entityID
	}
	filters.Page = 1
	if pageStr := c.Query("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid page format.", "page must be a positive integer"))
			return
		}
		filters.Page = page
	}
	filters.PageSize = 50
	if pageSizeStr := c.Query("page_size"); pageSizeStr != "" {
		pageSize, err := strconv.Atoi(pageSizeStr)
		if err != nil || pageSize < 1 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid page_size format.", "page_size must be a positive integer"))
			return
		}
		filters.PageSize = pageSize
	}

	txns, totalCount, err := h.inventoryService.GetTransactions(filters)
	if err != nil {
		utils.LogError(err, "GetTransactions: Error from inventoryService.GetTransactions")
		respondServiceError(c, err, "Failed to fetch transactions.")
		return
	}
	if txns == nil {
		txns = []models.InventoryTransaction{}
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      txns,
		"total":     totalCount,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}
