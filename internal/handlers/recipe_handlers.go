package handlers

import (
	"net/http"

	"pos_backend/internal/models"
	"pos_backend/internal/services"
	"pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RecipeHandler exposes master recipes.
type RecipeHandler struct {
	recipeService services.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(rs services.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: rs}
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var recipe models.MasterRecipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	created, err := h.recipeService.CreateRecipe(&recipe)
	if err != nil {
		utils.LogError(err, "CreateRecipe: Error from recipeService.CreateRecipe")
		respondServiceError(c, err, "Failed to create recipe.")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *RecipeHandler) GetRecipes(c *gin.Context) {
	recipes, err := h.recipeService.GetRecipes()
	if err != nil {
		utils.LogError(err, "GetRecipes: Error from recipeService.GetRecipes")
		respondServiceError(c, err, "Failed to fetch recipes.")
		return
	}
	if recipes == nil {
		recipes = []models.MasterRecipe{}
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) GetRecipeByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	recipe, err := h.recipeService.GetRecipeByID(id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch recipe.")
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var recipe models.MasterRecipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	recipe.ID = id
	updated, err := h.recipeService.UpdateRecipe(&recipe)
	if err != nil {
		utils.LogError(err, "UpdateRecipe: Error from recipeService.UpdateRecipe")
		respondServiceError(c, err, "Failed to update recipe.")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.recipeService.DeleteRecipe(id); err != nil {
		respondServiceError(c, err, "Failed to delete recipe.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully"})
}
