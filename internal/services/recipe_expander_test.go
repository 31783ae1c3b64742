package services

import (
	"testing"

	"pos_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestExpandConsumption_FixedQuantityRecipe(t *testing.T) {
	m := LineMaterials{
		RecipeItems: []models.MasterRecipeItem{
			{IngredientID: 11, Quantity: 300, IsPercentage: false},
		},
	}

	lines := ExpandConsumption(m, 2)

	assert.Len(t, lines, 1)
	assert.Equal(t, models.EntityTypeIngredient, lines[0].EntityType)
	assert.Equal(t, int64(11), lines[0].EntityID)
	assert.Equal(t, 600.0, lines[0].Amount)
	assert.Equal(t, OriginRecipe, lines[0].Origin)
}

func TestExpandConsumption_PercentageRecipe(t *testing.T) {
	m := LineMaterials{
		RecipeItems: []models.MasterRecipeItem{
			{IngredientID: 3, Quantity: 40, IsPercentage: true},
			{IngredientID: 4, Quantity: 60, IsPercentage: true},
		},
		OutputWeight: 250,
	}

	lines := ExpandConsumption(m, 1)

	assert.Len(t, lines, 2)
	assert.Equal(t, 100.0, lines[0].Amount)
	assert.Equal(t, 150.0, lines[1].Amount)
}

func TestExpandConsumption_PercentageWithoutOutputWeight(t *testing.T) {
	// No output weight means a percentage line cannot consume anything, but
	// the line is still emitted so the sale leaves a ledger trace.
	m := LineMaterials{
		RecipeItems: []models.MasterRecipeItem{
			{IngredientID: 3, Quantity: 40, IsPercentage: true},
		},
	}

	lines := ExpandConsumption(m, 3)

	assert.Len(t, lines, 1)
	assert.Equal(t, 0.0, lines[0].Amount)
}

func TestExpandConsumption_DirectLinksAdditiveToRecipe(t *testing.T) {
	m := LineMaterials{
		RecipeItems: []models.MasterRecipeItem{
			{IngredientID: 11, Quantity: 300},
		},
		ProductIngredients: []models.ProductIngredient{
			{IngredientID: 11, Quantity: 50},
			{IngredientID: 12, Quantity: 5},
		},
		ProductConsumables: []models.ProductConsumable{
			{ConsumableID: 20, Quantity: 1},
		},
	}

	lines := ExpandConsumption(m, 2)

	assert.Len(t, lines, 4)
	// Recipe and direct link for the same ingredient stay separate lines.
	assert.Equal(t, 600.0, lines[0].Amount)
	assert.Equal(t, OriginRecipe, lines[0].Origin)
	assert.Equal(t, 100.0, lines[1].Amount)
	assert.Equal(t, OriginDirect, lines[1].Origin)
	assert.Equal(t, 10.0, lines[2].Amount)
	assert.Equal(t, models.EntityTypeConsumable, lines[3].EntityType)
	assert.Equal(t, 2.0, lines[3].Amount)
}

func TestExpandConsumption_VariantLinks(t *testing.T) {
	m := LineMaterials{
		VariantIngredients: []models.ProductVariantIngredient{
			{IngredientID: 7, Quantity: 30},
		},
		VariantConsumables: []models.ProductVariantConsumable{
			{ConsumableID: 21, Quantity: 1},
		},
	}

	lines := ExpandConsumption(m, 4)

	assert.Len(t, lines, 2)
	assert.Equal(t, 120.0, lines[0].Amount)
	assert.Equal(t, models.EntityTypeConsumable, lines[1].EntityType)
	assert.Equal(t, 4.0, lines[1].Amount)
}

func TestExpandConsumption_Modifiers(t *testing.T) {
	oatMilk := int64(15)
	m := LineMaterials{
		Modifiers: []models.Modifier{
			{ID: 41, Name: "Oat milk", IngredientID: &oatMilk, Quantity: 50},
			{ID: 42, Name: "Extra hot"}, // no ingredient, price only
		},
	}

	lines := ExpandConsumption(m, 2)

	assert.Len(t, lines, 1)
	assert.Equal(t, int64(15), lines[0].EntityID)
	assert.Equal(t, 100.0, lines[0].Amount)
	assert.Equal(t, "modifier_41", lines[0].Origin)
}

func TestExpandConsumption_Empty(t *testing.T) {
	lines := ExpandConsumption(LineMaterials{}, 5)
	assert.Empty(t, lines)
}

func TestSaleReason(t *testing.T) {
	assert.Equal(t, "sale_order_7:line_1:recipe", SaleReason(7, 0, OriginRecipe))
	assert.Equal(t, "sale_order_12:line_3:modifier_41", SaleReason(12, 2, OriginModifier(41)))

	assert.True(t, IsSaleReason("sale_order_7:line_1:item"))
	assert.False(t, IsSaleReason(ReasonManualCorrection))
}
