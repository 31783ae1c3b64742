package services

import (
	"fmt"

	"pos_backend/internal/models"
)

// Consumption-line origin tags, used as ledger reason suffixes so every unit
// consumed can be traced back to the recipe line, direct link or modifier
// responsible for it.
const (
	OriginItem   = "item"
	OriginRecipe = "recipe"
	OriginDirect = "direct"
)

// OriginModifier builds the origin tag for a modifier-driven deduction.
func OriginModifier(modifierID int64) string {
	return fmt.Sprintf("modifier_%d", modifierID)
}

// ConsumptionLine is one stock deduction a sold cart line causes. Amount is
// the total to deduct for the whole line (per-unit consumption times units
// sold) and may be zero; zero sale deductions are still ledgered.
type ConsumptionLine struct {
	EntityType string
	EntityID   int64
	Amount     float64
	Origin     string
}

// LineMaterials gathers everything a sellable item consumes, loaded eagerly by
// id before expansion. Which fields are populated depends on whether the line
// sells a plain product or a variant.
type LineMaterials struct {
	// Effective recipe of the sellable item: the variant's own recipe if set,
	// else the parent product's, else empty.
	RecipeItems []models.MasterRecipeItem
	// OutputWeight of the sellable item; zero means percentage-based recipe
	// lines consume nothing.
	OutputWeight float64

	ProductIngredients []models.ProductIngredient
	ProductConsumables []models.ProductConsumable
	VariantIngredients []models.ProductVariantIngredient
	VariantConsumables []models.ProductVariantConsumable

	Modifiers []models.Modifier
}

// ExpandConsumption flattens the materials of one cart line into the ordered
// list of stock deductions selling unitsSold units causes. Recipe consumption
// comes first, then direct links (product-level, then variant-level), then
// modifiers; direct links are always additive to the recipe, never a
// substitute. The order is stable so row locks are taken in a deterministic
// sequence for a given cart line.
func ExpandConsumption(m LineMaterials, unitsSold int) []ConsumptionLine {
	lines := []ConsumptionLine{}
	units := float64(unitsSold)

	for _, item := range m.RecipeItems {
		perUnit := item.Quantity
		if item.IsPercentage {
			perUnit = item.Quantity / 100 * m.OutputWeight
		}
		lines = append(lines, ConsumptionLine{
			EntityType: models.EntityTypeIngredient,
			EntityID:   item.IngredientID,
			Amount:     perUnit * units,
			Origin:     OriginRecipe,
		})
	}

	for _, link := range m.ProductIngredients {
		lines = append(lines, ConsumptionLine{
			EntityType: models.EntityTypeIngredient,
			EntityID:   link.IngredientID,
			Amount:     link.Quantity * units,
			Origin:     OriginDirect,
		})
	}
	for _, link := range m.ProductConsumables {
		lines = append(lines, ConsumptionLine{
			EntityType: models.EntityTypeConsumable,
			EntityID:   link.ConsumableID,
			Amount:     link.Quantity * units,
			Origin:     OriginDirect,
		})
	}
	for _, link := range m.VariantIngredients {
		lines = append(lines, ConsumptionLine{
			EntityType: models.EntityTypeIngredient,
			EntityID:   link.IngredientID,
			Amount:     link.Quantity * units,
			Origin:     OriginDirect,
		})
	}
	for _, link := range m.VariantConsumables {
		lines = append(lines, ConsumptionLine{
			EntityType: models.EntityTypeConsumable,
			EntityID:   link.ConsumableID,
			Amount:     link.Quantity * units,
			Origin:     OriginDirect,
		})
	}

	// Modifiers consume their named ingredient even when the sellable item
	// itself tracks no stock at all; that behavior is deliberate.
	for _, mod := range m.Modifiers {
		if mod.IngredientID == nil {
			continue
		}
		lines = append(lines, ConsumptionLine{
			EntityType: models.EntityTypeIngredient,
			EntityID:   *mod.IngredientID,
			Amount:     mod.Quantity * units,
			Origin:     OriginModifier(mod.ID),
		})
	}
	return lines
}
