package models

import "time"

// Category groups products for the POS front page.
type Category struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" binding:"required"`
	Slug      string    `json:"slug" db:"slug" binding:"required"`
	Color     *string   `json:"color,omitempty" db:"color"`
	ParentID  *int64    `json:"parent_id,omitempty" db:"parent_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Unit is a unit of measurement for ingredients and consumables (ml, pcs, kg).
type Unit struct {
	ID     int64  `json:"id" db:"id"`
	Name   string `json:"name" db:"name" binding:"required"`
	Symbol string `json:"symbol" db:"symbol" binding:"required"`
}

// Ingredient is a raw material consumed by recipes, direct links and modifiers.
// StockQuantity is continuous and may go negative (see checkout policy).
type Ingredient struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name" binding:"required"`
	UnitID        *int64    `json:"unit_id,omitempty" db:"unit_id"`
	CostPerUnit   float64   `json:"cost_per_unit" db:"cost_per_unit"`
	StockQuantity float64   `json:"stock_quantity" db:"stock_quantity"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
	Unit          *Unit     `json:"unit,omitempty"`
}

// Consumable is packaging or disposable material (cups, napkins, lids).
// Same stock semantics as Ingredient.
type Consumable struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name" binding:"required"`
	UnitID        *int64    `json:"unit_id,omitempty" db:"unit_id"`
	CostPerUnit   float64   `json:"cost_per_unit" db:"cost_per_unit"`
	StockQuantity float64   `json:"stock_quantity" db:"stock_quantity"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
	Unit          *Unit     `json:"unit,omitempty"`
}

// MasterRecipe is a named list of per-unit ingredient consumptions that a
// product or variant can link to.
type MasterRecipe struct {
	ID          int64              `json:"id" db:"id"`
	Name        string             `json:"name" db:"name" binding:"required"`
	Description *string            `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" db:"updated_at"`
	Items       []MasterRecipeItem `json:"items"`
}

// MasterRecipeItem is one line of a recipe. When IsPercentage is true the
// per-unit consumption is Quantity/100 of the sellable item's output weight,
// otherwise Quantity itself.
type MasterRecipeItem struct {
	ID             int64   `json:"id" db:"id"`
	RecipeID       int64   `json:"recipe_id" db:"recipe_id"`
	IngredientID   int64   `json:"ingredient_id" db:"ingredient_id" binding:"required"`
	Quantity       float64 `json:"quantity" db:"quantity"`
	IsPercentage   bool    `json:"is_percentage" db:"is_percentage"`
	IngredientName *string `json:"ingredient_name,omitempty"`
}

// ProcessGroup bundles named preparation choices offered with a product
// ("Grind"). Products reference groups many-to-many.
type ProcessGroup struct {
	ID      int64           `json:"id" db:"id"`
	Name    string          `json:"name" db:"name" binding:"required"`
	Options []ProcessOption `json:"options"`
}

// ProcessOption is one selectable preparation within its group ("For cezve").
type ProcessOption struct {
	ID      int64  `json:"id" db:"id"`
	GroupID int64  `json:"group_id" db:"group_id"`
	Name    string `json:"name" db:"name" binding:"required"`
}

// ProductRoom is a sales floor area that simple products can be pinned to.
// A product sits in at most one room.
type ProductRoom struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name" binding:"required"`
}

// Product is a sellable item unless it has variants, in which case only its
// variants sell. Stock fields apply only when TrackStock is set.
type Product struct {
	ID             int64     `json:"id" db:"id"`
	Name           string    `json:"name" db:"name" binding:"required"`
	Description    *string   `json:"description,omitempty" db:"description"`
	Price          float64   `json:"price" db:"price"`
	CategoryID     *int64    `json:"category_id,omitempty" db:"category_id"`
	HasVariants    bool      `json:"has_variants" db:"has_variants"`
	TrackStock     bool      `json:"track_stock" db:"track_stock"`
	StockQuantity  *float64  `json:"stock_quantity,omitempty" db:"stock_quantity"`
	MasterRecipeID *int64    `json:"master_recipe_id,omitempty" db:"master_recipe_id"`
	OutputWeight   *float64  `json:"output_weight,omitempty" db:"output_weight"`
	RoomID         *int64    `json:"room_id,omitempty" db:"room_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`

	Category *Category `json:"category,omitempty"`
	// ProcessGroupIDs is the write-side shape; ProcessGroups carries the
	// resolved groups on reads.
	ProcessGroupIDs []int64        `json:"process_group_ids,omitempty"`
	ProcessGroups   []ProcessGroup `json:"process_groups,omitempty"`
	// CalculatedStock is a read-time projection for recipe-backed items:
	// min over recipe ingredients of (ingredient stock / per-unit consumption).
	// Never persisted.
	CalculatedStock *float64            `json:"calculated_stock,omitempty"`
	Variants        []ProductVariant    `json:"variants,omitempty"`
	Ingredients     []ProductIngredient `json:"ingredients,omitempty"`
	Consumables     []ProductConsumable `json:"consumables,omitempty"`
	ModifierGroups  []ModifierGroup     `json:"modifier_groups,omitempty"`
}

// ProductVariant is a sellable variation of a product with its own price,
// stock and optional recipe. Its recipe link takes precedence over the parent's.
type ProductVariant struct {
	ID             int64    `json:"id" db:"id"`
	ProductID      int64    `json:"product_id" db:"product_id"`
	Name           string   `json:"name" db:"name" binding:"required"`
	Price          float64  `json:"price" db:"price"`
	SKU            *string  `json:"sku,omitempty" db:"sku"`
	StockQuantity  *float64 `json:"stock_quantity,omitempty" db:"stock_quantity"`
	MasterRecipeID *int64   `json:"master_recipe_id,omitempty" db:"master_recipe_id"`
	OutputWeight   *float64 `json:"output_weight,omitempty" db:"output_weight"`

	CalculatedStock *float64                   `json:"calculated_stock,omitempty"`
	Ingredients     []ProductVariantIngredient `json:"ingredients,omitempty"`
	Consumables     []ProductVariantConsumable `json:"consumables,omitempty"`
}

// ProductIngredient is direct (non-recipe) ingredient consumption attached to
// a product, always applied in addition to any recipe.
type ProductIngredient struct {
	ID             int64   `json:"id" db:"id"`
	ProductID      int64   `json:"product_id" db:"product_id"`
	IngredientID   int64   `json:"ingredient_id" db:"ingredient_id" binding:"required"`
	Quantity       float64 `json:"quantity" db:"quantity"`
	IngredientName *string `json:"ingredient_name,omitempty"`
}

// ProductConsumable is direct consumable usage attached to a product.
type ProductConsumable struct {
	ID             int64   `json:"id" db:"id"`
	ProductID      int64   `json:"product_id" db:"product_id"`
	ConsumableID   int64   `json:"consumable_id" db:"consumable_id" binding:"required"`
	Quantity       float64 `json:"quantity" db:"quantity"`
	ConsumableName *string `json:"consumable_name,omitempty"`
}

// ProductVariantIngredient is direct ingredient consumption attached to a variant.
type ProductVariantIngredient struct {
	ID             int64   `json:"id" db:"id"`
	VariantID      int64   `json:"variant_id" db:"variant_id"`
	IngredientID   int64   `json:"ingredient_id" db:"ingredient_id" binding:"required"`
	Quantity       float64 `json:"quantity" db:"quantity"`
	IngredientName *string `json:"ingredient_name,omitempty"`
}

// ProductVariantConsumable is direct consumable usage attached to a variant.
type ProductVariantConsumable struct {
	ID             int64   `json:"id" db:"id"`
	VariantID      int64   `json:"variant_id" db:"variant_id"`
	ConsumableID   int64   `json:"consumable_id" db:"consumable_id" binding:"required"`
	Quantity       float64 `json:"quantity" db:"quantity"`
	ConsumableName *string `json:"consumable_name,omitempty"`
}

// ModifierGroup bundles selectable add-ons for a product ("Milk options").
type ModifierGroup struct {
	ID         int64      `json:"id" db:"id"`
	ProductID  int64      `json:"product_id" db:"product_id"`
	Name       string     `json:"name" db:"name" binding:"required"`
	IsRequired bool       `json:"is_required" db:"is_required"`
	Modifiers  []Modifier `json:"modifiers"`
}

// Modifier is an add-on selectable per cart line. It changes the unit price
// and may consume a single ingredient per unit sold.
type Modifier struct {
	ID           int64   `json:"id" db:"id"`
	GroupID      int64   `json:"group_id" db:"group_id"`
	Name         string  `json:"name" db:"name" binding:"required"`
	PriceChange  float64 `json:"price_change" db:"price_change"`
	IngredientID *int64  `json:"ingredient_id,omitempty" db:"ingredient_id"`
	Quantity     float64 `json:"quantity" db:"quantity"`
}
