package models

import "time"

// Stock-bearing entity kinds recorded in the ledger.
const (
	EntityTypeProduct    = "product"
	EntityTypeVariant    = "variant"
	EntityTypeIngredient = "ingredient"
	EntityTypeConsumable = "consumable"
)

// IsValidEntityType reports whether t names a stock-bearing entity kind.
func IsValidEntityType(t string) bool {
	switch t {
	case EntityTypeProduct, EntityTypeVariant, EntityTypeIngredient, EntityTypeConsumable:
		return true
	default:
		return false
	}
}

// InventoryTransaction is one append-only ledger row. The invariant is that
// BalanceAfter of the most recent row for an entity equals that entity's
// current stock_quantity; corrections are new rows, never edits.
type InventoryTransaction struct {
	ID           int64     `json:"id" db:"id"`
	EntityType   string    `json:"entity_type" db:"entity_type"`
	EntityID     int64     `json:"entity_id" db:"entity_id"`
	EntityName   string    `json:"entity_name" db:"entity_name"`
	ChangeAmount float64   `json:"change_amount" db:"change_amount"`
	BalanceAfter float64   `json:"balance_after" db:"balance_after"`
	Reason       string    `json:"reason" db:"reason"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// TransactionFilters defines the available filters for the stock history query.
type TransactionFilters struct {
	EntityType *string `form:"entity_type"`
	EntityID   *int64  `form:"entity_id"`
	Page       int     `form:"page"`
	PageSize   int     `form:"page_size"`
}
