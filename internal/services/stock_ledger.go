package services

import (
	"fmt"
	"strings"

	"pos_backend/internal/models"
	"pos_backend/internal/repositories"
)

// Ledger reason tags.
const (
	ReasonManualCorrection = "manual_correction"
	saleReasonPrefix       = "sale_order_"
)

// SaleReason builds the ledger reason for one contributing source of one cart
// line, e.g. "sale_order_12:line_1:recipe" or "sale_order_12:line_2:modifier_7".
func SaleReason(orderID int64, lineIndex int, origin string) string {
	return fmt.Sprintf("%s%d:line_%d:%s", saleReasonPrefix, orderID, lineIndex+1, origin)
}

// IsSaleReason reports whether reason tags a sale-driven deduction.
func IsSaleReason(reason string) bool {
	return strings.HasPrefix(reason, saleReasonPrefix)
}

// StockLedger is the only component allowed to mutate stock_quantity fields.
// Every change it applies is paired with exactly one appended
// InventoryTransaction inside the caller's transaction, so balance_after of
// the newest ledger row always equals the entity's current stock.
type StockLedger struct {
	productRepo repositories.ProductRepository
	stockRepo   repositories.StockRepository
	txnRepo     repositories.TransactionRepository
}

// NewStockLedger creates a StockLedger over the given repositories.
func NewStockLedger(
	pr repositories.ProductRepository,
	sr repositories.StockRepository,
	tr repositories.TransactionRepository,
) *StockLedger {
	return &StockLedger{productRepo: pr, stockRepo: sr, txnRepo: tr}
}

// Apply adjusts the entity's stock by delta (negative for sales) and appends
// the matching ledger row. A zero delta writes nothing for corrections, but a
// sale reason is always logged so an auditor can trace every line of every
// order to its ledger effect. Returns the balance after the change.
func (l *StockLedger) Apply(executor repositories.SQLExecutor, entityType string, entityID int64, entityName string, delta float64, reason string) (float64, error) {
	if delta == 0 && !IsSaleReason(reason) {
		return 0, nil
	}

	var newBalance float64
	var err error
	switch entityType {
	case models.EntityTypeProduct:
		newBalance, err = l.productRepo.AdjustProductStock(executor, entityID, delta)
	case models.EntityTypeVariant:
		newBalance, err = l.productRepo.AdjustVariantStock(executor, entityID, delta)
	case models.EntityTypeIngredient:
		newBalance, err = l.stockRepo.AdjustIngredientStock(executor, entityID, delta)
	case models.EntityTypeConsumable:
		newBalance, err = l.stockRepo.AdjustConsumableStock(executor, entityID, delta)
	default:
		return 0, fmt.Errorf("%w: unknown entity type %q", ErrValidation, entityType)
	}
	if err != nil {
		return 0, fmt.Errorf("adjusting stock of %s %d: %w", entityType, entityID, err)
	}

	txn := &models.InventoryTransaction{
		EntityType:   entityType,
		EntityID:     entityID,
		EntityName:   entityName,
		ChangeAmount: delta,
		BalanceAfter: newBalance,
		Reason:       reason,
	}
	if _, err := l.txnRepo.CreateTransaction(executor, txn); err != nil {
		return 0, fmt.Errorf("recording ledger row for %s %d: %w", entityType, entityID, err)
	}
	return newBalance, nil
}
