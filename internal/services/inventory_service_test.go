package services

import (
	"testing"
	"time"

	"pos_backend/internal/models"
	"pos_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInventoryForTest(t *testing.T) (InventoryService, *testDB) {
	tdb := newTestDB(t)
	productRepo := repositories.NewProductRepository(tdb.db)
	stockRepo := repositories.NewStockRepository(tdb.db)
	txnRepo := repositories.NewTransactionRepository(tdb.db)
	ledger := NewStockLedger(productRepo, stockRepo, txnRepo)
	return NewInventoryService(stockRepo, productRepo, txnRepo, ledger, tdb.db), tdb
}

func TestCorrectStock_IngredientDelta(t *testing.T) {
	svc, tdb := newInventoryForTest(t)
	defer tdb.close()

	now := time.Now()

	tdb.mock.ExpectBegin()
	tdb.mock.ExpectQuery(`SELECT (.+) FROM ingredients WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(ingredientColumns()).
			AddRow(int64(5), "Milk", nil, 0.0, 120.0, now, now))
	tdb.mock.ExpectQuery(`UPDATE ingredients`).
		WithArgs(-20.0, sqlmock.AnyArg(), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(100.0))
	tdb.mock.ExpectQuery(`INSERT INTO inventory_transactions`).
		WithArgs(models.EntityTypeIngredient, int64(5), "Milk", -20.0, 100.0, ReasonManualCorrection, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	tdb.mock.ExpectCommit()

	result, err := svc.CorrectStock(StockCorrectionRequest{
		EntityType:  models.EntityTypeIngredient,
		EntityID:    5,
		NewQuantity: 100,
	})

	require.NoError(t, err)
	assert.Equal(t, -20.0, result.ChangeAmount)
	assert.Equal(t, 100.0, result.BalanceAfter)
	assert.Equal(t, "Milk", result.EntityName)
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}

func TestCorrectStock_NoChangeWritesNothing(t *testing.T) {
	svc, tdb := newInventoryForTest(t)
	defer tdb.close()

	now := time.Now()

	tdb.mock.ExpectBegin()
	tdb.mock.ExpectQuery(`SELECT (.+) FROM ingredients WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(ingredientColumns()).
			AddRow(int64(5), "Milk", nil, 0.0, 120.0, now, now))
	tdb.mock.ExpectCommit()

	result, err := svc.CorrectStock(StockCorrectionRequest{
		EntityType:  models.EntityTypeIngredient,
		EntityID:    5,
		NewQuantity: 120,
	})

	require.NoError(t, err)
	assert.Equal(t, 0.0, result.ChangeAmount)
	assert.Equal(t, 120.0, result.BalanceAfter)
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}

func TestCorrectStock_UnknownEntityType(t *testing.T) {
	svc, tdb := newInventoryForTest(t)
	defer tdb.close()

	_, err := svc.CorrectStock(StockCorrectionRequest{EntityType: "gadget", EntityID: 1, NewQuantity: 5})

	assert.ErrorIs(t, err, ErrValidation)
}

func transactionColumns() []string {
	return []string{"id", "entity_type", "entity_id", "entity_name", "change_amount",
		"balance_after", "reason", "created_at", "total_count"}
}

// The stock history is served newest first, filtered by entity, with the
// window's total carried alongside each row.
func TestGetTransactions_FiltersAndOrdering(t *testing.T) {
	svc, tdb := newInventoryForTest(t)
	defer tdb.close()

	now := time.Now()
	entityType := models.EntityTypeIngredient
	entityID := int64(5)

	tdb.mock.ExpectQuery(`FROM inventory_transactions WHERE entity_type = \$1 AND entity_id = \$2 ORDER BY created_at DESC, id DESC LIMIT \$3 OFFSET \$4`).
		WithArgs(entityType, entityID, 50, 0).
		WillReturnRows(sqlmock.NewRows(transactionColumns()).
			AddRow(int64(2), entityType, entityID, "Milk", -20.0, 100.0, ReasonManualCorrection, now, 2).
			AddRow(int64(1), entityType, entityID, "Milk", -600.0, 120.0, "sale_order_7:line_1:recipe", now.Add(-time.Hour), 2))

	txns, total, err := svc.GetTransactions(models.TransactionFilters{
		EntityType: &entityType,
		EntityID:   &entityID,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, txns, 2)
	assert.Equal(t, int64(2), txns[0].ID)
	assert.Equal(t, int64(1), txns[1].ID)
	assert.True(t, txns[0].CreatedAt.After(txns[1].CreatedAt))
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}

// An oversized page_size is clamped before it reaches the query.
func TestGetTransactions_ClampsPageSize(t *testing.T) {
	svc, tdb := newInventoryForTest(t)
	defer tdb.close()

	tdb.mock.ExpectQuery(`FROM inventory_transactions ORDER BY created_at DESC, id DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(200, 0).
		WillReturnRows(sqlmock.NewRows(transactionColumns()))

	_, _, err := svc.GetTransactions(models.TransactionFilters{PageSize: 100000})

	require.NoError(t, err)
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}

func TestGetTransactions_UnknownEntityType(t *testing.T) {
	svc, tdb := newInventoryForTest(t)
	defer tdb.close()

	bad := "gadget"
	_, _, err := svc.GetTransactions(models.TransactionFilters{EntityType: &bad})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCorrectStock_MissingEntity(t *testing.T) {
	svc, tdb := newInventoryForTest(t)
	defer tdb.close()

	tdb.mock.ExpectBegin()
	tdb.mock.ExpectQuery(`SELECT (.+) FROM ingredients WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(ingredientColumns()))
	tdb.mock.ExpectRollback()

	_, err := svc.CorrectStock(StockCorrectionRequest{
		EntityType:  models.EntityTypeIngredient,
		EntityID:    404,
		NewQuantity: 10,
	})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}
