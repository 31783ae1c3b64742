package services

import (
	"testing"

	"pos_backend/internal/models"
	"pos_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedgerForTest(t *testing.T) (*StockLedger, *testDB) {
	tdb := newTestDB(t)
	ledger := NewStockLedger(
		repositories.NewProductRepository(tdb.db),
		repositories.NewStockRepository(tdb.db),
		repositories.NewTransactionRepository(tdb.db),
	)
	return ledger, tdb
}

func TestStockLedgerApply_IngredientDeduction(t *testing.T) {
	ledger, tdb := newLedgerForTest(t)
	defer tdb.close()

	tdb.mock.ExpectQuery(`UPDATE ingredients`).
		WithArgs(-600.0, sqlmock.AnyArg(), int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(4400.0))
	tdb.mock.ExpectQuery(`INSERT INTO inventory_transactions`).
		WithArgs(models.EntityTypeIngredient, int64(11), "Milk", -600.0, 4400.0, "sale_order_7:line_1:recipe", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	balance, err := ledger.Apply(tdb.db, models.EntityTypeIngredient, 11, "Milk", -600, SaleReason(7, 0, OriginRecipe))

	require.NoError(t, err)
	assert.Equal(t, 4400.0, balance)
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}

func TestStockLedgerApply_ZeroDeltaCorrectionIsNoOp(t *testing.T) {
	ledger, tdb := newLedgerForTest(t)
	defer tdb.close()

	// No UPDATE, no INSERT.
	balance, err := ledger.Apply(tdb.db, models.EntityTypeIngredient, 11, "Milk", 0, ReasonManualCorrection)

	require.NoError(t, err)
	assert.Equal(t, 0.0, balance)
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}

func TestStockLedgerApply_ZeroDeltaSaleStillLogged(t *testing.T) {
	ledger, tdb := newLedgerForTest(t)
	defer tdb.close()

	tdb.mock.ExpectQuery(`UPDATE ingredients`).
		WithArgs(0.0, sqlmock.AnyArg(), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(80.0))
	tdb.mock.ExpectQuery(`INSERT INTO inventory_transactions`).
		WithArgs(models.EntityTypeIngredient, int64(3), "Syrup", 0.0, 80.0, "sale_order_9:line_2:recipe", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))

	balance, err := ledger.Apply(tdb.db, models.EntityTypeIngredient, 3, "Syrup", 0, SaleReason(9, 1, OriginRecipe))

	require.NoError(t, err)
	assert.Equal(t, 80.0, balance)
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}

func TestStockLedgerApply_VariantDeduction(t *testing.T) {
	ledger, tdb := newLedgerForTest(t)
	defer tdb.close()

	tdb.mock.ExpectQuery(`UPDATE product_variants`).
		WithArgs(-2.0, int64(33)).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(8.0))
	tdb.mock.ExpectQuery(`INSERT INTO inventory_transactions`).
		WithArgs(models.EntityTypeVariant, int64(33), "Cola (0.5L)", -2.0, 8.0, "sale_order_4:line_1:item", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	balance, err := ledger.Apply(tdb.db, models.EntityTypeVariant, 33, "Cola (0.5L)", -2, SaleReason(4, 0, OriginItem))

	require.NoError(t, err)
	assert.Equal(t, 8.0, balance)
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}

func TestStockLedgerApply_UnknownEntityType(t *testing.T) {
	ledger, tdb := newLedgerForTest(t)
	defer tdb.close()

	_, err := ledger.Apply(tdb.db, "gadget", 1, "Gadget", -1, ReasonManualCorrection)

	assert.ErrorIs(t, err, ErrValidation)
}
