package services

import (
	"testing"
	"time"

	"pos_backend/internal/models"
	"pos_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCheckoutForTest(t *testing.T, cfg CheckoutConfig) (CheckoutService, *testDB) {
	tdb := newTestDB(t)
	productRepo := repositories.NewProductRepository(tdb.db)
	stockRepo := repositories.NewStockRepository(tdb.db)
	txnRepo := repositories.NewTransactionRepository(tdb.db)
	ledger := NewStockLedger(productRepo, stockRepo, txnRepo)
	svc := NewCheckoutService(
		repositories.NewOrderRepository(tdb.db),
		productRepo,
		repositories.NewRecipeRepository(tdb.db),
		stockRepo,
		ledger,
		tdb.db,
		cfg,
	)
	return svc, tdb
}

func productColumns() []string {
	return []string{"id", "name", "description", "price", "category_id", "has_variants", "track_stock",
		"stock_quantity", "master_recipe_id", "output_weight", "created_at", "updated_at"}
}

func ingredientColumns() []string {
	return []string{"id", "name", "unit_id", "cost_per_unit", "stock_quantity", "created_at", "updated_at"}
}

func emptyLinkRows(cols ...string) *sqlmock.Rows {
	return sqlmock.NewRows(cols)
}

// Selling two recipe-backed cappuccinos: the order totals 140, milk drops from
// 5000 to 4400 and a single ledger row records the 600 taken by the recipe.
func TestCheckout_RecipeBackedProduct(t *testing.T) {
	svc, tdb := newCheckoutForTest(t, CheckoutConfig{})
	defer tdb.close()

	now := time.Now()
	recipeID := int64(5)

	tdb.mock.ExpectBegin()
	tdb.mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(sqlmock.AnyArg(), 0.0, "cash", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	tdb.mock.ExpectQuery(`SELECT (.+) FROM products WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(productColumns()).
			AddRow(int64(1), "Cappuccino", nil, 70.0, nil, false, false, nil, recipeID, nil, now, now))
	tdb.mock.ExpectQuery(`FROM master_recipe_items`).
		WithArgs(recipeID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "recipe_id", "ingredient_id", "quantity", "is_percentage", "name"}).
			AddRow(int64(1), recipeID, int64(11), 300.0, false, "Milk"))
	tdb.mock.ExpectQuery(`FROM product_ingredients`).
		WithArgs(int64(1)).
		WillReturnRows(emptyLinkRows("id", "product_id", "ingredient_id", "quantity", "name"))
	tdb.mock.ExpectQuery(`FROM product_consumables`).
		WithArgs(int64(1)).
		WillReturnRows(emptyLinkRows("id", "product_id", "consumable_id", "quantity", "name"))
	tdb.mock.ExpectQuery(`SELECT (.+) FROM ingredients WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(ingredientColumns()).
			AddRow(int64(11), "Milk", nil, 0.0, 5000.0, now, now))
	tdb.mock.ExpectQuery(`UPDATE ingredients`).
		WithArgs(-600.0, sqlmock.AnyArg(), int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(4400.0))
	tdb.mock.ExpectQuery(`INSERT INTO inventory_transactions`).
		WithArgs(models.EntityTypeIngredient, int64(11), "Milk", -600.0, 4400.0, "sale_order_7:line_1:recipe", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	tdb.mock.ExpectQuery(`INSERT INTO order_items`).
		WithArgs(int64(7), "Cappuccino", 2, 70.0, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	tdb.mock.ExpectExec(`UPDATE orders SET total_price`).
		WithArgs(140.0, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	tdb.mock.ExpectCommit()

	result, err := svc.Checkout(CheckoutRequest{
		Items:         []CheckoutItemRequest{{ProductID: 1, Quantity: 2}},
		PaymentMethod: "cash",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), result.OrderID)
	assert.Equal(t, 140.0, result.TotalPrice)
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}

func TestCheckout_MissingProductRollsBack(t *testing.T) {
	svc, tdb := newCheckoutForTest(t, CheckoutConfig{})
	defer tdb.close()

	tdb.mock.ExpectBegin()
	tdb.mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(sqlmock.AnyArg(), 0.0, "card", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(8)))
	tdb.mock.ExpectQuery(`SELECT (.+) FROM products WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(productColumns()))
	tdb.mock.ExpectRollback()

	_, err := svc.Checkout(CheckoutRequest{
		Items:         []CheckoutItemRequest{{ProductID: 99, Quantity: 1}},
		PaymentMethod: "card",
	})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}

func TestCheckout_InsufficientStockRejectedByPolicy(t *testing.T) {
	svc, tdb := newCheckoutForTest(t, CheckoutConfig{RejectOnInsufficientStock: true})
	defer tdb.close()

	now := time.Now()
	stock := 1.0

	tdb.mock.ExpectBegin()
	tdb.mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(sqlmock.AnyArg(), 0.0, "cash", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))
	tdb.mock.ExpectQuery(`SELECT (.+) FROM products WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(productColumns()).
			AddRow(int64(2), "Bottled Water", nil, 15.0, nil, false, true, stock, nil, nil, now, now))
	tdb.mock.ExpectRollback()

	_, err := svc.Checkout(CheckoutRequest{
		Items:         []CheckoutItemRequest{{ProductID: 2, Quantity: 2}},
		PaymentMethod: "cash",
	})

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}

// With the policy off, a tracked item sells below zero and the ledger simply
// records the negative balance.
func TestCheckout_NegativeStockAllowedByDefault(t *testing.T) {
	svc, tdb := newCheckoutForTest(t, CheckoutConfig{})
	defer tdb.close()

	now := time.Now()
	stock := 1.0

	tdb.mock.ExpectBegin()
	tdb.mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(sqlmock.AnyArg(), 0.0, "cash", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))
	tdb.mock.ExpectQuery(`SELECT (.+) FROM products WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(productColumns()).
			AddRow(int64(2), "Bottled Water", nil, 15.0, nil, false, true, stock, nil, nil, now, now))
	tdb.mock.ExpectQuery(`UPDATE products`).
		WithArgs(-2.0, sqlmock.AnyArg(), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(-1.0))
	tdb.mock.ExpectQuery(`INSERT INTO inventory_transactions`).
		WithArgs(models.EntityTypeProduct, int64(2), "Bottled Water", -2.0, -1.0, "sale_order_10:line_1:item", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))
	tdb.mock.ExpectQuery(`FROM product_ingredients`).
		WithArgs(int64(2)).
		WillReturnRows(emptyLinkRows("id", "product_id", "ingredient_id", "quantity", "name"))
	tdb.mock.ExpectQuery(`FROM product_consumables`).
		WithArgs(int64(2)).
		WillReturnRows(emptyLinkRows("id", "product_id", "consumable_id", "quantity", "name"))
	tdb.mock.ExpectQuery(`INSERT INTO order_items`).
		WithArgs(int64(10), "Bottled Water", 2, 15.0, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))
	tdb.mock.ExpectExec(`UPDATE orders SET total_price`).
		WithArgs(30.0, int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	tdb.mock.ExpectCommit()

	result, err := svc.Checkout(CheckoutRequest{
		Items:         []CheckoutItemRequest{{ProductID: 2, Quantity: 2}},
		PaymentMethod: "cash",
	})

	require.NoError(t, err)
	assert.Equal(t, 30.0, result.TotalPrice)
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}

func TestCheckout_VariantPricingAndOwnership(t *testing.T) {
	svc, tdb := newCheckoutForTest(t, CheckoutConfig{})
	defer tdb.close()

	now := time.Now()

	tdb.mock.ExpectBegin()
	tdb.mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(sqlmock.AnyArg(), 0.0, "card", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	tdb.mock.ExpectQuery(`SELECT (.+) FROM products WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(productColumns()).
			AddRow(int64(3), "Latte", nil, 80.0, nil, true, false, nil, nil, nil, now, now))
	// Variant belongs to a different product: the checkout must refuse it.
	tdb.mock.ExpectQuery(`SELECT (.+) FROM product_variants WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(44)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "name", "price", "sku", "stock_quantity", "master_recipe_id", "output_weight"}).
			AddRow(int64(44), int64(999), "Large", 95.0, nil, nil, nil, nil))
	tdb.mock.ExpectRollback()

	variantID := int64(44)
	_, err := svc.Checkout(CheckoutRequest{
		Items:         []CheckoutItemRequest{{ProductID: 3, VariantID: &variantID, Quantity: 1}},
		PaymentMethod: "card",
	})

	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}

// A deadlock on the row lock aborts the first attempt and the whole
// transaction is retried; the second attempt settles normally.
func TestCheckout_RetriesAfterDeadlock(t *testing.T) {
	svc, tdb := newCheckoutForTest(t, CheckoutConfig{MaxAttempts: 3})
	defer tdb.close()

	now := time.Now()
	stock := 10.0

	tdb.mock.ExpectBegin()
	tdb.mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(sqlmock.AnyArg(), 0.0, "cash", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(12)))
	tdb.mock.ExpectQuery(`SELECT (.+) FROM products WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(2)).
		WillReturnError(&pq.Error{Code: "40P01"})
	tdb.mock.ExpectRollback()

	tdb.mock.ExpectBegin()
	tdb.mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(sqlmock.AnyArg(), 0.0, "cash", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(13)))
	tdb.mock.ExpectQuery(`SELECT (.+) FROM products WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(productColumns()).
			AddRow(int64(2), "Bottled Water", nil, 15.0, nil, false, true, stock, nil, nil, now, now))
	tdb.mock.ExpectQuery(`UPDATE products`).
		WithArgs(-1.0, sqlmock.AnyArg(), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(9.0))
	tdb.mock.ExpectQuery(`INSERT INTO inventory_transactions`).
		WithArgs(models.EntityTypeProduct, int64(2), "Bottled Water", -1.0, 9.0, "sale_order_13:line_1:item", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
	tdb.mock.ExpectQuery(`FROM product_ingredients`).
		WithArgs(int64(2)).
		WillReturnRows(emptyLinkRows("id", "product_id", "ingredient_id", "quantity", "name"))
	tdb.mock.ExpectQuery(`FROM product_consumables`).
		WithArgs(int64(2)).
		WillReturnRows(emptyLinkRows("id", "product_id", "consumable_id", "quantity", "name"))
	tdb.mock.ExpectQuery(`INSERT INTO order_items`).
		WithArgs(int64(13), "Bottled Water", 1, 15.0, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	tdb.mock.ExpectExec(`UPDATE orders SET total_price`).
		WithArgs(15.0, int64(13)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	tdb.mock.ExpectCommit()

	result, err := svc.Checkout(CheckoutRequest{
		Items:         []CheckoutItemRequest{{ProductID: 2, Quantity: 1}},
		PaymentMethod: "cash",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(13), result.OrderID)
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}

// When every attempt deadlocks the caller gets the failure, and the deadlock
// code stays visible through the wrapping.
func TestCheckout_DeadlockExhaustsAttempts(t *testing.T) {
	svc, tdb := newCheckoutForTest(t, CheckoutConfig{MaxAttempts: 2})
	defer tdb.close()

	for _, orderID := range []int64{14, 15} {
		tdb.mock.ExpectBegin()
		tdb.mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs(sqlmock.AnyArg(), 0.0, "cash", nil).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(orderID))
		tdb.mock.ExpectQuery(`SELECT (.+) FROM products WHERE id = \$1 FOR UPDATE`).
			WithArgs(int64(2)).
			WillReturnError(&pq.Error{Code: "40P01"})
		tdb.mock.ExpectRollback()
	}

	_, err := svc.Checkout(CheckoutRequest{
		Items:         []CheckoutItemRequest{{ProductID: 2, Quantity: 1}},
		PaymentMethod: "cash",
	})

	assert.ErrorIs(t, err, ErrCheckoutFailed)
	assert.True(t, repositories.IsRetryableTxError(err))
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}

func TestCheckout_ValidatesRequest(t *testing.T) {
	svc, tdb := newCheckoutForTest(t, CheckoutConfig{})
	defer tdb.close()

	_, err := svc.Checkout(CheckoutRequest{PaymentMethod: "cash"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Checkout(CheckoutRequest{
		Items: []CheckoutItemRequest{{ProductID: 1, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Checkout(CheckoutRequest{
		Items:         []CheckoutItemRequest{{ProductID: 1, Quantity: 0}},
		PaymentMethod: "cash",
	})
	assert.ErrorIs(t, err, ErrValidation)
}
