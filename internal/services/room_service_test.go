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

func newRoomForTest(t *testing.T) (RoomService, *testDB) {
	tdb := newTestDB(t)
	roomRepo := repositories.NewRoomRepository(tdb.db)
	productRepo := repositories.NewProductRepository(tdb.db)
	return NewRoomService(roomRepo, productRepo, tdb.db), tdb
}

// expectProductRead queues the product row plus the child loads that every
// product read performs.
func expectProductRead(tdb *testDB, id int64, hasVariants bool, roomID interface{}) {
	now := time.Now()
	tdb.mock.ExpectQuery(`FROM products p\s+WHERE p.id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(append(productColumns()[:10], "room_id", "created_at", "updated_at")).
			AddRow(id, "Drip Coffee", nil, 55.0, nil, hasVariants, false, nil, nil, nil, roomID, now, now))
	tdb.mock.ExpectQuery(`FROM product_ingredients`).
		WithArgs(id).
		WillReturnRows(emptyLinkRows("id", "product_id", "ingredient_id", "quantity", "name"))
	tdb.mock.ExpectQuery(`FROM product_consumables`).
		WithArgs(id).
		WillReturnRows(emptyLinkRows("id", "product_id", "consumable_id", "quantity", "name"))
	tdb.mock.ExpectQuery(`FROM product_variants WHERE product_id = \$1`).
		WithArgs(id).
		WillReturnRows(emptyLinkRows("id", "product_id", "name", "price", "sku", "stock_quantity", "master_recipe_id", "output_weight"))
	tdb.mock.ExpectQuery(`FROM process_groups pg`).
		WithArgs(id).
		WillReturnRows(emptyLinkRows("id", "name"))
	tdb.mock.ExpectQuery(`FROM modifier_groups WHERE product_id = \$1`).
		WithArgs(id).
		WillReturnRows(emptyLinkRows("id", "product_id", "name", "is_required"))
}

func TestAssignProduct_PinsSimpleProduct(t *testing.T) {
	svc, tdb := newRoomForTest(t)
	defer tdb.close()

	tdb.mock.ExpectQuery(`SELECT id, name FROM product_rooms WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "Terrace"))
	expectProductRead(tdb, 7, false, nil)
	tdb.mock.ExpectExec(`UPDATE products SET room_id = \$1 WHERE id = \$2`).
		WithArgs(int64(1), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.AssignProduct(1, 7)

	require.NoError(t, err)
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}

func TestAssignProduct_RejectsVariantParent(t *testing.T) {
	svc, tdb := newRoomForTest(t)
	defer tdb.close()

	tdb.mock.ExpectQuery(`SELECT id, name FROM product_rooms WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "Terrace"))
	expectProductRead(tdb, 7, true, nil)

	err := svc.AssignProduct(1, 7)

	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}

func TestAssignProduct_RejectsProductInAnotherRoom(t *testing.T) {
	svc, tdb := newRoomForTest(t)
	defer tdb.close()

	tdb.mock.ExpectQuery(`SELECT id, name FROM product_rooms WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "Terrace"))
	expectProductRead(tdb, 7, false, int64(2))

	err := svc.AssignProduct(1, 7)

	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}

// Deleting a room releases its products instead of taking them down with it.
func TestDeleteRoom_DetachesProducts(t *testing.T) {
	svc, tdb := newRoomForTest(t)
	defer tdb.close()

	tdb.mock.ExpectBegin()
	tdb.mock.ExpectExec(`UPDATE products SET room_id = NULL WHERE room_id = \$1`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 4))
	tdb.mock.ExpectExec(`DELETE FROM product_rooms WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	tdb.mock.ExpectCommit()

	err := svc.DeleteRoom(3)

	require.NoError(t, err)
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}

func TestCreateRoom_DuplicateName(t *testing.T) {
	svc, tdb := newRoomForTest(t)
	defer tdb.close()

	tdb.mock.ExpectQuery(`INSERT INTO product_rooms`).
		WithArgs("Terrace").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := svc.CreateRoom(&models.ProductRoom{Name: "Terrace"})

	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}

func TestDetachProduct_NotInRoom(t *testing.T) {
	svc, tdb := newRoomForTest(t)
	defer tdb.close()

	tdb.mock.ExpectExec(`UPDATE products SET room_id = NULL WHERE id = \$1 AND room_id = \$2`).
		WithArgs(int64(7), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.DetachProduct(1, 7)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}
