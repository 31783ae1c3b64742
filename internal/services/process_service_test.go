package services

import (
	"testing"

	"pos_backend/internal/models"
	"pos_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProcessForTest(t *testing.T) (ProcessService, *testDB) {
	tdb := newTestDB(t)
	return NewProcessService(repositories.NewProcessRepository(tdb.db), tdb.db), tdb
}

func TestCreateProcessGroup_WithOptions(t *testing.T) {
	svc, tdb := newProcessForTest(t)
	defer tdb.close()

	tdb.mock.ExpectBegin()
	tdb.mock.ExpectQuery(`INSERT INTO process_groups`).
		WithArgs("Grind").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	tdb.mock.ExpectQuery(`INSERT INTO process_options`).
		WithArgs(int64(1), "For cezve").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))
	tdb.mock.ExpectQuery(`INSERT INTO process_options`).
		WithArgs(int64(1), "For espresso").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	tdb.mock.ExpectCommit()

	group, err := svc.CreateProcessGroup(&models.ProcessGroup{
		Name: "Grind",
		Options: []models.ProcessOption{
			{Name: "For cezve"},
			{Name: "For espresso"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), group.ID)
	require.Len(t, group.Options, 2)
	assert.Equal(t, int64(1), group.Options[0].GroupID)
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}

func TestCreateProcessGroup_RequiresName(t *testing.T) {
	svc, tdb := newProcessForTest(t)
	defer tdb.close()

	_, err := svc.CreateProcessGroup(&models.ProcessGroup{})

	assert.ErrorIs(t, err, ErrValidation)
}

// Removing a group takes its product links and options with it.
func TestDeleteProcessGroup_ClearsChildren(t *testing.T) {
	svc, tdb := newProcessForTest(t)
	defer tdb.close()

	tdb.mock.ExpectBegin()
	tdb.mock.ExpectExec(`DELETE FROM product_process_groups WHERE group_id = \$1`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	tdb.mock.ExpectExec(`DELETE FROM process_options WHERE group_id = \$1`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	tdb.mock.ExpectExec(`DELETE FROM process_groups WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	tdb.mock.ExpectCommit()

	err := svc.DeleteProcessGroup(1)

	require.NoError(t, err)
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}

func TestAddProcessOption_MissingGroup(t *testing.T) {
	svc, tdb := newProcessForTest(t)
	defer tdb.close()

	tdb.mock.ExpectQuery(`INSERT INTO process_options`).
		WithArgs(int64(99), "For cezve").
		WillReturnError(&pq.Error{Code: "23503"})

	_, err := svc.AddProcessOption(&models.ProcessOption{GroupID: 99, Name: "For cezve"})

	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, tdb.mock.ExpectationsWereMet())
}
