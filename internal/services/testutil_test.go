package services

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

type testDB struct {
	db   *sql.DB
	mock sqlmock.Sqlmock
}

func newTestDB(t *testing.T) *testDB {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return &testDB{db: db, mock: mock}
}

func (tdb *testDB) close() {
	tdb.db.Close()
}
