package source

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/nhl-dashboard/internal/domain/seasons"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(mockDB, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestImportInsertsEveryRowInOneTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	table := seasons.NewTable(seasons.Columns, []seasons.SeasonRecord{
		{Name: "A", Year: 2000, Wins: 1, Losses: 2, WinPct: 0.33, GoalsFor: 10, GoalsAgainst: 12},
		{Name: "B", Year: 2000, Wins: 2, Losses: 1, WinPct: 0.66, GoalsFor: 12, GoalsAgainst: 10},
	})

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM season_records`).WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(`INSERT INTO season_records`).
		WithArgs("A", 2000, 1.0, 2.0, 0.33, 10.0, 12.0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO season_records`).
		WithArgs("B", 2000, 2.0, 1.0, 0.66, 12.0, 10.0).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	n, err := Import(context.Background(), db, table, true)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportRollsBackOnInsertFailure(t *testing.T) {
	db, mock := newMockDB(t)
	table := seasons.NewTable(seasons.Columns, []seasons.SeasonRecord{{Name: "A", Year: 2000}})

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO season_records`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := Import(context.Background(), db, table, false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert row 1 (A 2000)")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchemaSQLite(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS season_records`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, EnsureSchema(context.Background(), db, DriverSQLite))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchemaPostgresRunsMigrations(t *testing.T) {
	db, _ := newMockDB(t)
	called := false
	restore := migrateUp
	migrateUp = func(*sqlx.DB) error {
		called = true
		return nil
	}
	defer func() { migrateUp = restore }()

	require.NoError(t, EnsureSchema(context.Background(), db, DriverPostgres))
	assert.True(t, called)
}

func TestEnsureSchemaUnknownDriver(t *testing.T) {
	db, _ := newMockDB(t)
	assert.Error(t, EnsureSchema(context.Background(), db, "mysql"))
}

func TestPostgresMigrationsAreEmbedded(t *testing.T) {
	entries, err := postgresMigrations.ReadDir("migrations/postgres")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
