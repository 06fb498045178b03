package source

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/preston-bernstein/nhl-dashboard/internal/domain/seasons"
)

//go:embed migrations/postgres/*.sql
var postgresMigrations embed.FS

//go:embed schema_sqlite.sql
var sqliteSchema string

const (
	deleteSeasonRecords = `DELETE FROM season_records`
	insertSeasonRecord  = `INSERT INTO season_records (name, year, wins, losses, win_pct, goals_for, goals_against)
VALUES (:name, :year, :wins, :losses, :win_pct, :goals_for, :goals_against)`
)

// migrateUp is swapped in tests; golang-migrate needs a live postgres.
var migrateUp = runPostgresMigrations

// EnsureSchema creates the season_records table for the given driver.
// Postgres goes through versioned migrations; sqlite applies the embedded schema directly.
func EnsureSchema(ctx context.Context, db *sqlx.DB, driver string) error {
	switch driver {
	case DriverPostgres:
		return migrateUp(db)
	case DriverSQLite:
		if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
			return fmt.Errorf("apply sqlite schema: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported driver %q", driver)
	}
}

func runPostgresMigrations(db *sqlx.DB) error {
	src, err := iofs.New(postgresMigrations, "migrations/postgres")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	drv, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("init migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, DriverPostgres, drv)
	if err != nil {
		return fmt.Errorf("init migrator: %w", err)
	}
	// m.Close is skipped: it would close the shared *sql.DB.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Import writes every record of table into season_records inside one transaction,
// optionally clearing existing rows first. It returns the number of rows written.
func Import(ctx context.Context, db *sqlx.DB, table *seasons.Table, replace bool) (int, error) {
	records := table.Records()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if replace {
		if _, err := tx.ExecContext(ctx, deleteSeasonRecords); err != nil {
			return 0, fmt.Errorf("clear season records: %w", err)
		}
	}
	for i, rec := range records {
		if _, err := tx.NamedExecContext(ctx, insertSeasonRecord, rec); err != nil {
			return 0, fmt.Errorf("insert row %d (%s %d): %w", i+1, rec.Name, rec.Year, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return len(records), nil
}
