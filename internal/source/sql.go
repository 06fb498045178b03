package source

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/preston-bernstein/nhl-dashboard/internal/domain/seasons"
)

const (
	nameSQL = "sql"

	// DriverSQLite and DriverPostgres are the database/sql driver names OpenSQL accepts.
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	seasonTable = "season_records"

	selectSeasonRecords = `SELECT name, year, wins, losses, win_pct, goals_for, goals_against FROM season_records ORDER BY id`

	defaultConnectTimeout = 5 * time.Second
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// retryBackOff builds the policy used between connection attempts; tests swap it out.
var retryBackOff = func() backoff.BackOff {
	return backoff.NewExponentialBackOff()
}

// SQLOptions configures how the SQL database is opened.
type SQLOptions struct {
	Driver  string
	DSN     string
	Retries int
	Timeout time.Duration
}

// OpenSQL opens the database and pings it, retrying with exponential backoff.
// A database that never answers is reported as a *LoadError.
func OpenSQL(ctx context.Context, opts SQLOptions) (*sqlx.DB, error) {
	if opts.Driver != DriverSQLite && opts.Driver != DriverPostgres {
		return nil, &LoadError{Source: nameSQL, Location: opts.Driver, Err: fmt.Errorf("unsupported driver %q", opts.Driver)}
	}
	db, err := sqlx.Open(opts.Driver, opts.DSN)
	if err != nil {
		return nil, &LoadError{Source: nameSQL, Location: opts.Driver, Err: err}
	}
	if opts.Driver == DriverSQLite {
		// One connection keeps in-memory databases shared and avoids SQLITE_BUSY on writes.
		db.SetMaxOpenConns(1)
	}
	if err := pingWithRetry(ctx, db, opts.Retries, opts.Timeout); err != nil {
		_ = db.Close()
		return nil, &LoadError{Source: nameSQL, Location: opts.Driver, Err: fmt.Errorf("ping database: %w", err)}
	}
	return db, nil
}

func pingWithRetry(ctx context.Context, db *sqlx.DB, retries int, timeout time.Duration) error {
	if retries < 0 {
		retries = 0
	}
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(retryBackOff(), uint64(retries)), ctx)
	return backoff.Retry(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return db.PingContext(pingCtx)
	}, policy)
}

// SQLLoader reads the season table from the season_records table.
type SQLLoader struct {
	db *sqlx.DB
}

// NewSQLLoader constructs a loader over an open database.
func NewSQLLoader(db *sqlx.DB) *SQLLoader {
	return &SQLLoader{db: db}
}

// Name identifies the loader in logs and metrics.
func (l *SQLLoader) Name() string { return nameSQL }

// Load selects every season record in insertion order.
func (l *SQLLoader) Load(ctx context.Context) (*seasons.Table, error) {
	if l == nil || l.db == nil {
		return nil, &LoadError{Source: nameSQL, Location: seasonTable, Err: fmt.Errorf("database not configured")}
	}
	var records []seasons.SeasonRecord
	if err := l.db.SelectContext(ctx, &records, selectSeasonRecords); err != nil {
		return nil, &LoadError{Source: nameSQL, Location: seasonTable, Err: err}
	}
	return seasons.NewTable(seasons.Columns, records), nil
}
