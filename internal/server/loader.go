package server

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/preston-bernstein/nhl-dashboard/internal/config"
	"github.com/preston-bernstein/nhl-dashboard/internal/domain/seasons"
	"github.com/preston-bernstein/nhl-dashboard/internal/source"
	"github.com/preston-bernstein/nhl-dashboard/internal/store"
)

// SelectLoader picks the table source named by the configuration.
func SelectLoader(cfg config.Config, logger *slog.Logger) store.Loader {
	switch strings.ToLower(cfg.Source.Kind) {
	case config.SourceCSV, "":
		return source.NewCSVLoader(cfg.Source.Path)
	case config.SourceSQL:
		return newDatabaseLoader(source.SQLOptions{
			Driver:  cfg.Source.Driver,
			DSN:     cfg.Source.DSN,
			Retries: cfg.Source.ConnectRetries,
			Timeout: cfg.Source.ConnectTimeout,
		})
	default:
		if logger != nil {
			logger.Warn("unknown data source, falling back to csv", slog.String("source", cfg.Source.Kind))
		}
		return source.NewCSVLoader(cfg.Source.Path)
	}
}

// databaseLoader opens the database on first Load and keeps it until Close.
type databaseLoader struct {
	opts source.SQLOptions

	mu sync.Mutex
	db *sqlx.DB
}

func newDatabaseLoader(opts source.SQLOptions) *databaseLoader {
	return &databaseLoader{opts: opts}
}

func (l *databaseLoader) Name() string { return config.SourceSQL }

func (l *databaseLoader) Load(ctx context.Context) (*seasons.Table, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.db == nil {
		db, err := source.OpenSQL(ctx, l.opts)
		if err != nil {
			return nil, err
		}
		l.db = db
	}
	return source.NewSQLLoader(l.db).Load(ctx)
}

// Close releases the database handle, if one was opened.
func (l *databaseLoader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}
