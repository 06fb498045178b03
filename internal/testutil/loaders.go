package testutil

import (
	"context"
	"sync/atomic"

	"github.com/preston-bernstein/nhl-dashboard/internal/app/dashboard"
	"github.com/preston-bernstein/nhl-dashboard/internal/domain/seasons"
	"github.com/preston-bernstein/nhl-dashboard/internal/store"
)

// StubLoader returns Table or Err and counts calls.
type StubLoader struct {
	Table *seasons.Table
	Err   error
	calls atomic.Int32
}

func (l *StubLoader) Load(ctx context.Context) (*seasons.Table, error) {
	_ = ctx
	l.calls.Add(1)
	return l.Table, l.Err
}

func (l *StubLoader) Name() string { return "stub" }

// Calls returns how many times Load ran.
func (l *StubLoader) Calls() int { return int(l.calls.Load()) }

// NewLoadedCache returns a cache that already holds table.
func NewLoadedCache(table *seasons.Table) *store.TableCache {
	return store.NewLoadedTableCache(table)
}

// NewFailedCache returns a cache whose load failed with err.
func NewFailedCache(err error) *store.TableCache {
	c := store.NewTableCache()
	c.Load(context.Background(), &StubLoader{Err: err})
	return c
}

// NewDashboardService builds a dashboard service over the sample table.
func NewDashboardService() *dashboard.Service {
	return dashboard.NewService(NewLoadedCache(SampleTable()))
}
