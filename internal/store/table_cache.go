package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/preston-bernstein/nhl-dashboard/internal/domain/seasons"
)

// ErrNotLoaded is returned by Table before Load has completed.
var ErrNotLoaded = errors.New("season table not loaded")

// Loader produces the season table. source.CSVLoader and source.SQLLoader satisfy it.
type Loader interface {
	Load(ctx context.Context) (*seasons.Table, error)
	Name() string
}

// LoadResult summarises the single load attempt.
type LoadResult struct {
	Source   string
	Rows     int
	Duration time.Duration
	Err      error
}

// TableCache holds the season table for the life of the process. The table is loaded
// at most once; later Load calls return the first outcome, success or failure.
type TableCache struct {
	once   sync.Once
	mu     sync.RWMutex
	table  *seasons.Table
	result LoadResult
	loaded bool
}

// NewTableCache constructs an empty cache.
func NewTableCache() *TableCache {
	return &TableCache{}
}

// NewLoadedTableCache wraps an already loaded table.
func NewLoadedTableCache(table *seasons.Table) *TableCache {
	c := &TableCache{}
	c.once.Do(func() {
		c.set(table, LoadResult{Source: "static", Rows: table.Len()})
	})
	return c
}

// Load runs loader the first time it is called and caches the outcome.
func (c *TableCache) Load(ctx context.Context, loader Loader) LoadResult {
	c.once.Do(func() {
		start := time.Now()
		table, err := loader.Load(ctx)
		res := LoadResult{Source: loader.Name(), Duration: time.Since(start), Err: err}
		if err == nil {
			res.Rows = table.Len()
		}
		c.set(table, res)
	})
	return c.Result()
}

func (c *TableCache) set(table *seasons.Table, res LoadResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if res.Err == nil {
		c.table = table
	}
	c.result = res
	c.loaded = true
}

// Table returns the cached table, the load error, or ErrNotLoaded.
func (c *TableCache) Table() (*seasons.Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.loaded {
		return nil, ErrNotLoaded
	}
	if c.result.Err != nil {
		return nil, c.result.Err
	}
	return c.table, nil
}

// Result returns the outcome of the load attempt.
func (c *TableCache) Result() LoadResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.result
}

// Ready reports whether a table loaded successfully.
func (c *TableCache) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded && c.result.Err == nil
}
