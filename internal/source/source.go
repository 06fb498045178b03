// Package source loads the season table from its configured backing store.
package source

import (
	"context"

	"github.com/preston-bernstein/nhl-dashboard/internal/domain/seasons"
)

// Loader reads the full season table once.
type Loader interface {
	Load(ctx context.Context) (*seasons.Table, error)
	Name() string
}
