package dataview

import (
	"errors"
	"fmt"

	"github.com/preston-bernstein/nhl-dashboard/internal/domain/seasons"
)

var (
	// ErrEmptyRows is returned by operations that need at least one row.
	ErrEmptyRows = errors.New("no rows to evaluate")
	// ErrUnknownColumn is returned when a column is not a numeric season column.
	ErrUnknownColumn = errors.New("unknown column")
)

func valueOf(rec seasons.SeasonRecord, column string) (float64, error) {
	v, ok := rec.Value(column)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	return v, nil
}

func checkNumeric(column string) error {
	if !seasons.IsNumeric(column) {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	return nil
}
