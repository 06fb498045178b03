package dataview

import (
	"math"

	"github.com/preston-bernstein/nhl-dashboard/internal/domain/seasons"
)

// DefaultBins is the bin count used by Histogram when bins is not positive.
const DefaultBins = 20

// Bin is one equal-width histogram bucket. Lower is inclusive; Upper is exclusive
// except for the last bin.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram buckets the values of column into equal-width bins spanning [min, max].
// Non-finite values are skipped. When every value is equal a single bin holds all rows.
func Histogram(rows []seasons.SeasonRecord, column string, bins int) ([]Bin, error) {
	if err := checkNumeric(column); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyRows
	}
	if bins <= 0 {
		bins = DefaultBins
	}

	values := make([]float64, 0, len(rows))
	lo, hi := 0.0, 0.0
	for _, r := range rows {
		v, err := valueOf(r, column)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if len(values) == 0 || v < lo {
			lo = v
		}
		if len(values) == 0 || v > hi {
			hi = v
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, ErrEmptyRows
	}

	if lo == hi {
		return []Bin{{Lower: lo, Upper: hi, Count: len(values)}}, nil
	}

	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi

	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out, nil
}
