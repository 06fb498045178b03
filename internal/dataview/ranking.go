package dataview

import (
	"math"
	"sort"

	"github.com/preston-bernstein/nhl-dashboard/internal/domain/seasons"
)

// DefaultTopN is the number of rows TopNBy keeps when n is not positive.
const DefaultTopN = 5

// TopNBy sorts rows descending by column and keeps the first n.
// The sort is stable, so tied rows keep their original relative order.
func TopNBy(rows []seasons.SeasonRecord, column string, n int) ([]seasons.SeasonRecord, error) {
	if err := checkNumeric(column); err != nil {
		return nil, err
	}
	if n <= 0 {
		n = DefaultTopN
	}

	sorted := append([]seasons.SeasonRecord(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		vi, _ := sorted[i].Value(column)
		vj, _ := sorted[j].Value(column)
		return vi > vj
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted, nil
}

// ExtremeRows returns the first row holding the maximum of column and the first row
// holding its minimum. NaN values are skipped.
func ExtremeRows(rows []seasons.SeasonRecord, column string) (maxRow, minRow seasons.SeasonRecord, err error) {
	if err := checkNumeric(column); err != nil {
		return seasons.SeasonRecord{}, seasons.SeasonRecord{}, err
	}

	var maxVal, minVal float64
	found := false
	for _, r := range rows {
		v, _ := r.Value(column)
		if math.IsNaN(v) {
			continue
		}
		if !found {
			maxRow, minRow, maxVal, minVal, found = r, r, v, v, true
			continue
		}
		if v > maxVal {
			maxRow, maxVal = r, v
		}
		if v < minVal {
			minRow, minVal = r, v
		}
	}
	if !found {
		return seasons.SeasonRecord{}, seasons.SeasonRecord{}, ErrEmptyRows
	}
	return maxRow, minRow, nil
}
