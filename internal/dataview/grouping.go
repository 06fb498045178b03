package dataview

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/preston-bernstein/nhl-dashboard/internal/domain/seasons"
)

// GroupValue is the aggregate of one distinct group value.
type GroupValue struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// GroupAverage returns the mean of valueCol for every distinct value of groupCol.
// groupCol must be Name or Year; output is ordered by group key ascending
// (numerically for Year).
func GroupAverage(rows []seasons.SeasonRecord, groupCol, valueCol string) ([]GroupValue, error) {
	if groupCol != seasons.ColumnName && groupCol != seasons.ColumnYear {
		return nil, fmt.Errorf("%w: cannot group by %q", ErrUnknownColumn, groupCol)
	}
	if err := checkNumeric(valueCol); err != nil {
		return nil, err
	}

	type acc struct {
		year  int
		sum   float64
		count int
	}
	groups := make(map[string]*acc)
	for _, r := range rows {
		key := r.Name
		if groupCol == seasons.ColumnYear {
			key = strconv.Itoa(r.Year)
		}
		g, ok := groups[key]
		if !ok {
			g = &acc{year: r.Year}
			groups[key] = g
		}
		v, _ := r.Value(valueCol)
		g.sum += v
		g.count++
	}

	out := make([]GroupValue, 0, len(groups))
	for key, g := range groups {
		out = append(out, GroupValue{Key: key, Value: g.sum / float64(g.count), Count: g.count})
	}

	if groupCol == seasons.ColumnYear {
		sort.Slice(out, func(i, j int) bool { return groups[out[i].Key].year < groups[out[j].Key].year })
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	}
	return out, nil
}

// Seasons returns the distinct years present in rows, newest first.
func Seasons(rows []seasons.SeasonRecord) []int {
	seen := make(map[int]struct{})
	out := make([]int, 0)
	for _, r := range rows {
		if _, ok := seen[r.Year]; ok {
			continue
		}
		seen[r.Year] = struct{}{}
		out = append(out, r.Year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// TeamNames returns the distinct non-empty team names present in rows, sorted.
func TeamNames(rows []seasons.SeasonRecord) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range rows {
		if r.Name == "" {
			continue
		}
		if _, ok := seen[r.Name]; ok {
			continue
		}
		seen[r.Name] = struct{}{}
		out = append(out, r.Name)
	}
	sort.Strings(out)
	return out
}
