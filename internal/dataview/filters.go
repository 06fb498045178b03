package dataview

import "github.com/preston-bernstein/nhl-dashboard/internal/domain/seasons"

// FilterByYear returns the rows whose Year equals year, in their original order.
func FilterByYear(rows []seasons.SeasonRecord, year int) []seasons.SeasonRecord {
	out := make([]seasons.SeasonRecord, 0, len(rows))
	for _, r := range rows {
		if r.Year == year {
			out = append(out, r)
		}
	}
	return out
}

// FilterByNames returns the rows whose Name is in names, in their original order.
func FilterByNames(rows []seasons.SeasonRecord, names []string) []seasons.SeasonRecord {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	out := make([]seasons.SeasonRecord, 0, len(rows))
	for _, r := range rows {
		if _, ok := set[r.Name]; ok {
			out = append(out, r)
		}
	}
	return out
}
