package seasons

// Column names as they appear in the source header (after whitespace stripping).
const (
	ColumnName         = "Name"
	ColumnYear         = "Year"
	ColumnWins         = "Wins"
	ColumnLosses       = "Losses"
	ColumnWinPct       = "Win %"
	ColumnGoalsFor     = "Goals For"
	ColumnGoalsAgainst = "Goals Against"
)

// Columns lists every column of a complete season table in canonical order.
var Columns = []string{ColumnName, ColumnYear, ColumnWins, ColumnLosses, ColumnWinPct, ColumnGoalsFor, ColumnGoalsAgainst}

// StatColumns lists the numeric statistic columns in display order.
var StatColumns = []string{ColumnWins, ColumnLosses, ColumnWinPct, ColumnGoalsFor, ColumnGoalsAgainst}

// SeasonRecord is one team-season row of statistics.
type SeasonRecord struct {
	Name         string  `json:"name" db:"name"`
	Year         int     `json:"year" db:"year"`
	Wins         float64 `json:"wins" db:"wins"`
	Losses       float64 `json:"losses" db:"losses"`
	WinPct       float64 `json:"winPct" db:"win_pct"`
	GoalsFor     float64 `json:"goalsFor" db:"goals_for"`
	GoalsAgainst float64 `json:"goalsAgainst" db:"goals_against"`
}

// Value returns the numeric value of the named column. Year is numeric; Name is not.
func (r SeasonRecord) Value(column string) (float64, bool) {
	switch column {
	case ColumnYear:
		return float64(r.Year), true
	case ColumnWins:
		return r.Wins, true
	case ColumnLosses:
		return r.Losses, true
	case ColumnWinPct:
		return r.WinPct, true
	case ColumnGoalsFor:
		return r.GoalsFor, true
	case ColumnGoalsAgainst:
		return r.GoalsAgainst, true
	default:
		return 0, false
	}
}

// IsNumeric reports whether column can be read with Value.
func IsNumeric(column string) bool {
	_, ok := SeasonRecord{}.Value(column)
	return ok
}

// IsKnown reports whether column is part of the season vocabulary.
func IsKnown(column string) bool {
	return column == ColumnName || IsNumeric(column)
}
