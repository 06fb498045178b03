package dashboard

import (
	"errors"
	"fmt"

	"github.com/preston-bernstein/nhl-dashboard/internal/domain/seasons"
)

// ErrInvalidSelection is returned when a selection names a section, metric, chart type,
// season, or team the dashboard does not offer.
var ErrInvalidSelection = errors.New("invalid selection")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSelection, fmt.Sprintf(format, args...))
}

// Section identifies one page of the dashboard.
type Section string

const (
	SectionHome           Section = "home"
	SectionOverview       Section = "overview"
	SectionTeamAnalysis   Section = "team-analysis"
	SectionTeamComparison Section = "team-comparison"
	SectionWinPercentage  Section = "win-percentage"
)

// SectionInfo is a sidebar entry.
type SectionInfo struct {
	ID    Section `json:"id"`
	Label string  `json:"label"`
}

// Sections lists the dashboard pages in sidebar order.
var Sections = []SectionInfo{
	{ID: SectionHome, Label: "Home"},
	{ID: SectionOverview, Label: "Overview"},
	{ID: SectionTeamAnalysis, Label: "Team Analysis"},
	{ID: SectionTeamComparison, Label: "Team Comparison"},
	{ID: SectionWinPercentage, Label: "Win Percentage Analysis"},
}

// ParseSection resolves a section id; empty means home.
func ParseSection(raw string) (Section, error) {
	if raw == "" {
		return SectionHome, nil
	}
	for _, s := range Sections {
		if string(s.ID) == raw {
			return s.ID, nil
		}
	}
	return "", invalid("unknown section %q", raw)
}

// ChartType is the kind of chart drawn for a view.
type ChartType string

const (
	ChartBar       ChartType = "bar"
	ChartLine      ChartType = "line"
	ChartPie       ChartType = "pie"
	ChartScatter   ChartType = "scatter"
	ChartHistogram ChartType = "histogram"
)

var (
	overviewCharts = []ChartType{ChartBar, ChartLine, ChartPie}
	analysisCharts = []ChartType{ChartBar, ChartLine, ChartPie, ChartScatter}
)

// Metric is a selectable statistic, addressed in URLs by its key.
type Metric struct {
	Key    string `json:"key"`
	Column string `json:"column"`
	Label  string `json:"label"`
}

var (
	metricWins         = Metric{Key: "wins", Column: seasons.ColumnWins, Label: "Wins"}
	metricLosses       = Metric{Key: "losses", Column: seasons.ColumnLosses, Label: "Losses"}
	metricWinPct       = Metric{Key: "win-pct", Column: seasons.ColumnWinPct, Label: "Win %"}
	metricGoalsFor     = Metric{Key: "goals-for", Column: seasons.ColumnGoalsFor, Label: "Goals For"}
	metricGoalsAgainst = Metric{Key: "goals-against", Column: seasons.ColumnGoalsAgainst, Label: "Goals Against"}

	// Goals For leads so it is the default, as on the original overview page.
	leaderMetrics     = []Metric{metricGoalsFor, metricWins}
	comparisonMetrics = []Metric{metricWins, metricLosses, metricWinPct, metricGoalsFor, metricGoalsAgainst}
)

// ComparisonMetrics returns the comparison metrics whose column the table carries.
func ComparisonMetrics(table *seasons.Table) []Metric {
	out := make([]Metric, 0, len(comparisonMetrics))
	for _, m := range comparisonMetrics {
		if table.HasColumn(m.Column) {
			out = append(out, m)
		}
	}
	return out
}

// pickMetric resolves raw (a key or an exact column name) against offered.
// Empty raw picks the first offered metric.
func pickMetric(raw string, offered []Metric) (Metric, error) {
	if raw == "" {
		if len(offered) == 0 {
			return Metric{}, invalid("no metrics available")
		}
		return offered[0], nil
	}
	for _, m := range offered {
		if m.Key == raw || m.Column == raw {
			return m, nil
		}
	}
	return Metric{}, invalid("metric %q is not offered here", raw)
}

func pickChart(raw ChartType, offered []ChartType) (ChartType, error) {
	if raw == "" {
		return ChartBar, nil
	}
	for _, c := range offered {
		if c == raw {
			return c, nil
		}
	}
	return "", invalid("chart type %q is not offered here", raw)
}

// ErrChartNotFound is returned for a chart index the view does not have.
var ErrChartNotFound = errors.New("chart not found")
