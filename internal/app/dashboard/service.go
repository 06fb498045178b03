package dashboard

import (
	"fmt"
	"slices"

	"github.com/preston-bernstein/nhl-dashboard/internal/dataview"
	"github.com/preston-bernstein/nhl-dashboard/internal/domain/seasons"
)

// TableSource hands out the loaded season table, or the error that stopped it loading.
type TableSource interface {
	Table() (*seasons.Table, error)
}

// Service builds dashboard views over the cached season table.
type Service struct {
	tables TableSource
}

// NewService constructs a Service reading from tables.
func NewService(tables TableSource) *Service {
	return &Service{tables: tables}
}

// View resolves sel against the table and builds the section's view. A table that failed
// to load short-circuits every section with the load error.
func (s *Service) View(sel Selection) (View, error) {
	table, err := s.tables.Table()
	if err != nil {
		return View{}, err
	}
	section, err := ParseSection(string(sel.Section))
	if err != nil {
		return View{}, err
	}
	sel.Section = section

	switch section {
	case SectionOverview:
		return overviewView(table, sel)
	case SectionTeamAnalysis:
		return teamAnalysisView(table, sel)
	case SectionTeamComparison:
		return teamComparisonView(table, sel)
	case SectionWinPercentage:
		return winPercentageView(table, sel)
	default:
		return homeView(sel), nil
	}
}

// Options returns the dashboard-wide choice lists.
func (s *Service) Options() (Catalog, error) {
	table, err := s.tables.Table()
	if err != nil {
		return Catalog{}, err
	}
	rows := table.Records()
	return Catalog{
		Sections:          Sections,
		Seasons:           dataview.Seasons(rows),
		Teams:             dataview.TeamNames(rows),
		ComparisonMetrics: ComparisonMetrics(table),
		Columns:           table.Columns(),
	}, nil
}

func homeView(sel Selection) View {
	return View{
		Section:   SectionHome,
		Title:     "National Hockey League Analysis",
		Heading:   "Welcome to the NHL!",
		Selection: Selection{Section: sel.Section},
		Intro: []string{
			"Explore the performance of NHL teams over the years using charts and filters.",
			"Analyze team performance trends.",
			"Compare multiple teams across seasons.",
			"Dive deep into win percentages and goal statistics.",
		},
		Charts: []ChartSpec{},
	}
}

func pickSeason(requested int, available []int) (int, error) {
	if requested == 0 {
		if len(available) == 0 {
			return 0, nil
		}
		return available[0], nil
	}
	if !slices.Contains(available, requested) {
		return 0, invalid("season %d has no data", requested)
	}
	return requested, nil
}

func pickTeam(requested string, available []string) (string, error) {
	if requested == "" {
		if len(available) == 0 {
			return "", nil
		}
		return available[0], nil
	}
	if !slices.Contains(available, requested) {
		return "", invalid("unknown team %q", requested)
	}
	return requested, nil
}

func pickTeams(requested []string, available []string) ([]string, error) {
	out := make([]string, 0, len(requested))
	for _, t := range requested {
		if t == "" || slices.Contains(out, t) {
			continue
		}
		if !slices.Contains(available, t) {
			return nil, invalid("unknown team %q", t)
		}
		out = append(out, t)
	}
	return out, nil
}

func overviewView(table *seasons.Table, sel Selection) (View, error) {
	rows := table.Records()
	view := View{
		Section: SectionOverview,
		Title:   "League Overview",
		Options: Options{Metrics: leaderMetrics, Charts: overviewCharts},
		Charts:  []ChartSpec{},
	}
	metric, err := pickMetric(sel.Metric, leaderMetrics)
	if err != nil {
		return View{}, err
	}
	chartType, err := pickChart(sel.Chart, overviewCharts)
	if err != nil {
		return View{}, err
	}
	if !table.HasColumn(seasons.ColumnYear) {
		view.Selection = Selection{Section: SectionOverview, Metric: metric.Key, Chart: chartType}
		return view, nil
	}
	view.Options.Seasons = dataview.Seasons(rows)
	season, err := pickSeason(sel.Season, view.Options.Seasons)
	if err != nil {
		return View{}, err
	}
	view.Selection = Selection{Section: SectionOverview, Season: season, Metric: metric.Key, Chart: chartType}

	top, err := dataview.TopNBy(dataview.FilterByYear(rows, season), metric.Column, dataview.DefaultTopN)
	if err != nil {
		return View{}, fmt.Errorf("overview: %w", err)
	}
	view.Charts = append(view.Charts, categoryChart(chartType, fmt.Sprintf("Top Teams by %s in %d", metric.Label, season),
		seasons.ColumnName, metric, top, func(r seasons.SeasonRecord) string { return r.Name }))
	return view, nil
}

func teamAnalysisView(table *seasons.Table, sel Selection) (View, error) {
	rows := table.Records()
	view := View{
		Section: SectionTeamAnalysis,
		Title:   "Team Performance Analysis",
		Options: Options{Metrics: leaderMetrics, Charts: analysisCharts},
		Charts:  []ChartSpec{},
	}
	metric, err := pickMetric(sel.Metric, leaderMetrics)
	if err != nil {
		return View{}, err
	}
	chartType, err := pickChart(sel.Chart, analysisCharts)
	if err != nil {
		return View{}, err
	}
	view.Options.Teams = dataview.TeamNames(rows)
	team, err := pickTeam(sel.Team, view.Options.Teams)
	if err != nil {
		return View{}, err
	}
	view.Selection = Selection{Section: SectionTeamAnalysis, Team: team, Metric: metric.Key, Chart: chartType}
	if team == "" {
		return view, nil
	}
	view.Heading = team + " Performance Over Time"

	teamRows := dataview.FilterByNames(rows, []string{team})
	if len(teamRows) == 0 || !table.HasColumn(seasons.ColumnYear) {
		return view, nil
	}
	title := fmt.Sprintf("%s %s Over Time", team, metric.Label)
	if chartType == ChartPie {
		title = fmt.Sprintf("%s %s Distribution", team, metric.Label)
	}
	view.Charts = append(view.Charts, categoryChart(chartType, title, seasons.ColumnYear, metric, teamRows,
		func(r seasons.SeasonRecord) string { return fmt.Sprint(r.Year) }))
	return view, nil
}

// categoryChart draws one metric over rows, one point per row, in the colours of the
// leader sections: a sequential scale for bars and a fixed line colour otherwise.
func categoryChart(chartType ChartType, title, xColumn string, metric Metric, rows []seasons.SeasonRecord, label func(seasons.SeasonRecord) string) ChartSpec {
	scale, line := metricStyle(metric)
	lo, hi := valueRange(rows, metric.Column)

	points := make([]Point, 0, len(rows))
	for i, r := range rows {
		v := valueOrZero(r, metric.Column)
		p := Point{X: float64(i), Y: v, Label: label(r)}
		if xColumn == seasons.ColumnYear {
			p.X = float64(r.Year)
		}
		if chartType == ChartBar {
			p.Color = shade(scale, v, lo, hi)
		}
		points = append(points, p)
	}
	series := Series{Name: metric.Label, Points: points}
	if chartType == ChartLine || chartType == ChartScatter {
		series.Color = line
	}
	return ChartSpec{
		Type:   chartType,
		Title:  title,
		XLabel: xColumn,
		YLabel: metric.Label,
		Series: []Series{series},
	}
}

func valueRange(rows []seasons.SeasonRecord, column string) (lo, hi float64) {
	for i, r := range rows {
		v := valueOrZero(r, column)
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > hi {
			hi = v
		}
	}
	return lo, hi
}

// ComparisonWarning is shown instead of a chart until two teams are picked.
const ComparisonWarning = "Please select at least two teams for comparison."

func teamComparisonView(table *seasons.Table, sel Selection) (View, error) {
	rows := table.Records()
	metrics := ComparisonMetrics(table)
	view := View{
		Section: SectionTeamComparison,
		Title:   "Multi-Team Comparison",
		Options: Options{Teams: dataview.TeamNames(rows), Metrics: metrics, Charts: analysisCharts, MultiTeam: true},
		Charts:  []ChartSpec{},
	}
	teams, err := pickTeams(sel.Teams, view.Options.Teams)
	if err != nil {
		return View{}, err
	}
	chartType, err := pickChart(sel.Chart, analysisCharts)
	if err != nil {
		return View{}, err
	}
	view.Selection = Selection{Section: SectionTeamComparison, Teams: teams, Chart: chartType}

	if len(metrics) == 0 && sel.Metric == "" {
		view.Warning = "The data has no statistics to compare."
		return view, nil
	}
	metric, err := pickMetric(sel.Metric, metrics)
	if err != nil {
		return View{}, err
	}
	view.Selection.Metric = metric.Key

	if len(teams) < 2 {
		view.Warning = ComparisonWarning
		return view, nil
	}

	compared := dataview.FilterByNames(rows, teams)
	title := fmt.Sprintf("Comparison of %s Among Selected Teams", metric.Column)

	if chartType == ChartPie {
		avgs, err := dataview.GroupAverage(compared, seasons.ColumnName, metric.Column)
		if err != nil {
			return View{}, fmt.Errorf("team comparison: %w", err)
		}
		points := make([]Point, 0, len(avgs))
		for _, g := range avgs {
			points = append(points, Point{Label: g.Key, Y: g.Value})
		}
		view.Charts = append(view.Charts, ChartSpec{
			Type:   ChartPie,
			Title:  title,
			XLabel: seasons.ColumnName,
			YLabel: metric.Column,
			Series: []Series{{Name: metric.Column, Points: points}},
		})
		return view, nil
	}

	// Teams keep the order the user picked them in so colours stay stable.
	series := make([]Series, 0, len(teams))
	for i, team := range teams {
		s := Series{Name: team, Color: teamColor(i)}
		for _, r := range compared {
			if r.Name != team {
				continue
			}
			s.Points = append(s.Points, Point{X: float64(r.Year), Y: valueOrZero(r, metric.Column), Label: fmt.Sprint(r.Year)})
		}
		series = append(series, s)
	}
	view.Charts = append(view.Charts, ChartSpec{
		Type:   chartType,
		Title:  title,
		XLabel: seasons.ColumnYear,
		YLabel: metric.Column,
		Series: series,
	})
	return view, nil
}

func winPercentageView(table *seasons.Table, sel Selection) (View, error) {
	rows := table.Records()
	view := View{
		Section:   SectionWinPercentage,
		Title:     "Win Percentage Analysis",
		Selection: Selection{Section: SectionWinPercentage},
		Charts:    []ChartSpec{},
	}
	if !table.HasColumn(seasons.ColumnYear) || !table.HasColumn(seasons.ColumnWinPct) {
		return view, nil
	}
	view.Options.Seasons = dataview.Seasons(rows)
	season, err := pickSeason(sel.Season, view.Options.Seasons)
	if err != nil {
		return View{}, err
	}
	view.Selection.Season = season

	seasonRows := dataview.FilterByYear(rows, season)
	if len(seasonRows) == 0 {
		return view, nil
	}

	bins, err := dataview.Histogram(seasonRows, seasons.ColumnWinPct, dataview.DefaultBins)
	if err != nil {
		return View{}, fmt.Errorf("win percentage: %w", err)
	}
	hist := Series{Name: "count", Color: histogramFill}
	for _, b := range bins {
		hist.Points = append(hist.Points, Point{
			X:     (b.Lower + b.Upper) / 2,
			Y:     float64(b.Count),
			Label: fmt.Sprintf("%.3f", (b.Lower+b.Upper)/2),
		})
	}
	view.Charts = append(view.Charts, ChartSpec{
		Type:   ChartHistogram,
		Title:  fmt.Sprintf("Win Percentage Distribution in %d", season),
		XLabel: seasons.ColumnWinPct,
		YLabel: "count",
		Series: []Series{hist},
	})

	highest, lowest, err := dataview.ExtremeRows(seasonRows, seasons.ColumnWinPct)
	if err != nil {
		return View{}, fmt.Errorf("win percentage: %w", err)
	}
	view.Charts = append(view.Charts, ChartSpec{
		Type:   ChartBar,
		Title:  "Highest and Lowest Win %",
		XLabel: "Category",
		YLabel: seasons.ColumnWinPct,
		Series: []Series{{
			Name: seasons.ColumnWinPct,
			Points: []Point{
				{X: 0, Y: highest.WinPct, Label: "Highest Win %", Text: highest.Name, Color: highestFill},
				{X: 1, Y: lowest.WinPct, Label: "Lowest Win %", Text: lowest.Name, Color: lowestFill},
			},
		}},
	})
	return view, nil
}

// Chart returns the index-th chart of the view built for sel.
func (s *Service) Chart(sel Selection, index int) (ChartSpec, error) {
	view, err := s.View(sel)
	if err != nil {
		return ChartSpec{}, err
	}
	if index < 0 || index >= len(view.Charts) {
		return ChartSpec{}, fmt.Errorf("%w: chart %d of %d", ErrChartNotFound, index, len(view.Charts))
	}
	return view.Charts[index], nil
}
