package dashboard

import "github.com/preston-bernstein/nhl-dashboard/internal/domain/seasons"

// Selection is what the user picked in the sidebar and section form.
// Zero values fall back to section defaults.
type Selection struct {
	Section Section   `json:"section"`
	Season  int       `json:"season,omitempty"`
	Team    string    `json:"team,omitempty"`
	Teams   []string  `json:"teams,omitempty"`
	Metric  string    `json:"metric,omitempty"`
	Chart   ChartType `json:"chart,omitempty"`
}

// View is everything needed to draw one section.
type View struct {
	Section   Section     `json:"section"`
	Title     string      `json:"title"`
	Heading   string      `json:"heading,omitempty"`
	Intro     []string    `json:"intro,omitempty"`
	Warning   string      `json:"warning,omitempty"`
	Selection Selection   `json:"selection"`
	Options   Options     `json:"options"`
	Charts    []ChartSpec `json:"charts"`
}

// Options are the choices the section form offers.
type Options struct {
	Seasons []int       `json:"seasons,omitempty"`
	Teams   []string    `json:"teams,omitempty"`
	Metrics []Metric    `json:"metrics,omitempty"`
	Charts  []ChartType `json:"charts,omitempty"`
	// MultiTeam is set when Teams is a multi-select.
	MultiTeam bool `json:"multiTeam,omitempty"`
}

// ChartSpec describes a chart independent of how it is drawn.
type ChartSpec struct {
	Type   ChartType `json:"type"`
	Title  string    `json:"title"`
	XLabel string    `json:"xLabel,omitempty"`
	YLabel string    `json:"yLabel,omitempty"`
	Series []Series  `json:"series"`
}

// Series is a named run of points sharing a colour.
type Series struct {
	Name   string  `json:"name"`
	Color  string  `json:"color,omitempty"`
	Points []Point `json:"points"`
}

// Point is one datum. Label names categorical positions (bars, pie slices, ticks);
// Text is an annotation such as the team behind a bar. Color overrides the series colour.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
	Text  string  `json:"text,omitempty"`
	Color string  `json:"color,omitempty"`
}

// Empty reports whether the chart has no points to draw.
func (c ChartSpec) Empty() bool {
	for _, s := range c.Series {
		if len(s.Points) > 0 {
			return false
		}
	}
	return true
}

// Catalog is the dashboard-wide choice list served by the options endpoint.
type Catalog struct {
	Sections          []SectionInfo `json:"sections"`
	Seasons           []int         `json:"seasons"`
	Teams             []string      `json:"teams"`
	ComparisonMetrics []Metric      `json:"comparisonMetrics"`
	Columns           []string      `json:"columns"`
}

func valueOrZero(rec seasons.SeasonRecord, column string) float64 {
	v, _ := rec.Value(column)
	return v
}
