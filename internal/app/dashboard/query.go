package dashboard

import (
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names shared by the page, the JSON API, and chart image URLs.
const (
	ParamSection = "section"
	ParamSeason  = "season"
	ParamTeam    = "team"
	ParamTeams   = "teams"
	ParamMetric  = "metric"
	ParamChart   = "chart"
)

// ParseSelection reads a Selection from query parameters. Only the season is parsed here;
// the remaining values are validated when the view is built.
func ParseSelection(q url.Values) (Selection, error) {
	sel := Selection{
		Section: Section(strings.TrimSpace(q.Get(ParamSection))),
		Team:    strings.TrimSpace(q.Get(ParamTeam)),
		Metric:  strings.TrimSpace(q.Get(ParamMetric)),
		Chart:   ChartType(strings.TrimSpace(q.Get(ParamChart))),
	}
	for _, t := range q[ParamTeams] {
		if t = strings.TrimSpace(t); t != "" {
			sel.Teams = append(sel.Teams, t)
		}
	}
	if raw := strings.TrimSpace(q.Get(ParamSeason)); raw != "" {
		season, err := strconv.Atoi(raw)
		if err != nil || season <= 0 {
			return Selection{}, invalid("season %q is not a year", raw)
		}
		sel.Season = season
	}
	return sel, nil
}

// Values encodes the selection as query parameters, omitting zero values.
func (s Selection) Values() url.Values {
	q := url.Values{}
	if s.Section != "" {
		q.Set(ParamSection, string(s.Section))
	}
	if s.Season != 0 {
		q.Set(ParamSeason, strconv.Itoa(s.Season))
	}
	if s.Team != "" {
		q.Set(ParamTeam, s.Team)
	}
	for _, t := range s.Teams {
		q.Add(ParamTeams, t)
	}
	if s.Metric != "" {
		q.Set(ParamMetric, s.Metric)
	}
	if s.Chart != "" {
		q.Set(ParamChart, string(s.Chart))
	}
	return q
}
