package dashboard

import (
	"errors"
	"net/url"
	"testing"
)

func TestParseSelection(t *testing.T) {
	q, _ := url.ParseQuery("section=team-comparison&season=1990&teams=Boston+Bruins&teams=+Buffalo+Sabres+&teams=&metric=wins&chart=line")

	sel, err := ParseSelection(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Section != SectionTeamComparison || sel.Season != 1990 || sel.Metric != "wins" || sel.Chart != ChartLine {
		t.Fatalf("unexpected selection %+v", sel)
	}
	if len(sel.Teams) != 2 || sel.Teams[1] != "Buffalo Sabres" {
		t.Fatalf("unexpected teams %v", sel.Teams)
	}
}

func TestParseSelectionBadSeason(t *testing.T) {
	for _, raw := range []string{"season=last", "season=-3"} {
		q, _ := url.ParseQuery(raw)
		if _, err := ParseSelection(q); !errors.Is(err, ErrInvalidSelection) {
			t.Fatalf("%s: expected ErrInvalidSelection, got %v", raw, err)
		}
	}
}

func TestSelectionValuesRoundTrip(t *testing.T) {
	want := Selection{Section: SectionTeamAnalysis, Season: 1991, Team: "Calgary Flames", Metric: "goals-for", Chart: ChartPie}

	got, err := ParseSelection(want.Values())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Section != want.Section || got.Season != want.Season || got.Team != want.Team || got.Metric != want.Metric || got.Chart != want.Chart {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if len(Selection{}.Values()) != 0 {
		t.Fatalf("expected empty selection to encode no params")
	}
}
