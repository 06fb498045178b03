package handlers

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/preston-bernstein/nhl-dashboard/internal/app/dashboard"
	"github.com/preston-bernstein/nhl-dashboard/internal/chart"
	"github.com/preston-bernstein/nhl-dashboard/internal/metrics"
	"github.com/preston-bernstein/nhl-dashboard/internal/source"
	"github.com/preston-bernstein/nhl-dashboard/internal/store"
	"github.com/preston-bernstein/nhl-dashboard/internal/testutil"
)

func newTestHandler() (*Handler, *metrics.Recorder) {
	cache := testutil.NewLoadedCache(testutil.SampleTable())
	rec := metrics.NewRecorder()
	logger, _ := testutil.NewBufferLogger()
	return NewHandler(dashboard.NewService(cache), cache, nil, rec, logger), rec
}

func newFailedHandler() *Handler {
	loadErr := &source.LoadError{Source: "csv", Location: "Hockey_data.csv", Err: fs.ErrNotExist}
	cache := testutil.NewFailedCache(loadErr)
	return NewHandler(dashboard.NewService(cache), cache, nil, nil, nil)
}

type failingRenderer struct{ err error }

func (f failingRenderer) Render(io.Writer, dashboard.ChartSpec, chart.Format) error { return f.err }

func TestHealth(t *testing.T) {
	h, _ := newTestHandler()

	rr := testutil.Serve(h, http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %s", resp["status"])
	}
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	h, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	req = req.WithContext(ctx)
	rr := testutil.ServeRequest(http.HandlerFunc(h.Health), req)

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["error"] != "shutting down" {
		t.Fatalf("unexpected error %q", resp["error"])
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler()
	for _, path := range []string{"/health", "/ready", "/api/view", "/api/options", "/charts/0.svg", "/dashboard"} {
		rr := testutil.Serve(h, http.MethodPost, path, nil)
		testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
	}
}

func TestReady(t *testing.T) {
	h, _ := newTestHandler()

	rr := testutil.Serve(h, http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp map[string]any
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ready" || resp["rows"] != float64(8) {
		t.Fatalf("unexpected ready payload %+v", resp)
	}
}

func TestReadyFailsWhenLoadFailed(t *testing.T) {
	rr := testutil.Serve(newFailedHandler(), http.MethodGet, "/ready", nil)

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if !strings.Contains(resp["error"], "was not found") {
		t.Fatalf("expected missing file message, got %q", resp["error"])
	}
}

func TestReadyBeforeLoad(t *testing.T) {
	cache := store.NewTableCache()
	h := NewHandler(dashboard.NewService(cache), cache, nil, nil, nil)

	rr := testutil.Serve(h, http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
}

func TestViewJSON(t *testing.T) {
	h, rec := newTestHandler()

	rr := testutil.Serve(h, http.MethodGet, "/api/view?section=overview&season=1990&metric=wins", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.AssertContentType(t, rr, "application/json")

	var view dashboard.View
	testutil.DecodeJSON(t, rr, &view)
	if view.Section != dashboard.SectionOverview || len(view.Charts) != 1 {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.Charts[0].Title != "Top Teams by Wins in 1990" {
		t.Fatalf("unexpected chart title %q", view.Charts[0].Title)
	}
	if total, _ := rec.ViewBuilds("overview"); total != 1 {
		t.Fatalf("expected view build recorded, got %d", total)
	}
}

func TestViewJSONComparisonWarning(t *testing.T) {
	h, _ := newTestHandler()

	rr := testutil.Serve(h, http.MethodGet, "/api/view?section=team-comparison&teams=Boston+Bruins", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var view dashboard.View
	testutil.DecodeJSON(t, rr, &view)
	if view.Warning != dashboard.ComparisonWarning || len(view.Charts) != 0 {
		t.Fatalf("expected warning without charts, got %+v", view)
	}
}

func TestViewJSONInvalidSelection(t *testing.T) {
	h, rec := newTestHandler()
	for _, q := range []string{"section=nope", "section=overview&metric=losses", "section=overview&season=abc"} {
		rr := testutil.Serve(h, http.MethodGet, "/api/view?"+q, nil)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	}
	if _, failed := rec.ViewBuilds("overview"); failed != 1 {
		t.Fatalf("expected one failed overview build, got %d", failed)
	}
}

func TestViewJSONUnknownSectionsShareOneMetricLabel(t *testing.T) {
	h, rec := newTestHandler()
	for _, q := range []string{"section=a1", "section=a2"} {
		rr := testutil.Serve(h, http.MethodGet, "/api/view?"+q, nil)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	}

	if total, failed := rec.ViewBuilds("invalid"); total != 2 || failed != 2 {
		t.Fatalf("expected two failed builds under the invalid label, got %d/%d", total, failed)
	}
	for _, section := range []string{"a1", "a2"} {
		if total, _ := rec.ViewBuilds(section); total != 0 {
			t.Fatalf("expected no series for %q, got %d", section, total)
		}
	}
}

func TestViewJSONLoadFailure(t *testing.T) {
	rr := testutil.Serve(newFailedHandler(), http.MethodGet, "/api/view?section=overview", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
}

func TestOptions(t *testing.T) {
	h, _ := newTestHandler()

	rr := testutil.Serve(h, http.MethodGet, "/api/options", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var cat dashboard.Catalog
	testutil.DecodeJSON(t, rr, &cat)
	if len(cat.Sections) != 5 || len(cat.Teams) != 6 || cat.Seasons[0] != 1991 {
		t.Fatalf("unexpected catalog %+v", cat)
	}

	rr = testutil.Serve(newFailedHandler(), http.MethodGet, "/api/options", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
}

func TestChartServesSVG(t *testing.T) {
	h, rec := newTestHandler()

	rr := testutil.Serve(h, http.MethodGet, "/charts/0.svg?section=team-analysis&team=Boston+Bruins&chart=line", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.AssertContentType(t, rr, "image/svg+xml")
	if !strings.Contains(rr.Body.String(), "<svg") {
		t.Fatalf("expected svg body")
	}
	if rec.ChartRenders("line") != 1 {
		t.Fatalf("expected chart render recorded")
	}
}

func TestChartServesPNG(t *testing.T) {
	h, _ := newTestHandler()

	rr := testutil.Serve(h, http.MethodGet, "/charts/1.png?section=win-percentage&season=1990", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.AssertContentType(t, rr, "image/png")
}

func TestChartErrors(t *testing.T) {
	h, _ := newTestHandler()
	cases := map[string]int{
		"/charts/x.svg?section=overview":         http.StatusNotFound,
		"/charts/0.gif?section=overview":         http.StatusNotFound,
		"/charts/0?section=overview":             http.StatusNotFound,
		"/charts/5.svg?section=overview":         http.StatusNotFound,
		"/charts/0.svg?section=home":             http.StatusNotFound,
		"/charts/0.svg?section=overview&chart=x": http.StatusBadRequest,
		"/charts/0.svg?season=abc":               http.StatusBadRequest,
	}
	for path, status := range cases {
		rr := testutil.Serve(h, http.MethodGet, path, nil)
		if rr.Code != status {
			t.Fatalf("%s: expected %d, got %d", path, status, rr.Code)
		}
	}
}

func TestChartRenderFailure(t *testing.T) {
	cache := testutil.NewLoadedCache(testutil.SampleTable())
	h := NewHandler(dashboard.NewService(cache), cache, failingRenderer{err: errors.New("font missing")}, nil, nil)

	rr := testutil.Serve(h, http.MethodGet, "/charts/0.svg?section=overview", nil)
	testutil.AssertStatus(t, rr, http.StatusInternalServerError)
}

func TestPageRendersSection(t *testing.T) {
	h, _ := newTestHandler()

	rr := testutil.Serve(h, http.MethodGet, "/dashboard?section=win-percentage&season=1990", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.AssertContentType(t, rr, "text/html")
	body := rr.Body.String()
	for _, want := range []string{"Win Percentage Analysis", "/charts/0.svg?", "/charts/1.svg?"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in page", want)
		}
	}
}

func TestPageRootIsHome(t *testing.T) {
	h, _ := newTestHandler()

	rr := testutil.Serve(h, http.MethodGet, "/", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if !strings.Contains(rr.Body.String(), "National Hockey League Analysis") {
		t.Fatalf("expected home page")
	}
}

func TestPageShowsLoadFailure(t *testing.T) {
	rr := testutil.Serve(newFailedHandler(), http.MethodGet, "/dashboard?section=overview", nil)

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	body := rr.Body.String()
	if !strings.Contains(body, "Error: The file &#39;Hockey_data.csv&#39; was not found.") {
		t.Fatalf("expected load failure message, got %s", body)
	}
	if strings.Contains(body, "<img") {
		t.Fatalf("expected no charts after load failure")
	}
}

func TestPageInvalidSelection(t *testing.T) {
	h, _ := newTestHandler()

	rr := testutil.Serve(h, http.MethodGet, "/dashboard?section=overview&chart=radar", nil)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	if !strings.Contains(rr.Body.String(), "alert-error") {
		t.Fatalf("expected error alert")
	}
}

func TestUnknownPathReturns404(t *testing.T) {
	h, _ := newTestHandler()
	rr := testutil.Serve(h, http.MethodGet, "/does-not-exist", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestParseChartPath(t *testing.T) {
	index, format, err := parseChartPath("/charts/3.PNG")
	if err != nil || index != 3 || format != chart.FormatPNG {
		t.Fatalf("unexpected parse %d %q %v", index, format, err)
	}
	if _, _, err := parseChartPath("/charts/-1.svg"); err == nil {
		t.Fatalf("expected negative index rejected")
	}
}
