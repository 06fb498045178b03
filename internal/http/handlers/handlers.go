package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	nethttp "net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/preston-bernstein/nhl-dashboard/internal/app/dashboard"
	"github.com/preston-bernstein/nhl-dashboard/internal/chart"
	"github.com/preston-bernstein/nhl-dashboard/internal/logging"
	"github.com/preston-bernstein/nhl-dashboard/internal/metrics"
	"github.com/preston-bernstein/nhl-dashboard/internal/store"
	"github.com/preston-bernstein/nhl-dashboard/internal/web"
)

// AppTitle is the page title of the dashboard.
const AppTitle = "NHL Hockey Dashboard"

const invalidSectionLabel = "invalid"

// Readiness reports the outcome of the table load.
type Readiness interface {
	Ready() bool
	Result() store.LoadResult
}

// ChartRenderer draws a chart description as an image.
type ChartRenderer interface {
	Render(w io.Writer, spec dashboard.ChartSpec, format chart.Format) error
}

// Handler wires HTTP routes to the dashboard service.
type Handler struct {
	svc      *dashboard.Service
	ready    Readiness
	renderer ChartRenderer
	recorder *metrics.Recorder
	logger   *slog.Logger
}

// NewHandler constructs a Handler. A nil renderer draws at the default size.
func NewHandler(svc *dashboard.Service, ready Readiness, renderer ChartRenderer, recorder *metrics.Recorder, logger *slog.Logger) *Handler {
	if renderer == nil {
		renderer = chart.NewRenderer(chart.Size{})
	}
	return &Handler{
		svc:      svc,
		ready:    ready,
		renderer: renderer,
		recorder: recorder,
		logger:   logger,
	}
}

func (h *Handler) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	switch {
	case r.URL.Path == "/health":
		h.Health(w, r)
	case r.URL.Path == "/ready":
		h.Ready(w, r)
	case r.URL.Path == "/api/view":
		h.ViewJSON(w, r)
	case r.URL.Path == "/api/options":
		h.Options(w, r)
	case strings.HasPrefix(r.URL.Path, "/charts/"):
		h.Chart(w, r)
	default:
		h.Page(w, r)
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports whether the season table loaded.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	if h.ready == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	res := h.ready.Result()
	if h.ready.Ready() {
		writeJSON(w, nethttp.StatusOK, map[string]any{
			"status": "ready",
			"source": res.Source,
			"rows":   res.Rows,
		}, h.logger)
		return
	}
	msg := "not ready"
	if res.Err != nil {
		_, msg = classify(res.Err)
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// Page renders the HTML dashboard for / and /dashboard.
func (h *Handler) Page(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/dashboard" {
		writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
		return
	}
	if r.Method != nethttp.MethodGet && r.Method != nethttp.MethodHead {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	data := web.PageData{AppTitle: AppTitle, Sections: dashboard.Sections, Active: dashboard.SectionHome}
	status := nethttp.StatusOK

	view, err := h.buildView(r)
	if err != nil {
		status, data.Error = classify(err)
		if sec, perr := dashboard.ParseSection(r.URL.Query().Get(dashboard.ParamSection)); perr == nil {
			data.Active = sec
		}
	} else {
		data.View = &view
		data.Active = view.Section
	}
	templ.Handler(web.Page(data), templ.WithStatus(status)).ServeHTTP(w, r)
}

// ViewJSON returns the view for the selection in the query string.
func (h *Handler) ViewJSON(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	view, err := h.buildView(r)
	if err != nil {
		status, msg := classify(err)
		writeError(w, r, status, msg, h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, view, h.logger)
}

// Options returns the dashboard-wide choice lists.
func (h *Handler) Options(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	catalog, err := h.svc.Options()
	if err != nil {
		status, msg := classify(err)
		writeError(w, r, status, msg, h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, catalog, h.logger)
}

// Chart serves /charts/{index}.{svg|png} for the selection in the query string.
func (h *Handler) Chart(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	index, format, err := parseChartPath(r.URL.Path)
	if err != nil {
		writeError(w, r, nethttp.StatusNotFound, err.Error(), h.logger)
		return
	}
	sel, err := dashboard.ParseSelection(r.URL.Query())
	if err != nil {
		writeError(w, r, nethttp.StatusBadRequest, err.Error(), h.logger)
		return
	}
	spec, err := h.svc.Chart(sel, index)
	if err != nil {
		status, msg := classify(err)
		writeError(w, r, status, msg, h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	start := time.Now()
	var buf bytes.Buffer
	err = h.renderer.Render(&buf, spec, format)
	h.recorder.RecordChartRender(string(spec.Type), string(format), time.Since(start), err)
	if err != nil {
		logging.Warn(logger, "chart render failed",
			slog.String(logging.FieldChart, string(spec.Type)),
			slog.Any("err", err),
		)
		status, msg := classify(err)
		writeError(w, r, status, msg, h.logger)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	// The table never changes while the process runs.
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(nethttp.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logging.Warn(logger, "chart write failed", slog.Any("err", err))
	}
}

func (h *Handler) buildView(r *nethttp.Request) (dashboard.View, error) {
	logger := loggerFromContext(r, h.logger)
	sel, err := dashboard.ParseSelection(r.URL.Query())
	if err != nil {
		return dashboard.View{}, err
	}

	start := time.Now()
	view, err := h.svc.View(sel)
	section := sectionLabel(view, sel)
	h.recorder.RecordViewBuild(section, time.Since(start), err)
	if err != nil {
		logging.Warn(logger, "view build failed",
			slog.String(logging.FieldSection, section),
			slog.Any("err", err),
		)
		return dashboard.View{}, err
	}
	logging.Info(logger, "view built",
		slog.String(logging.FieldSection, section),
		slog.Int(logging.FieldCount, len(view.Charts)),
	)
	return view, nil
}

// sectionLabel names the section for logs and metrics. Unknown sections share one
// label so query strings cannot mint new series.
func sectionLabel(view dashboard.View, sel dashboard.Selection) string {
	if view.Section != "" {
		return string(view.Section)
	}
	if sec, err := dashboard.ParseSection(string(sel.Section)); err == nil {
		return string(sec)
	}
	return invalidSectionLabel
}

func parseChartPath(path string) (int, chart.Format, error) {
	name := strings.TrimPrefix(path, "/charts/")
	rawIndex, ext, ok := strings.Cut(name, ".")
	if !ok || rawIndex == "" || strings.Contains(ext, "/") {
		return 0, "", fmt.Errorf("invalid chart path %q", path)
	}
	index, err := strconv.Atoi(rawIndex)
	if err != nil || index < 0 {
		return 0, "", fmt.Errorf("invalid chart index %q", rawIndex)
	}
	format, err := chart.ParseFormat(ext)
	if err != nil {
		return 0, "", err
	}
	return index, format, nil
}
