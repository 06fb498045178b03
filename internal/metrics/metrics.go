package metrics

import (
	"sync"
	"time"
)

type loadStats struct {
	attempts     int
	errors       int
	rows         int
	lastDuration time.Duration
}

// Recorder captures lightweight, in-memory metrics about table loads, view builds,
// and chart renders, forwarding them to OpenTelemetry when configured.
type Recorder struct {
	mu       sync.Mutex
	loads    map[string]*loadStats
	views    map[string]int
	viewErrs map[string]int
	charts   map[string]int
	otel     *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		loads:    make(map[string]*loadStats),
		views:    make(map[string]int),
		viewErrs: make(map[string]int),
		charts:   make(map[string]int),
		otel:     otel,
	}
}

// RecordTableLoad tracks one attempt to load the season table from a source.
func (r *Recorder) RecordTableLoad(source string, rows int, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.loads[source]
	if !ok {
		stats = &loadStats{}
		r.loads[source] = stats
	}
	stats.attempts++
	stats.lastDuration = duration
	if err != nil {
		stats.errors++
	} else {
		stats.rows = rows
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordTableLoad(source, rows, duration, err)
	}
}

// RecordViewBuild tracks building one section view.
func (r *Recorder) RecordViewBuild(section string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.views[section]++
	if err != nil {
		r.viewErrs[section]++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordViewBuild(section, duration, err)
	}
}

// RecordChartRender tracks drawing one chart image.
func (r *Recorder) RecordChartRender(chartType, format string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.charts[chartType]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordChartRender(chartType, format, duration, err)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// LoadSnapshot is a copy of the load stats for one source.
type LoadSnapshot struct {
	Attempts     int
	Errors       int
	Rows         int
	LastDuration time.Duration
}

// TableLoads returns the load stats recorded for source.
func (r *Recorder) TableLoads(source string) LoadSnapshot {
	if r == nil {
		return LoadSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.loads[source]
	if !ok {
		return LoadSnapshot{}
	}
	return LoadSnapshot{
		Attempts:     stats.attempts,
		Errors:       stats.errors,
		Rows:         stats.rows,
		LastDuration: stats.lastDuration,
	}
}

// ViewBuilds returns how many views were built for section, and how many failed.
func (r *Recorder) ViewBuilds(section string) (total, failed int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.views[section], r.viewErrs[section]
}

// ChartRenders returns how many charts of the given type were drawn.
func (r *Recorder) ChartRenders(chartType string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.charts[chartType]
}
