package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/preston-bernstein/nhl-dashboard/internal/config"
	"github.com/preston-bernstein/nhl-dashboard/internal/metrics"
	"github.com/preston-bernstein/nhl-dashboard/internal/store"
	"github.com/preston-bernstein/nhl-dashboard/internal/testutil"
)

type closingLoader struct {
	testutil.StubLoader
	closeCalls int
	closeErr   error
}

func (c *closingLoader) Close() error {
	c.closeCalls++
	return c.closeErr
}

func csvConfig(path string) config.Config {
	cfg := config.Defaults()
	cfg.Port = "0"
	cfg.Source.Path = path
	cfg.Metrics.Enabled = false
	return cfg
}

func TestServerServesDashboardAfterLoad(t *testing.T) {
	cfg := csvConfig(testutil.WriteCSV(t, testutil.SampleCSV))
	rec := metrics.NewRecorder()
	srv := newServerWithMetrics(cfg, nil, nil, rec)

	res := srv.loadTable(context.Background())
	if res.Err != nil || res.Rows != 8 {
		t.Fatalf("unexpected load result %+v", res)
	}
	if snap := rec.TableLoads("csv"); snap.Attempts != 1 || snap.Rows != 8 {
		t.Fatalf("expected load recorded, got %+v", snap)
	}

	router := srv.Handler()

	readyRec := httptest.NewRecorder()
	router.ServeHTTP(readyRec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if readyRec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /ready, got %d", readyRec.Code)
	}

	pageRec := httptest.NewRecorder()
	router.ServeHTTP(pageRec, httptest.NewRequest(http.MethodGet, "/dashboard?section=overview&season=1990", nil))
	if pageRec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /dashboard, got %d", pageRec.Code)
	}
	if !strings.Contains(pageRec.Body.String(), "Top Teams by Goals For in 1990") {
		t.Fatalf("expected overview chart on page")
	}
	if pageRec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected middleware to set a request id")
	}
}

func TestServerKeepsServingWhenLoadFails(t *testing.T) {
	cfg := csvConfig("does-not-exist.csv")
	rec := metrics.NewRecorder()
	srv := newServerWithMetrics(cfg, nil, nil, rec)

	res := srv.loadTable(context.Background())
	if res.Err == nil {
		t.Fatalf("expected load failure")
	}
	if snap := rec.TableLoads("csv"); snap.Errors != 1 {
		t.Fatalf("expected load error recorded, got %+v", snap)
	}

	router := srv.Handler()

	healthRec := httptest.NewRecorder()
	router.ServeHTTP(healthRec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if healthRec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", healthRec.Code)
	}

	pageRec := httptest.NewRecorder()
	router.ServeHTTP(pageRec, httptest.NewRequest(http.MethodGet, "/dashboard?section=win-percentage", nil))
	if pageRec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 from /dashboard, got %d", pageRec.Code)
	}
	if !strings.Contains(pageRec.Body.String(), "does-not-exist.csv&#39; was not found.") {
		t.Fatalf("expected missing file message, got %s", pageRec.Body.String())
	}
}

func TestServerLoadsTableOnce(t *testing.T) {
	loader := &testutil.StubLoader{Table: testutil.SampleTable()}
	srv := newServerWithMetrics(csvConfig(""), nil, loader, metrics.NewRecorder())

	srv.loadTable(context.Background())
	srv.loadTable(context.Background())

	if loader.Calls() != 1 {
		t.Fatalf("expected loader called once, got %d", loader.Calls())
	}
}

func TestNewConstructsServer(t *testing.T) {
	srv := New(csvConfig("Hockey_data.csv"), nil)
	if srv == nil || srv.Handler() == nil {
		t.Fatalf("expected server with handler")
	}
	if srv.service == nil || srv.loader.Name() != config.SourceCSV {
		t.Fatalf("expected csv loader wiring")
	}
}

func TestGracefulShutdownCallsShutdownAndClosesLoader(t *testing.T) {
	loader := &closingLoader{}
	httpSrv := &testutil.StubHTTPServer{}

	srv := newServerWithDeps(config.Config{}, nil, store.NewTableCache(), loader, httpSrv)
	srv.gracefulShutdown()

	if httpSrv.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", httpSrv.ShutdownCalls)
	}
	if loader.closeCalls != 1 {
		t.Fatalf("expected loader Close to be called once, got %d", loader.closeCalls)
	}
}

func TestGracefulShutdownContinuesWhenCloseErrors(t *testing.T) {
	loader := &closingLoader{closeErr: errors.New("close failure")}
	httpSrv := &testutil.StubHTTPServer{}
	logger, buf := testutil.NewBufferLogger()

	srv := newServerWithDeps(config.Config{}, logger, store.NewTableCache(), loader, httpSrv)
	srv.gracefulShutdown()

	if loader.closeCalls != 1 {
		t.Fatalf("expected loader Close to be called once, got %d", loader.closeCalls)
	}
	if !strings.Contains(buf.String(), "failed to close data source") {
		t.Fatalf("expected close failure to be logged")
	}
}

func TestGracefulShutdownTimesOutLongRunningShutdown(t *testing.T) {
	blocking := &testutil.BlockingHTTPServer{
		AddrVal:    ":0",
		HandlerVal: http.NewServeMux(),
		Unblock:    make(chan struct{}),
	}

	original := shutdownTimeout
	shutdownTimeout = 5 * time.Millisecond
	defer func() { shutdownTimeout = original }()

	srv := newServerWithDeps(config.Config{}, nil, store.NewTableCache(), &testutil.StubLoader{}, blocking)

	start := time.Now()
	srv.gracefulShutdown()
	elapsed := time.Since(start)

	if blocking.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", blocking.ShutdownCalls)
	}
	if elapsed > 200*time.Millisecond {
		t.Fatalf("shutdown took too long: %s", elapsed)
	}
}

func TestServerStartHandlesListenErrorAndStops(t *testing.T) {
	httpSrv := &testutil.ErrHTTPServer{}
	srv := newServerWithDeps(config.Config{}, nil, store.NewTableCache(), &testutil.StubLoader{}, httpSrv)

	var wg sync.WaitGroup
	wg.Add(1)
	stopCalled := make(chan struct{})
	stop := func() {
		close(stopCalled)
		wg.Done()
	}

	srv.startServer(stop)

	select {
	case <-stopCalled:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected stop to be called on listen failure")
	}

	wg.Wait()
}

func TestRunLoadsTableAndStopsComponents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tables := store.NewTableCache()
	loader := &testutil.StubLoader{Table: testutil.SampleTable()}
	httpSrv := &testutil.CloseableHTTPServer{}

	srv := newServerWithDeps(config.Config{}, nil, tables, loader, httpSrv)

	done := make(chan struct{})
	go func() {
		srv.Run(ctx, cancel)
		close(done)
	}()

	deadline := time.After(500 * time.Millisecond)
	for !tables.Ready() {
		select {
		case <-deadline:
			t.Fatal("table was not loaded")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("run did not return after cancel")
	}

	if loader.Calls() != 1 {
		t.Fatalf("expected loader called once, got %d", loader.Calls())
	}
	if httpSrv.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown called once, got %d", httpSrv.ShutdownCalls)
	}
}
