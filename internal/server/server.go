package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/nhl-dashboard/internal/app/dashboard"
	"github.com/preston-bernstein/nhl-dashboard/internal/chart"
	"github.com/preston-bernstein/nhl-dashboard/internal/config"
	httpserver "github.com/preston-bernstein/nhl-dashboard/internal/http"
	"github.com/preston-bernstein/nhl-dashboard/internal/http/handlers"
	"github.com/preston-bernstein/nhl-dashboard/internal/http/middleware"
	"github.com/preston-bernstein/nhl-dashboard/internal/logging"
	"github.com/preston-bernstein/nhl-dashboard/internal/metrics"
	"github.com/preston-bernstein/nhl-dashboard/internal/store"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	tables        *store.TableCache
	loader        store.Loader
	service       *dashboard.Service
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
}

// New constructs a server with the loader named by the configuration.
func New(cfg config.Config, logger *slog.Logger) *Server {
	return newServerWithLoader(cfg, logger, nil)
}

func newServerWithLoader(cfg config.Config, logger *slog.Logger, loader store.Loader) *Server {
	return newServerWithMetrics(cfg, logger, loader, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, loader store.Loader, recorder *metrics.Recorder) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	if loader == nil {
		loader = SelectLoader(cfg, logger)
	}
	tables := store.NewTableCache()
	svc := dashboard.NewService(tables)
	httpSrv := buildHTTPServer(cfg, svc, tables, logger, recorder)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		tables:        tables,
		loader:        loader,
		service:       svc,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, tables *store.TableCache, loader store.Loader, httpSrv httpServer) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		tables:     tables,
		loader:     loader,
		service:    dashboard.NewService(tables),
		httpServer: httpSrv,
	}
}

func buildHTTPServer(cfg config.Config, svc *dashboard.Service, tables *store.TableCache, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	renderer := chart.NewRenderer(chart.Size{Width: cfg.Render.Width, Height: cfg.Render.Height})
	handler := handlers.NewHandler(svc, tables, renderer, recorder, logger)
	router := httpserver.NewRouter(handler)
	wrapped := middleware.LoggingMiddleware(logger, recorder, router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the HTTP server, loads the season table once, then waits for context
// cancellation to shut down gracefully. A failed load leaves the server up so every
// page can report it.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.loadTable(ctx)

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) loadTable(ctx context.Context) store.LoadResult {
	res := s.tables.Load(ctx, s.loader)
	s.metrics.RecordTableLoad(res.Source, res.Rows, res.Duration, res.Err)
	if res.Err != nil {
		logging.Error(s.logger, "season table load failed", res.Err, slog.String(logging.FieldSource, res.Source))
		return res
	}
	logging.Info(s.logger, "season table loaded",
		slog.String(logging.FieldSource, res.Source),
		slog.Int(logging.FieldRows, res.Rows),
		slog.Int64(logging.FieldDurationMS, res.Duration.Milliseconds()),
	)
	return res
}

func (s *Server) startServer(stop context.CancelFunc) {
	if s.logger != nil {
		s.logger.Info("http server starting", slog.String("addr", s.httpServer.Addr()))
	}
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	if s.logger != nil {
		s.logger.Info("metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	// Database-backed loaders hold a connection pool for the life of the process.
	if c, ok := s.loader.(io.Closer); ok {
		if err := c.Close(); err != nil && s.logger != nil {
			s.logger.Warn("failed to close data source", "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
