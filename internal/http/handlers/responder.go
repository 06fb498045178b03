package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/nhl-dashboard/internal/app/dashboard"
	"github.com/preston-bernstein/nhl-dashboard/internal/chart"
	"github.com/preston-bernstein/nhl-dashboard/internal/http/middleware"
	"github.com/preston-bernstein/nhl-dashboard/internal/http/requestutil"
	"github.com/preston-bernstein/nhl-dashboard/internal/logging"
	"github.com/preston-bernstein/nhl-dashboard/internal/source"
	"github.com/preston-bernstein/nhl-dashboard/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get(requestutil.HeaderRequestID)
	}
	body := map[string]string{"error": message}
	if reqID != "" {
		body["requestId"] = reqID
	}
	writeJSON(w, status, body, logger)
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}

// classify maps a service error to an HTTP status and a user-facing message.
func classify(err error) (int, string) {
	if loadErr, ok := source.AsLoadError(err); ok {
		return http.StatusServiceUnavailable, loadErr.UserMessage()
	}
	switch {
	case errors.Is(err, store.ErrNotLoaded):
		return http.StatusServiceUnavailable, "data not loaded"
	case errors.Is(err, source.ErrDataLoad):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, dashboard.ErrInvalidSelection), errors.Is(err, chart.ErrUnsupportedFormat):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, dashboard.ErrChartNotFound), errors.Is(err, chart.ErrNoData):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
