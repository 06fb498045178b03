package http

import (
	nethttp "net/http"

	"github.com/preston-bernstein/nhl-dashboard/internal/http/handlers"
)

// NewRouter registers HTTP routes on a ServeMux.
func NewRouter(handler *handlers.Handler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/health", handler.Health)
	mux.HandleFunc("/ready", handler.Ready)
	mux.HandleFunc("/api/view", handler.ViewJSON)
	mux.HandleFunc("/api/options", handler.Options)
	mux.HandleFunc("/charts/", handler.Chart)
	mux.HandleFunc("/", handler.Page)
	return mux
}
