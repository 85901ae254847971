// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/pollxblock/cliparse"
	"github.com/danielhkuo/pollxblock/handlers"
	"github.com/danielhkuo/pollxblock/metrics"
	"github.com/danielhkuo/pollxblock/middleware"
)

// NewRouter registers all routes. Metrics are recorded into reg and served
// from the same registry on /metrics.
func NewRouter(db *sql.DB, cfg cliparse.Config, reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	rec := metrics.NewRecorder(reg)

	// Initialize handlers
	blockHandler := handlers.NewBlockHandler(db, cfg, rec)
	commandHandler := handlers.NewCommandHandler(db, cfg, rec)
	learnerHandler := handlers.NewLearnerHandler(db, cfg, rec)
	viewHandler := handlers.NewViewHandler(db, cfg)

	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.WithMetrics(rec, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// Block lifecycle and XML
	mux.HandleFunc("POST /blocks", wrap(blockHandler.CreateBlock))
	mux.HandleFunc("POST /blocks/import", wrap(blockHandler.ImportBlock))
	mux.HandleFunc("GET /blocks/{id}/export", wrap(blockHandler.ExportBlock))
	mux.HandleFunc("DELETE /blocks/{id}", wrap(blockHandler.DeleteBlock))

	// Learners
	mux.HandleFunc("POST /blocks/{id}/learners", wrap(learnerHandler.Register))

	// Commands
	mux.HandleFunc("POST /blocks/{id}/handler/{command}", wrap(commandHandler.HandleCommand))

	// Views
	mux.HandleFunc("GET /blocks/{id}/student_view", wrap(viewHandler.StudentView))
	mux.HandleFunc("GET /blocks/{id}/studio_view", wrap(viewHandler.StudioView))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pollxblock runtime v1"))
	})

	return mux
}
