// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/office-pulse/catalog"
	"github.com/danielhkuo/office-pulse/cliparse"
	"github.com/danielhkuo/office-pulse/db"
	"github.com/danielhkuo/office-pulse/handlers"
	"github.com/danielhkuo/office-pulse/ipecho"
	"github.com/danielhkuo/office-pulse/metrics"
	"github.com/danielhkuo/office-pulse/middleware"
	"github.com/danielhkuo/office-pulse/submission"
	"github.com/danielhkuo/office-pulse/supabase"
)

// NewRouter wires every route. m may be nil, in which case /metrics is 404.
func NewRouter(conn *sql.DB, cfg cliparse.Config, cat *catalog.Catalog, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()

	// Submission pipeline
	submitter := submission.NewSubmitter(
		supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, cfg.UpstreamTimeout),
		ipecho.New(cfg.IPEchoURL, cfg.UpstreamTimeout),
		db.NewLedger(conn),
		cat,
		m,
		submission.Options{
			IPSalt:            cfg.FormTokenSalt,
			MaxPerFingerprint: cfg.MaxPerFingerprint,
			DetachedTimeout:   cfg.UpstreamTimeout,
		},
	)

	limiter := middleware.NewRateLimiter(cfg.RatePerMinute, cfg.RateBurst)
	limiter.OnLimited = m.RateLimited
	limiter.TrustedProxies = cfg.TrustedProxies

	// Initialize handlers
	experienceHandler := handlers.NewExperienceHandler(submitter, cfg)
	catalogHandler := handlers.NewCatalogHandler(cat)
	statsHandler := handlers.NewStatsHandler(conn, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Widget
	mux.HandleFunc("GET /catalog", middleware.WithLogging(catalogHandler.GetCatalog))
	mux.HandleFunc("GET /forms/start", middleware.WithLogging(experienceHandler.StartForm))
	mux.HandleFunc("POST /experiences", middleware.WithLogging(limiter.Limit(experienceHandler.Submit)))

	// Operations
	mux.HandleFunc("GET /stats", middleware.WithLogging(statsHandler.GetStats))
	mux.Handle("GET /metrics", m.Handler())

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("office-pulse API v1"))
	})

	return mux
}
