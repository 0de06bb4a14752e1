// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires HTTP routes to handlers.

# Route Table

	GET  /health        → Health check (returns "OK")
	GET  /              → API version string
	GET  /catalog       → CatalogHandler.GetCatalog
	GET  /forms/start   → ExperienceHandler.StartForm
	POST /experiences   → ExperienceHandler.Submit (rate limited per IP)
	GET  /stats         → StatsHandler.GetStats
	GET  /metrics       → Prometheus exposition

# Usage

	cat, _ := catalog.Load(cfg.CatalogPath)
	mux := router.NewRouter(dbConn, cfg, cat, metrics.New())
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":3318",
	}

NewRouter builds the Supabase client, the IP echo client, the ledger and the
submitter from cfg, so handlers only see the submission pipeline.

# Middleware

All routes except /health and /metrics are wrapped with WithLogging.
POST /experiences additionally goes through the per-IP rate limiter.
CORS is applied at the server level in main.go.

Routes use Go 1.22+ method patterns (e.g., "POST /experiences").
*/
package router
