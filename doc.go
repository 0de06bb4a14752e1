// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Office Pulse API server.

Office Pulse collects anonymous citizen feedback about visits to government
offices. A browser widget renders the form; this server validates each
submission, enriches it with a browser fingerprint, client IP and completion
time, and inserts it into a Supabase project over its REST interface.

# Starting the Server

The server reads a .env file if present, then environment variables or CLI
flags:

	SUPABASE_URL=https://xyz.supabase.co SUPABASE_ANON_KEY=... FORM_TOKEN_SALT=... go run .

Or with flags:

	go run . -p 3318 -supabase-url https://xyz.supabase.co -supabase-key ... -form-salt ...

# Configuration

Required settings:

  - SUPABASE_URL (--supabase-url): Supabase project URL
  - SUPABASE_ANON_KEY (--supabase-key): Public anon key sent as apikey and bearer
  - FORM_TOKEN_SALT (--form-salt): Secret for form token HMAC and IP hashing

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): Ledger database (default: office_pulse.db)
  - IP_ECHO_URL (--ip-echo-url): Public IP lookup (default: api.ipify.org)
  - CATALOG_PATH (--catalog): YAML option catalog (default: embedded)
  - UPSTREAM_TIMEOUT (--timeout): Outbound request timeout (default: 10s)
  - RATE_PER_MINUTE, RATE_BURST (--rate, --burst): Per-IP submit limit
  - MAX_PER_FINGERPRINT (--max-per-fp): Accepted submissions per browser per day
  - TRUSTED_PROXIES (--trusted-proxies): Proxy IPs/CIDRs whose X-Forwarded-For is believed

# Architecture

  - handlers: HTTP request handlers (experiences, catalog, stats)
  - submission: Validation and the insert pipeline
  - supabase: PostgREST insert client
  - ipecho: Public IP lookup with an "unknown" fallback
  - fingerprint: Browser fingerprint hashing
  - catalog: Office types, services and moods
  - db: Local attempt ledger (SQLite or PostgreSQL)
  - metrics: Prometheus counters
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, rate limiting, JSON helpers
  - models: Request/response types
  - auth: Form tokens, IDs and IP hashing
  - cliparse: Configuration parsing
  - httpclient: Shared outbound HTTP client

See package documentation for each component.
*/
package main
