// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Office Pulse API.

# Handler Types

  - ExperienceHandler: form tokens and experience submission
  - CatalogHandler: the option lists the widget renders
  - StatsHandler: attempt counts from the local ledger

Handlers are created via constructor functions:

	experienceHandler := handlers.NewExperienceHandler(submitter, cfg)
	statsHandler := handlers.NewStatsHandler(db, cfg)

# Submission Flow

The widget opens a form, lets the citizen fill it in, then posts it:

	GET  /forms/start  → StartForm (returns form_token)
	POST /experiences  → Submit

The form token is an HMAC-signed issue time. Submit reads it from the
X-Form-Token header (or form_token in the body), and the seconds elapsed
since issue become completion_seconds. Forms completed in under 30 seconds
are rejected, and each token can be submitted once.

Submit always answers with a SubmitResult:

	201 {"success":true,"id":"42"}
	400 {"success":false,"error":"...","problems":[...]}   invalid JSON, token or form
	429 {"success":false,"error":"..."}                     per-fingerprint cap
	502 {"success":false,"error":"HTTP 500: Internal Server Error"}

# Catalog and Stats

	GET /catalog → GetCatalog
	GET /stats   → GetStats (outcome counts for the last 24 hours)
*/
package handlers
