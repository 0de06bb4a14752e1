// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status,
duration_ms). Every request gets an X-Request-ID, taken from the incoming
header or generated as a UUID, echoed in the response and in both log lines.

# Rate Limiting

Per-IP token buckets from golang.org/x/time/rate:

	rl := middleware.NewRateLimiter(cfg.RatePerMinute, cfg.RateBurst)
	mux.HandleFunc("POST /experiences", middleware.WithLogging(rl.Limit(h.Submit)))

Refused requests get 429 with Retry-After. Buckets idle for ten minutes are
dropped.

# CORS Middleware

The widget is embedded on other sites, so any origin is reflected:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows GET, POST, OPTIONS with headers Content-Type, X-Form-Token,
X-Request-ID.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.SubmitExperienceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

Bodies over MaxBodyBytes are rejected.

# Client IP Extraction

	ip := middleware.ClientIP(r, cfg.TrustedProxies)

Returns the connecting peer unless it sits in a trusted proxy prefix. Only
then are X-Forwarded-For (right-most hop that is not a trusted proxy) and
X-Real-IP consulted. GetClientIP trusts nobody. The result is the rate limit
key and the first choice for the submitted ip_address.
*/
package middleware
