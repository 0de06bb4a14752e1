// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics exposes Prometheus counters for the submission pipeline.

	m := metrics.New()
	mux.Handle("GET /metrics", m.Handler())

Series (namespace office_pulse):

  - submissions_total{outcome}
  - ip_lookup_failures_total
  - session_tracking_failures_total
  - ledger_failures_total
  - rate_limited_total
  - upstream_request_duration_seconds{table,result}

A nil *Metrics is valid and records nothing.
*/
package metrics
