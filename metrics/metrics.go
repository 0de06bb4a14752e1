package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so several instances can coexist in tests.
// All methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	submissions     *prometheus.CounterVec
	ipLookupFails   prometheus.Counter
	sessionFails    prometheus.Counter
	ledgerFails     prometheus.Counter
	rateLimited     prometheus.Counter
	upstreamLatency *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.submissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "office_pulse",
		Name:      "submissions_total",
		Help:      "Submission attempts by outcome",
	}, []string{"outcome"})
	m.ipLookupFails = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "office_pulse",
		Name:      "ip_lookup_failures_total",
		Help:      "IP echo lookups that fell back to unknown",
	})
	m.sessionFails = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "office_pulse",
		Name:      "session_tracking_failures_total",
		Help:      "Failed user_sessions inserts",
	})
	m.ledgerFails = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "office_pulse",
		Name:      "ledger_failures_total",
		Help:      "Local ledger reads or writes that failed",
	})
	m.rateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "office_pulse",
		Name:      "rate_limited_total",
		Help:      "Requests refused by the per-IP rate limiter",
	})
	m.upstreamLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "office_pulse",
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of Supabase inserts",
		Buckets:   prometheus.DefBuckets,
	}, []string{"table", "result"})

	m.registry.MustRegister(
		m.submissions, m.ipLookupFails, m.sessionFails,
		m.ledgerFails, m.rateLimited, m.upstreamLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Submission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IPLookupFailed() {
	if m == nil {
		return
	}
	m.ipLookupFails.Inc()
}

func (m *Metrics) SessionTrackingFailed() {
	if m == nil {
		return
	}
	m.sessionFails.Inc()
}

func (m *Metrics) LedgerFailed() {
	if m == nil {
		return
	}
	m.ledgerFails.Inc()
}

func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

// ObserveUpstream records one Supabase call; result is "ok" or "error"
func (m *Metrics) ObserveUpstream(table string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.upstreamLatency.WithLabelValues(table, result).Observe(time.Since(start).Seconds())
}
