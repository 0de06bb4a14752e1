package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	return w.Body.String()
}

func TestCounters(t *testing.T) {
	m := New()

	m.Submission("accepted")
	m.Submission("accepted")
	m.Submission("rejected")
	m.IPLookupFailed()
	m.SessionTrackingFailed()
	m.SessionTrackingFailed()
	m.LedgerFailed()
	m.RateLimited()
	m.ObserveUpstream("office_experiences", time.Now(), errors.New("boom"))
	m.ObserveUpstream("user_sessions", time.Now(), nil)

	body := scrape(t, m)
	for _, want := range []string{
		`office_pulse_submissions_total{outcome="accepted"} 2`,
		`office_pulse_submissions_total{outcome="rejected"} 1`,
		`office_pulse_ip_lookup_failures_total 1`,
		`office_pulse_session_tracking_failures_total 2`,
		`office_pulse_ledger_failures_total 1`,
		`office_pulse_rate_limited_total 1`,
		`office_pulse_upstream_request_duration_seconds_count{result="error",table="office_experiences"} 1`,
		`office_pulse_upstream_request_duration_seconds_count{result="ok",table="user_sessions"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestIndependentRegistries(t *testing.T) {
	// Two instances must not panic on duplicate registration
	a := New()
	b := New()
	a.Submission("accepted")

	if strings.Contains(scrape(t, b), `office_pulse_submissions_total{outcome="accepted"}`) {
		t.Error("instances share state")
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.Submission("accepted")
	m.IPLookupFailed()
	m.SessionTrackingFailed()
	m.LedgerFailed()
	m.RateLimited()
	m.ObserveUpstream("t", time.Now(), nil)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("nil metrics handler should 404, got %d", w.Code)
	}
}
