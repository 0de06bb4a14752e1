// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/office-pulse/auth"
	"github.com/danielhkuo/office-pulse/cliparse"
	"github.com/danielhkuo/office-pulse/db"
	"github.com/danielhkuo/office-pulse/models"
)

// EchoIP is what the fake IP echo endpoint reports
const EchoIP = "198.51.100.20"

// SetupTestDB opens an in-memory SQLite ledger with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// GetTestConfig returns a standard test configuration pointing at fake
func GetTestConfig(fake *FakeSupabase) cliparse.Config {
	return cliparse.Config{
		Port:              3318,
		DatabaseURL:       ":memory:",
		DatabaseType:      "sqlite",
		SupabaseURL:       fake.URL,
		SupabaseKey:       "test-anon-key",
		IPEchoURL:         fake.URL + "/ip",
		FormTokenSalt:     "test-form-salt",
		UpstreamTimeout:   5 * time.Second,
		RatePerMinute:     0,
		RateBurst:         1,
		MaxPerFingerprint: cliparse.DefaultMaxPerFP,
	}
}

// RecordedRequest is one call received by FakeSupabase
type RecordedRequest struct {
	Table  string
	Header http.Header
	Body   []byte
}

// Decode unmarshals the recorded body into v
func (r RecordedRequest) Decode(t *testing.T, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		t.Fatalf("Failed to decode recorded %s body: %v", r.Table, err)
	}
}

// FakeSupabase imitates the PostgREST insert endpoint and an IP echo service
type FakeSupabase struct {
	*httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
	failures map[string]int
	nextID   int
}

// NewFakeSupabase starts a fake server that is closed when the test ends
func NewFakeSupabase(t *testing.T) *FakeSupabase {
	t.Helper()

	f := &FakeSupabase{failures: make(map[string]int)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// FailTable makes inserts into table answer with status
func (f *FakeSupabase) FailTable(table string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[table] = status
}

// Requests returns the calls made to table, in order
func (f *FakeSupabase) Requests(table string) []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []RecordedRequest
	for _, r := range f.requests {
		if r.Table == table {
			out = append(out, r)
		}
	}
	return out
}

func (f *FakeSupabase) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/ip" {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"ip":%q}`, EchoIP)
		return
	}

	table, ok := strings.CutPrefix(r.URL.Path, "/rest/v1/")
	if !ok || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{Table: table, Header: r.Header.Clone(), Body: body})
	status := f.failures[table]
	f.nextID++
	id := f.nextID
	f.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}

	if r.Header.Get("Prefer") != "return=representation" {
		w.WriteHeader(http.StatusCreated)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	fmt.Fprintf(w, `[{"id":%d}]`, id)
}

// ValidForm returns a form that passes validation against the default catalog
func ValidForm() models.ExperienceForm {
	return models.ExperienceForm{
		Province:       "Bagmati",
		District:       "Lalitpur",
		Ward:           "5",
		OfficeType:     "ward_office",
		Services:       []string{"citizenship", "other"},
		ServiceOther:   "Relationship certificate",
		WaitMinutes:    90,
		Mood:           "frustrated",
		StaffRating:    2,
		ProcessRating:  1,
		BribeRequested: true,
		UsedMiddleman:  true,
	}
}

// TestEnvironment returns a fixed browser environment
func TestEnvironment() models.Environment {
	return models.Environment{
		UserAgent:        "Mozilla/5.0 (X11; Linux x86_64)",
		ScreenResolution: "1366x768",
		TimezoneOffset:   -345,
		Locale:           "ne-NP",
		Platform:         "Linux x86_64",
		Canvas:           "data:image/png;base64,iVBORw0KGgo",
	}
}

// FormTokenIssued returns a form token as if the form was opened age ago
func FormTokenIssued(t *testing.T, cfg cliparse.Config, age time.Duration) string {
	t.Helper()

	token, err := auth.GenerateFormToken(time.Now().Add(-age), cfg.FormTokenSalt)
	if err != nil {
		t.Fatalf("Failed to generate form token: %v", err)
	}
	return token
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
