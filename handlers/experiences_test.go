// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/office-pulse/auth"
	"github.com/danielhkuo/office-pulse/cliparse"
	"github.com/danielhkuo/office-pulse/models"
	"github.com/danielhkuo/office-pulse/submission"
	"github.com/danielhkuo/office-pulse/testutil"
)

// stubSubmitter returns a canned result and remembers its input
type stubSubmitter struct {
	result models.SubmitResult
	got    *submission.Input
}

func (s *stubSubmitter) Submit(ctx context.Context, in submission.Input) models.SubmitResult {
	s.got = &in
	return s.result
}

func testConfig() cliparse.Config {
	return cliparse.Config{FormTokenSalt: "test-form-salt"}
}

func submitBody() models.SubmitExperienceRequest {
	return models.SubmitExperienceRequest{
		ExperienceForm: testutil.ValidForm(),
		Environment:    testutil.TestEnvironment(),
	}
}

func TestStartForm(t *testing.T) {
	cfg := testConfig()
	h := NewExperienceHandler(&stubSubmitter{}, cfg)
	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return fixed }

	w := httptest.NewRecorder()
	h.StartForm(w, httptest.NewRequest("GET", "/forms/start", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.StartFormResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.MinCompletionSeconds != models.MinCompletionSeconds {
		t.Errorf("Expected min_completion_seconds %d, got %d", models.MinCompletionSeconds, resp.MinCompletionSeconds)
	}
	if !resp.IssuedAt.Equal(fixed) {
		t.Errorf("Expected issued_at %v, got %v", fixed, resp.IssuedAt)
	}

	issuedAt, err := auth.ParseFormToken(resp.FormToken, cfg.FormTokenSalt, fixed, FormTokenMaxAge)
	if err != nil {
		t.Fatalf("Returned token does not verify: %v", err)
	}
	if !issuedAt.Equal(fixed) {
		t.Errorf("Token issue time %v, want %v", issuedAt, fixed)
	}
}

func TestSubmit_StatusMapping(t *testing.T) {
	testCases := []struct {
		name     string
		result   models.SubmitResult
		expected int
	}{
		{"accepted", models.SubmitResult{Success: true, ID: "1", Outcome: models.OutcomeAccepted}, http.StatusCreated},
		{"rejected", models.SubmitResult{Error: "province is required", Outcome: models.OutcomeRejected}, http.StatusBadRequest},
		{"throttled", models.SubmitResult{Error: "too many", Outcome: models.OutcomeThrottled}, http.StatusTooManyRequests},
		{"failed", models.SubmitResult{Error: "HTTP 500: Internal Server Error", Outcome: models.OutcomeFailed}, http.StatusBadGateway},
	}

	cfg := testConfig()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewExperienceHandler(&stubSubmitter{result: tc.result}, cfg)

			req := testutil.MakeRequest("POST", "/experiences", submitBody(), map[string]string{
				FormTokenHeader: testutil.FormTokenIssued(t, cfg, time.Minute),
			})
			w := httptest.NewRecorder()
			h.Submit(w, req)

			testutil.AssertStatus(t, w, tc.expected)

			var got models.SubmitResult
			testutil.AssertJSON(t, w, &got)
			if got.Success != tc.result.Success || got.ID != tc.result.ID || got.Error != tc.result.Error {
				t.Errorf("Expected %+v, got %+v", tc.result, got)
			}
		})
	}
}

func TestSubmit_PassesRequestContext(t *testing.T) {
	cfg := testConfig()
	cfg.TrustedProxies = []netip.Prefix{netip.MustParsePrefix("192.0.2.0/24")}
	stub := &stubSubmitter{result: models.SubmitResult{Success: true, Outcome: models.OutcomeAccepted}}
	h := NewExperienceHandler(stub, cfg)

	token := testutil.FormTokenIssued(t, cfg, 95*time.Second)
	req := testutil.MakeRequest("POST", "/experiences", submitBody(), map[string]string{
		FormTokenHeader:   token,
		"X-Forwarded-For": "203.0.113.44",
		"User-Agent":      "widget-test",
	})
	w := httptest.NewRecorder()
	h.Submit(w, req)

	if stub.got == nil {
		t.Fatal("Submitter was not called")
	}
	if stub.got.ClientIP != "203.0.113.44" {
		t.Errorf("Expected client IP from X-Forwarded-For, got %q", stub.got.ClientIP)
	}
	if want := auth.FormTokenNonce(token); want == "" || stub.got.FormNonce != want {
		t.Errorf("Expected form nonce %q, got %q", want, stub.got.FormNonce)
	}
	if stub.got.UserAgent != "widget-test" {
		t.Errorf("Expected user agent header, got %q", stub.got.UserAgent)
	}
	// Allow a second of slack for slow test machines
	if s := stub.got.CompletionSeconds; s < 95 || s > 96 {
		t.Errorf("Expected ~95 completion seconds, got %d", s)
	}
	if stub.got.Form.Province != "Bagmati" || stub.got.Environment.Locale != "ne-NP" {
		t.Errorf("Form or environment not passed through: %+v", stub.got)
	}
}

func TestSubmit_TokenInBody(t *testing.T) {
	cfg := testConfig()
	stub := &stubSubmitter{result: models.SubmitResult{Success: true, Outcome: models.OutcomeAccepted}}
	h := NewExperienceHandler(stub, cfg)

	body := submitBody()
	body.FormToken = testutil.FormTokenIssued(t, cfg, time.Minute)

	w := httptest.NewRecorder()
	h.Submit(w, testutil.MakeRequest("POST", "/experiences", body, nil))

	testutil.AssertStatus(t, w, http.StatusCreated)
}

func TestSubmit_BadRequests(t *testing.T) {
	cfg := testConfig()
	otherSalt := cliparse.Config{FormTokenSalt: "other-salt"}

	testCases := []struct {
		name      string
		body      string
		token     func(t *testing.T) string
		errSubstr string
	}{
		{
			name:      "invalid JSON",
			body:      `{not json`,
			token:     func(t *testing.T) string { return testutil.FormTokenIssued(t, cfg, time.Minute) },
			errSubstr: "Invalid JSON",
		},
		{
			name:      "missing token",
			body:      `{}`,
			token:     func(t *testing.T) string { return "" },
			errSubstr: "form token is required",
		},
		{
			name:      "malformed token",
			body:      `{}`,
			token:     func(t *testing.T) string { return "garbage" },
			errSubstr: "Invalid form token",
		},
		{
			name:      "token signed with another salt",
			body:      `{}`,
			token:     func(t *testing.T) string { return testutil.FormTokenIssued(t, otherSalt, time.Minute) },
			errSubstr: "Invalid form token",
		},
		{
			name:      "expired token",
			body:      `{}`,
			token:     func(t *testing.T) string { return testutil.FormTokenIssued(t, cfg, FormTokenMaxAge+time.Hour) },
			errSubstr: "expired",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubSubmitter{}
			h := NewExperienceHandler(stub, cfg)

			req := httptest.NewRequest("POST", "/experiences", strings.NewReader(tc.body))
			if tok := tc.token(t); tok != "" {
				req.Header.Set(FormTokenHeader, tok)
			}
			w := httptest.NewRecorder()
			h.Submit(w, req)

			testutil.AssertStatus(t, w, http.StatusBadRequest)

			var got models.SubmitResult
			testutil.AssertJSON(t, w, &got)
			if got.Success || !strings.Contains(got.Error, tc.errSubstr) {
				t.Errorf("Expected error containing %q, got %+v", tc.errSubstr, got)
			}
			if stub.got != nil {
				t.Error("Submitter must not be called for bad requests")
			}
		})
	}
}
