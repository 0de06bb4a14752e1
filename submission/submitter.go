// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package submission

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/danielhkuo/office-pulse/auth"
	"github.com/danielhkuo/office-pulse/catalog"
	"github.com/danielhkuo/office-pulse/fingerprint"
	"github.com/danielhkuo/office-pulse/metrics"
	"github.com/danielhkuo/office-pulse/models"
	"github.com/danielhkuo/office-pulse/supabase"
)

// Store is the remote table writer, satisfied by *supabase.Client
type Store interface {
	Insert(ctx context.Context, table string, record any, prefer string) ([]byte, error)
	InsertReturningID(ctx context.Context, table string, record any) (string, error)
}

// IPResolver returns the public IP of this host, or models.UnknownIP.
// Satisfied by *ipecho.Client.
type IPResolver interface {
	Lookup(ctx context.Context) string
}

// Ledger is the local attempt log, satisfied by *db.Ledger
type Ledger interface {
	RecordAttempt(ctx context.Context, a models.Attempt) error
	CountAccepted(ctx context.Context, fingerprint string, since time.Time) (int, error)
	ClaimNonce(ctx context.Context, nonce string, at time.Time) (bool, error)
	ReleaseNonce(ctx context.Context, nonce string) error
}

const (
	DefaultThrottleWindow  = 24 * time.Hour
	DefaultDetachedTimeout = 10 * time.Second
)

var (
	// ErrThrottled is reported when a fingerprint has used up its allowance
	ErrThrottled = errors.New("too many submissions from this device, try again later")
	// ErrFormReused is reported when a form token was already spent
	ErrFormReused = errors.New("form token already used, reload the form")
)

type Options struct {
	// IPSalt keys the IP hash stored in the ledger
	IPSalt string
	// MaxPerFingerprint caps accepted submissions per fingerprint inside
	// ThrottleWindow. 0 disables the check.
	MaxPerFingerprint int
	ThrottleWindow    time.Duration
	// DetachedTimeout bounds the session insert and ledger write, which
	// outlive the client request
	DetachedTimeout time.Duration
}

// Input is one submission as received from the widget
type Input struct {
	Form        models.ExperienceForm
	Environment models.Environment
	// ClientIP is the address the request came from; private or missing
	// addresses trigger an IP echo lookup
	ClientIP string
	// UserAgent is used when the environment carries none
	UserAgent         string
	CompletionSeconds int
	// FormNonce identifies the handed-out form; each may be submitted once.
	// Empty skips the check.
	FormNonce string
}

// Submitter runs the validate, enrich, insert, track pipeline.
// It holds no per-request state and is safe for concurrent use.
type Submitter struct {
	store   Store
	ip      IPResolver
	ledger  Ledger
	catalog *catalog.Catalog
	metrics *metrics.Metrics
	opts    Options
	now     func() time.Time
}

// NewSubmitter wires the pipeline. ip, ledger, cat and m may be nil.
func NewSubmitter(store Store, ip IPResolver, ledger Ledger, cat *catalog.Catalog, m *metrics.Metrics, opts Options) *Submitter {
	if opts.ThrottleWindow <= 0 {
		opts.ThrottleWindow = DefaultThrottleWindow
	}
	if opts.DetachedTimeout <= 0 {
		opts.DetachedTimeout = DefaultDetachedTimeout
	}
	return &Submitter{
		store:   store,
		ip:      ip,
		ledger:  ledger,
		catalog: cat,
		metrics: m,
		opts:    opts,
		now:     time.Now,
	}
}

// Submit validates and stores one experience. Failures are reported in the
// result, never as a panic or error return; nothing is retried.
func (s *Submitter) Submit(ctx context.Context, in Input) models.SubmitResult {
	env := in.Environment
	if env.UserAgent == "" {
		env.UserAgent = in.UserAgent
	}
	fp := fingerprint.Generate(env)

	attempt := models.Attempt{
		Fingerprint:       fp,
		UserAgent:         env.UserAgent,
		CompletionSeconds: in.CompletionSeconds,
	}
	ledgerIP := in.ClientIP

	// Validate
	if err := Validate(in.Form, in.CompletionSeconds, s.catalog); err != nil {
		var ve *ValidationError
		errors.As(err, &ve)
		slog.Info("submission rejected", "fingerprint", fp, "problems", len(ve.Problems))
		result := models.SubmitResult{
			Error:    err.Error(),
			Problems: ve.Problems,
			Outcome:  models.OutcomeRejected,
		}
		return s.finish(ctx, attempt, ledgerIP, result)
	}

	// Throttle
	if s.throttled(ctx, fp) {
		slog.Warn("submission throttled", "fingerprint", fp)
		result := models.SubmitResult{
			Error:   ErrThrottled.Error(),
			Outcome: models.OutcomeThrottled,
		}
		return s.finish(ctx, attempt, ledgerIP, result)
	}

	// One submission per form
	if !s.claimNonce(ctx, in.FormNonce) {
		slog.Warn("form token reused", "fingerprint", fp)
		result := models.SubmitResult{
			Error:   ErrFormReused.Error(),
			Outcome: models.OutcomeRejected,
		}
		return s.finish(ctx, attempt, ledgerIP, result)
	}

	// Enrich
	ip := s.resolveIP(ctx, in.ClientIP)
	ledgerIP = ip
	record := buildRecord(in.Form, ip, env.UserAgent, in.CompletionSeconds, fp)

	// Insert
	start := time.Now()
	id, err := s.store.InsertReturningID(ctx, supabase.TableOfficeExperiences, record)
	s.metrics.ObserveUpstream(supabase.TableOfficeExperiences, start, err)
	if err != nil {
		slog.Error("failed to insert experience", "error", err, "fingerprint", fp)
		s.releaseNonce(ctx, in.FormNonce)
		result := models.SubmitResult{
			Error:   err.Error(),
			Outcome: models.OutcomeFailed,
		}
		return s.finish(ctx, attempt, ledgerIP, result)
	}

	s.trackSession(ctx, ip, fp)

	slog.Info("experience submitted", "id", id, "fingerprint", fp)
	result := models.SubmitResult{
		Success: true,
		ID:      id,
		Outcome: models.OutcomeAccepted,
	}
	return s.finish(ctx, attempt, ledgerIP, result)
}

// throttled fails open when the ledger is unavailable
func (s *Submitter) throttled(ctx context.Context, fp string) bool {
	if s.ledger == nil || s.opts.MaxPerFingerprint <= 0 {
		return false
	}

	n, err := s.ledger.CountAccepted(ctx, fp, s.now().Add(-s.opts.ThrottleWindow))
	if err != nil {
		slog.Warn("failed to check fingerprint allowance", "error", err)
		s.metrics.LedgerFailed()
		return false
	}
	return n >= s.opts.MaxPerFingerprint
}

// claimNonce fails open when the ledger is unavailable
func (s *Submitter) claimNonce(ctx context.Context, nonce string) bool {
	if s.ledger == nil || nonce == "" {
		return true
	}

	ok, err := s.ledger.ClaimNonce(ctx, nonce, s.now())
	if err != nil {
		slog.Warn("failed to claim form nonce", "error", err)
		s.metrics.LedgerFailed()
		return true
	}
	return ok
}

// releaseNonce lets the widget retry the same form after an upstream failure
func (s *Submitter) releaseNonce(ctx context.Context, nonce string) {
	if s.ledger == nil || nonce == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.DetachedTimeout)
	defer cancel()
	if err := s.ledger.ReleaseNonce(ctx, nonce); err != nil {
		slog.Warn("failed to release form nonce", "error", err)
		s.metrics.LedgerFailed()
	}
}

// resolveIP prefers the request's own public address and only asks the
// echo service when the request came through a private network
func (s *Submitter) resolveIP(ctx context.Context, clientIP string) string {
	if isPublicIP(clientIP) {
		return clientIP
	}
	if s.ip == nil {
		return models.UnknownIP
	}

	ip := s.ip.Lookup(ctx)
	if ip == models.UnknownIP {
		s.metrics.IPLookupFailed()
	}
	return ip
}

// trackSession writes the user_sessions row. Its failure never changes the
// submission result.
func (s *Submitter) trackSession(ctx context.Context, ip, fp string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.DetachedTimeout)
	defer cancel()

	start := time.Now()
	_, err := s.store.Insert(ctx, supabase.TableUserSessions, models.UserSession{
		IPAddress:   ip,
		Fingerprint: fp,
	}, supabase.ReturnMinimal)
	s.metrics.ObserveUpstream(supabase.TableUserSessions, start, err)
	if err != nil {
		slog.Warn("failed to track user session", "error", err, "fingerprint", fp)
		s.metrics.SessionTrackingFailed()
	}
}

// finish records the attempt and counts the outcome
func (s *Submitter) finish(ctx context.Context, a models.Attempt, ip string, result models.SubmitResult) models.SubmitResult {
	s.metrics.Submission(result.Outcome)

	if s.ledger == nil {
		return result
	}

	if ip == "" {
		ip = models.UnknownIP
	}
	a.IPHash = auth.HashIP(ip, s.opts.IPSalt)
	a.Outcome = result.Outcome
	a.RemoteID = result.ID
	a.Error = result.Error
	a.CreatedAt = s.now()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.DetachedTimeout)
	defer cancel()
	if err := s.ledger.RecordAttempt(ctx, a); err != nil {
		slog.Warn("failed to record submission attempt", "error", err, "outcome", a.Outcome)
		s.metrics.LedgerFailed()
	}
	return result
}

func buildRecord(form models.ExperienceForm, ip, userAgent string, completionSeconds int, fp string) models.OfficeExperience {
	return models.OfficeExperience{
		Province:           strings.TrimSpace(form.Province),
		District:           strings.TrimSpace(form.District),
		Ward:               optional(form.Ward),
		OfficeType:         strings.TrimSpace(form.OfficeType),
		Services:           trimAll(form.Services),
		ServiceOther:       optional(form.ServiceOther),
		WaitMinutes:        form.WaitMinutes,
		Mood:               strings.TrimSpace(form.Mood),
		StaffRating:        form.StaffRating,
		ProcessRating:      form.ProcessRating,
		BribeRequested:     form.BribeRequested,
		UsedMiddleman:      form.UsedMiddleman,
		ExtraDocuments:     form.ExtraDocuments,
		RedundantDataEntry: form.RedundantDataEntry,
		IPAddress:          ip,
		UserAgent:          userAgent,
		CompletionSeconds:  completionSeconds,
		Fingerprint:        fp,
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func isPublicIP(s string) bool {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return false
	}
	return !ip.IsPrivate() && !ip.IsLoopback() && !ip.IsUnspecified() &&
		!ip.IsLinkLocalUnicast() && !ip.IsLinkLocalMulticast()
}
