// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/office-pulse/models"
)

// Ledger records submission attempts locally for abuse tracking.
// Times are stored in UTC so SQLite's text timestamps compare correctly.
type Ledger struct {
	db *sql.DB
}

func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// RecordAttempt inserts a, assigning an ID and timestamp when missing
func (l *Ledger) RecordAttempt(ctx context.Context, a models.Attempt) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO submission_attempt
			(id, fingerprint, ip_hash, user_agent, outcome, remote_id, error, completion_seconds, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, a.ID, a.Fingerprint, a.IPHash, nullString(a.UserAgent), a.Outcome,
		nullString(a.RemoteID), nullString(a.Error), a.CompletionSeconds, a.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// CountAccepted returns how many accepted submissions fingerprint made since
func (l *Ledger) CountAccepted(ctx context.Context, fingerprint string, since time.Time) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM submission_attempt
		WHERE fingerprint = $1 AND outcome = $2 AND created_at >= $3
	`, fingerprint, models.OutcomeAccepted, since.UTC()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}
	return n, nil
}

// ClaimNonce marks a form token nonce as spent. It reports false when the
// nonce was already claimed.
func (l *Ledger) ClaimNonce(ctx context.Context, nonce string, at time.Time) (bool, error) {
	res, err := l.db.ExecContext(ctx, `
		INSERT INTO form_token_use (nonce, used_at) VALUES ($1, $2)
		ON CONFLICT (nonce) DO NOTHING
	`, nonce, at.UTC())
	if err != nil {
		return false, fmt.Errorf("claim nonce: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim nonce: %w", err)
	}
	return n == 1, nil
}

// ReleaseNonce gives a claimed nonce back so the form can be sent again
func (l *Ledger) ReleaseNonce(ctx context.Context, nonce string) error {
	if _, err := l.db.ExecContext(ctx, `DELETE FROM form_token_use WHERE nonce = $1`, nonce); err != nil {
		return fmt.Errorf("release nonce: %w", err)
	}
	return nil
}

// PruneNonces drops claims made before cutoff. Tokens that old are
// rejected as expired anyway.
func (l *Ledger) PruneNonces(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := l.db.ExecContext(ctx, `DELETE FROM form_token_use WHERE used_at < $1`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune nonces: %w", err)
	}
	return res.RowsAffected()
}

// Stats returns attempt counts per outcome since the given time.
// Every known outcome is present, zero when unseen.
func (l *Ledger) Stats(ctx context.Context, since time.Time) (map[string]int, error) {
	stats := map[string]int{
		models.OutcomeAccepted:  0,
		models.OutcomeRejected:  0,
		models.OutcomeThrottled: 0,
		models.OutcomeFailed:    0,
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT outcome, COUNT(*) FROM submission_attempt
		WHERE created_at >= $1
		GROUP BY outcome
	`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats[outcome] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats: %w", err)
	}
	return stats, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
