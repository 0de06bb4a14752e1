// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The schema sticks to SQL both SQLite and PostgreSQL accept.
const schema = `
-- One row per submission attempt, whatever its outcome
CREATE TABLE IF NOT EXISTS submission_attempt (
    id TEXT PRIMARY KEY,
    fingerprint TEXT NOT NULL,
    ip_hash TEXT NOT NULL,
    user_agent TEXT,
    outcome TEXT NOT NULL CHECK (outcome IN ('accepted', 'rejected', 'throttled', 'failed')),
    remote_id TEXT,
    error TEXT,
    completion_seconds INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_submission_attempt_fingerprint ON submission_attempt(fingerprint, created_at);
CREATE INDEX IF NOT EXISTS idx_submission_attempt_created_at ON submission_attempt(created_at);

-- Form token nonces that have been spent on a submission
CREATE TABLE IF NOT EXISTS form_token_use (
    nonce TEXT PRIMARY KEY,
    used_at TIMESTAMP NOT NULL
);
`
