// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db owns the local submission ledger.

# Connecting

Open picks the driver from the configured database type:

	conn, err := db.Open("sqlite", "office_pulse.db")      // modernc.org/sqlite
	conn, err := db.Open("postgres", "postgres://...")      // github.com/lib/pq

SQLite connections are limited to one open connection.

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - submission_attempt: one row per attempt with its outcome
    (accepted, rejected, throttled, failed), the hashed client IP,
    the fingerprint and the Supabase row id when accepted
  - form_token_use: form token nonces already spent on a submission

Raw IP addresses are never stored; only auth.HashIP output.

# Ledger

	l := db.NewLedger(conn)
	l.RecordAttempt(ctx, attempt)
	n, _ := l.CountAccepted(ctx, fingerprint, time.Now().Add(-24*time.Hour))
	stats, _ := l.Stats(ctx, since)
	fresh, _ := l.ClaimNonce(ctx, nonce, time.Now())  // false on reuse

Timestamps are written in UTC so range queries behave the same on both drivers.

# Indexes

  - submission_attempt.(fingerprint, created_at)
  - submission_attempt.created_at
*/
package db
