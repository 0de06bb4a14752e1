// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides form tokens, IP hashing and ID generation.

# Form Tokens

A form token records when the browser received the form. It is signed
with HMAC-SHA256 so the issue time cannot be forged by the client:

	token, err := auth.GenerateFormToken(time.Now(), salt)
	issuedAt, err := auth.ParseFormToken(token, salt, time.Now(), 24*time.Hour)
	seconds := auth.ElapsedSeconds(issuedAt, time.Now())

The elapsed time becomes the submission's completion_seconds and feeds the
"too fast" fraud heuristic. FormTokenNonce returns the token's random part,
which the ledger accepts only once.

# ID Generation

Random hex IDs:

	id, err := auth.GenerateID(16)  // 32 hex characters

# IP Hashing

For privacy-preserving abuse tracking in the local ledger:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
