// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidToken = errors.New("invalid token format")
	ErrBadSignature = errors.New("invalid token signature")
	ErrTokenExpired = errors.New("form token expired")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateFormToken signs the moment a form was handed to the browser.
// Format: <nonce>.<unix millis>.<hmac>
func GenerateFormToken(issuedAt time.Time, salt string) (string, error) {
	nonce, err := GenerateID(8)
	if err != nil {
		return "", err
	}
	payload := nonce + "." + strconv.FormatInt(issuedAt.UnixMilli(), 10)
	return payload + "." + sign(payload, salt), nil
}

// ParseFormToken verifies the signature and returns the issue time.
// Tokens older than maxAge are rejected; maxAge <= 0 disables the check.
func ParseFormToken(token, salt string, now time.Time, maxAge time.Duration) (time.Time, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return time.Time{}, ErrInvalidToken
	}

	payload := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(parts[2]), []byte(sign(payload, salt))) {
		return time.Time{}, ErrBadSignature
	}

	ms, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return time.Time{}, ErrInvalidToken
	}
	issuedAt := time.UnixMilli(ms)

	if maxAge > 0 && now.Sub(issuedAt) > maxAge {
		return time.Time{}, ErrTokenExpired
	}
	return issuedAt, nil
}

// FormTokenNonce returns the random part of a form token, which identifies
// one handed-out form. It does not verify the token; call ParseFormToken first.
func FormTokenNonce(token string) string {
	nonce, _, ok := strings.Cut(token, ".")
	if !ok {
		return ""
	}
	return nonce
}

// ElapsedSeconds returns whole seconds between issue and now, never negative
func ElapsedSeconds(issuedAt, now time.Time) int {
	d := now.Sub(issuedAt)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}

func sign(payload, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(payload))
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(h.Sum(nil)), "=")
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
