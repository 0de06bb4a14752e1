// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ipecho queries a public IP-echo service that answers {"ip": "..."}.
// Lookup never fails; it returns "unknown" when the service is unreachable.
package ipecho
