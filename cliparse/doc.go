// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	if err := cliparse.LoadDotEnv(".env"); err != nil {
		log.Fatal(err)
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p              Server port (default 3318)
	-d              Database URL (default office_pulse.db)
	-t              Database type: sqlite or postgres (default sqlite)
	--supabase-url  Supabase project URL
	--supabase-key  Supabase anon key
	--ip-echo-url   IP echo service (default https://api.ipify.org?format=json)
	--form-salt     Form token salt
	--catalog       Catalog YAML path (default: embedded)
	--timeout       Outbound request timeout (default 10s)
	--rate          Submissions per minute per IP (default 10, 0 disables)
	--burst         Rate limiter burst (default 5)
	--max-per-fp    Accepted submissions per fingerprint per 24h (default 5, 0 disables)
	--trusted-proxies  Comma-separated proxy IPs/CIDRs (default none)

# Environment Variables

Flags fall back to environment variables:

	PORT, DATABASE_URL, DATABASE_TYPE,
	SUPABASE_URL, SUPABASE_ANON_KEY, IP_ECHO_URL,
	FORM_TOKEN_SALT, CATALOG_PATH, UPSTREAM_TIMEOUT,
	RATE_PER_MINUTE, RATE_BURST, MAX_PER_FINGERPRINT,
	TRUSTED_PROXIES

CLI flags take precedence over environment variables. LoadDotEnv fills
unset variables from a .env file first.

# Trusted Proxies

X-Forwarded-For and X-Real-IP are only read when the connecting peer is in
TrustedProxies. Leave it empty when clients connect directly; set it to the
load balancer's address range otherwise.

# Validation

ParseFlags returns an error if SUPABASE_URL, SUPABASE_ANON_KEY or
FORM_TOKEN_SALT is missing, or when postgres is selected without a
database URL.
*/
package cliparse
