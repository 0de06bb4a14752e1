package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort            = 3318
	DefaultDatabaseURL     = "office_pulse.db"
	DefaultIPEchoURL       = "https://api.ipify.org?format=json"
	DefaultUpstreamTimeout = 10 * time.Second
	DefaultRatePerMinute   = 10
	DefaultRateBurst       = 5
	DefaultMaxPerFP        = 5
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	SupabaseURL string
	SupabaseKey string
	IPEchoURL   string

	FormTokenSalt string
	CatalogPath   string

	UpstreamTimeout   time.Duration
	RatePerMinute     int
	RateBurst         int
	MaxPerFingerprint int

	// TrustedProxies are the peers whose X-Forwarded-For and X-Real-IP
	// headers are believed. Empty means no forwarding headers are read.
	TrustedProxies []netip.Prefix
}

// LoadDotEnv reads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error and variables already set are kept.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("office-pulse", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Upstream services
	fs.StringVar(&cfg.SupabaseURL, "supabase-url", "", "Supabase project URL")
	fs.StringVar(&cfg.SupabaseKey, "supabase-key", "", "Supabase anon key (prefer env)")
	fs.StringVar(&cfg.IPEchoURL, "ip-echo-url", "", "IP echo service URL")
	fs.DurationVar(&cfg.UpstreamTimeout, "timeout", 0, "Timeout for outbound requests")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.FormTokenSalt, "form-salt", "", "Form token salt (prefer env)")

	fs.StringVar(&cfg.CatalogPath, "catalog", "", "Path to catalog YAML (default: embedded)")

	// Abuse controls
	fs.IntVar(&cfg.RatePerMinute, "rate", -1, "Submissions per minute per IP")
	fs.IntVar(&cfg.RateBurst, "burst", -1, "Rate limiter burst")
	fs.IntVar(&cfg.MaxPerFingerprint, "max-per-fp", -1, "Accepted submissions per fingerprint per day (0 disables)")
	var trustedProxies string
	fs.StringVar(&trustedProxies, "trusted-proxies", "", "Comma-separated proxy IPs or CIDRs allowed to set X-Forwarded-For")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		port, err := envInt("PORT", DefaultPort)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == "postgres" {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = DefaultDatabaseURL
	}

	if cfg.SupabaseURL == "" {
		cfg.SupabaseURL = os.Getenv("SUPABASE_URL")
	}
	if cfg.SupabaseURL == "" {
		return Config{}, errors.New("SUPABASE_URL required")
	}

	if cfg.SupabaseKey == "" {
		cfg.SupabaseKey = os.Getenv("SUPABASE_ANON_KEY")
	}
	if cfg.SupabaseKey == "" {
		return Config{}, errors.New("SUPABASE_ANON_KEY required")
	}

	if cfg.IPEchoURL == "" {
		cfg.IPEchoURL = os.Getenv("IP_ECHO_URL")
		if cfg.IPEchoURL == "" {
			cfg.IPEchoURL = DefaultIPEchoURL
		}
	}

	if cfg.UpstreamTimeout == 0 {
		if s := os.Getenv("UPSTREAM_TIMEOUT"); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return Config{}, errors.New("invalid UPSTREAM_TIMEOUT env variable")
			}
			cfg.UpstreamTimeout = d
		} else {
			cfg.UpstreamTimeout = DefaultUpstreamTimeout
		}
	}

	if cfg.CatalogPath == "" {
		cfg.CatalogPath = os.Getenv("CATALOG_PATH")
	}

	if cfg.RatePerMinute < 0 {
		n, err := envInt("RATE_PER_MINUTE", DefaultRatePerMinute)
		if err != nil {
			return Config{}, err
		}
		cfg.RatePerMinute = n
	}
	if cfg.RateBurst < 0 {
		n, err := envInt("RATE_BURST", DefaultRateBurst)
		if err != nil {
			return Config{}, err
		}
		cfg.RateBurst = n
	}
	if cfg.MaxPerFingerprint < 0 {
		n, err := envInt("MAX_PER_FINGERPRINT", DefaultMaxPerFP)
		if err != nil {
			return Config{}, err
		}
		cfg.MaxPerFingerprint = n
	}

	if trustedProxies == "" {
		trustedProxies = os.Getenv("TRUSTED_PROXIES")
	}
	proxies, err := ParseTrustedProxies(trustedProxies)
	if err != nil {
		return Config{}, err
	}
	cfg.TrustedProxies = proxies

	// Secrets - MUST be provided
	if cfg.FormTokenSalt == "" {
		cfg.FormTokenSalt = os.Getenv("FORM_TOKEN_SALT")
	}
	if cfg.FormTokenSalt == "" {
		return Config{}, errors.New("FORM_TOKEN_SALT required")
	}

	return cfg, nil
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}

// ParseTrustedProxies reads a comma-separated list of IPs and CIDRs.
// A bare IP becomes a single-address prefix.
func ParseTrustedProxies(list string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		if strings.Contains(item, "/") {
			p, err := netip.ParsePrefix(item)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", item, err)
			}
			out = append(out, p.Masked())
			continue
		}

		addr, err := netip.ParseAddr(item)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", item, err)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}
