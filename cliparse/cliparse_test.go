// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var configEnv = []string{
	"PORT", "DATABASE_URL", "DATABASE_TYPE",
	"SUPABASE_URL", "SUPABASE_ANON_KEY", "IP_ECHO_URL",
	"FORM_TOKEN_SALT", "CATALOG_PATH", "UPSTREAM_TIMEOUT",
	"RATE_PER_MINUTE", "RATE_BURST", "MAX_PER_FINGERPRINT",
	"TRUSTED_PROXIES",
}

// clearConfigEnv blanks every variable ParseFlags reads
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnv {
		t.Setenv(k, "")
	}
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon-key")
	t.Setenv("FORM_TOKEN_SALT", "salt")
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearConfigEnv(t)
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("RATE_PER_MINUTE", "20")
	t.Setenv("MAX_PER_FINGERPRINT", "0")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" || cfg.DatabaseURL != "postgres://test" {
		t.Errorf("unexpected database config: %s %s", cfg.DatabaseType, cfg.DatabaseURL)
	}
	if cfg.UpstreamTimeout != 3*time.Second {
		t.Errorf("expected timeout 3s, got %v", cfg.UpstreamTimeout)
	}
	if cfg.RatePerMinute != 20 {
		t.Errorf("expected rate 20, got %d", cfg.RatePerMinute)
	}
	if cfg.MaxPerFingerprint != 0 {
		t.Errorf("expected fingerprint cap disabled, got %d", cfg.MaxPerFingerprint)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearConfigEnv(t)
	setRequiredEnv(t)

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("expected default port, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" || cfg.DatabaseURL != DefaultDatabaseURL {
		t.Errorf("expected sqlite default, got %s %s", cfg.DatabaseType, cfg.DatabaseURL)
	}
	if cfg.IPEchoURL != DefaultIPEchoURL {
		t.Errorf("expected default IP echo URL, got %s", cfg.IPEchoURL)
	}
	if cfg.UpstreamTimeout != DefaultUpstreamTimeout {
		t.Errorf("expected default timeout, got %v", cfg.UpstreamTimeout)
	}
	if cfg.RatePerMinute != DefaultRatePerMinute || cfg.RateBurst != DefaultRateBurst {
		t.Errorf("expected default rate limits, got %d/%d", cfg.RatePerMinute, cfg.RateBurst)
	}
	if cfg.MaxPerFingerprint != DefaultMaxPerFP {
		t.Errorf("expected default fingerprint cap, got %d", cfg.MaxPerFingerprint)
	}
	if len(cfg.TrustedProxies) != 0 {
		t.Errorf("expected no trusted proxies by default, got %v", cfg.TrustedProxies)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("SUPABASE_URL", "https://env.supabase.co")

	cfg, err := ParseFlags([]string{
		"-p", "8080",
		"-d", "file:test.db",
		"-supabase-url", "https://cli.supabase.co",
		"-supabase-key", "k",
		"-form-salt", "s",
		"-rate", "0",
	})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.SupabaseURL != "https://cli.supabase.co" {
		t.Errorf("CLI should override env: got %s", cfg.SupabaseURL)
	}
	if cfg.RatePerMinute != 0 {
		t.Errorf("explicit -rate 0 should be kept, got %d", cfg.RatePerMinute)
	}
}

func TestParseFlags_MissingRequired(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"no supabase url", map[string]string{"SUPABASE_ANON_KEY": "k", "FORM_TOKEN_SALT": "s"}},
		{"no supabase key", map[string]string{"SUPABASE_URL": "u", "FORM_TOKEN_SALT": "s"}},
		{"no salt", map[string]string{"SUPABASE_URL": "u", "SUPABASE_ANON_KEY": "k"}},
		{"postgres without url", map[string]string{
			"SUPABASE_URL": "u", "SUPABASE_ANON_KEY": "k", "FORM_TOKEN_SALT": "s", "DATABASE_TYPE": "postgres",
		}},
		{"bad database type", map[string]string{
			"SUPABASE_URL": "u", "SUPABASE_ANON_KEY": "k", "FORM_TOKEN_SALT": "s", "DATABASE_TYPE": "mysql",
		}},
		{"bad port", map[string]string{
			"SUPABASE_URL": "u", "SUPABASE_ANON_KEY": "k", "FORM_TOKEN_SALT": "s", "PORT": "abc",
		}},
		{"bad timeout", map[string]string{
			"SUPABASE_URL": "u", "SUPABASE_ANON_KEY": "k", "FORM_TOKEN_SALT": "s", "UPSTREAM_TIMEOUT": "soon",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags([]string{}); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearConfigEnv(t)
	os.Unsetenv("SUPABASE_URL")
	os.Unsetenv("FORM_TOKEN_SALT")
	t.Setenv("SUPABASE_ANON_KEY", "from-process")

	path := filepath.Join(t.TempDir(), ".env")
	content := "SUPABASE_URL=https://dotenv.supabase.co\nSUPABASE_ANON_KEY=from-file\nFORM_TOKEN_SALT=dotenv-salt\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("SUPABASE_URL")
		os.Unsetenv("FORM_TOKEN_SALT")
	})

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SupabaseURL != "https://dotenv.supabase.co" {
		t.Errorf("expected URL from .env, got %s", cfg.SupabaseURL)
	}
	// existing process env wins over the file
	if cfg.SupabaseKey != "from-process" {
		t.Errorf("expected key from process env, got %s", cfg.SupabaseKey)
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Errorf("missing file should not be an error, got %v", err)
	}
}

func TestParseFlags_TrustedProxies(t *testing.T) {
	clearConfigEnv(t)
	setRequiredEnv(t)
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.TrustedProxies) != 1 || cfg.TrustedProxies[0].String() != "10.0.0.0/8" {
		t.Errorf("expected env trusted proxies, got %v", cfg.TrustedProxies)
	}

	cfg, err = ParseFlags([]string{"-trusted-proxies", "127.0.0.1, 192.168.1.0/24"})
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.TrustedProxies) != 2 {
		t.Fatalf("CLI should override env, got %v", cfg.TrustedProxies)
	}
	if cfg.TrustedProxies[0].String() != "127.0.0.1/32" {
		t.Errorf("bare IP should become a /32, got %s", cfg.TrustedProxies[0])
	}

	if _, err := ParseFlags([]string{"-trusted-proxies", "not-an-ip"}); err == nil {
		t.Error("expected error for invalid trusted proxy")
	}
}

func TestParseTrustedProxies(t *testing.T) {
	tests := []struct {
		name    string
		list    string
		want    []string
		wantErr bool
	}{
		{"empty", "", nil, false},
		{"blanks skipped", " , ,", nil, false},
		{"ipv4 and cidr", "10.1.2.3,172.16.0.0/12", []string{"10.1.2.3/32", "172.16.0.0/12"}, false},
		{"cidr is masked", "192.168.1.77/24", []string{"192.168.1.0/24"}, false},
		{"ipv6", "::1", []string{"::1/128"}, false},
		{"bad cidr", "10.0.0.0/99", nil, true},
		{"bad ip", "10.0.0", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTrustedProxies(tt.list)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTrustedProxies() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseTrustedProxies() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i].String() != tt.want[i] {
					t.Errorf("prefix %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}
