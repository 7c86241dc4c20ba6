package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FREESLOTS_ENV", "")
	t.Setenv("ENVIRONMENT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Environment != "development" {
		t.Fatalf("unexpected environment %q", cfg.Environment)
	}
	if cfg.HTTPAddr() != "0.0.0.0:8080" {
		t.Fatalf("unexpected http addr %q", cfg.HTTPAddr())
	}
	if cfg.MaxEvents != 1000 {
		t.Fatalf("unexpected max events %d", cfg.MaxEvents)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("unexpected request timeout %v", cfg.RequestTimeout)
	}
}

func TestLoadReadsEnvKeys(t *testing.T) {
	t.Setenv("FREESLOTS_HTTP_PORT", "9090")
	t.Setenv("FREESLOTS_JWT_SIGNING_KEY", "supersecret")
	t.Setenv("FREESLOTS_MAX_EVENTS", "25")
	t.Setenv("FREESLOTS_TRACING_ENABLED", "yes")
	t.Setenv("FREESLOTS_TRACING_SAMPLE_RATE", "0.25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPPort != 9090 {
		t.Fatalf("unexpected port %d", cfg.HTTPPort)
	}
	if cfg.JWTSigningKey != "supersecret" {
		t.Fatalf("unexpected jwt signing key: %q", cfg.JWTSigningKey)
	}
	if cfg.MaxEvents != 25 {
		t.Fatalf("unexpected max events %d", cfg.MaxEvents)
	}
	if !cfg.TracingEnabled || cfg.TracingSampleRate != 0.25 {
		t.Fatalf("unexpected tracing config: enabled=%v rate=%v", cfg.TracingEnabled, cfg.TracingSampleRate)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port out of range", "FREESLOTS_HTTP_PORT", "70000"},
		{"non-positive max events", "FREESLOTS_MAX_EVENTS", "0"},
		{"non-positive timeout", "FREESLOTS_REQUEST_TIMEOUT_SECONDS", "-1"},
		{"sample rate above one", "FREESLOTS_TRACING_SAMPLE_RATE", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected %s=%s to be rejected", tt.key, tt.val)
			}
		})
	}
}

func TestLoadProductionRequiresSigningKey(t *testing.T) {
	t.Setenv("FREESLOTS_ENV", "production")
	t.Setenv("FREESLOTS_JWT_SIGNING_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected production config load to fail without a signing key")
	}

	t.Setenv("FREESLOTS_JWT_SIGNING_KEY", "secret")
	if _, err := Load(); err != nil {
		t.Fatalf("expected production config load with signing key to succeed: %v", err)
	}
}

func TestLoadReportsLegacyEnvWarnings(t *testing.T) {
	t.Setenv("TRACING_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.LegacyEnvWarnings) == 0 {
		t.Fatal("expected legacy env warnings")
	}
}
