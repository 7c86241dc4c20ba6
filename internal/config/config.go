/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment    string
	HTTPBind       string
	HTTPPort       int
	MetricsBind    string
	JWTSigningKey  string
	MaxEvents      int           // Upper bound on busy events accepted per request
	RequestTimeout time.Duration // Per-request deadline enforced by the router

	// Tracing configuration
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64

	LegacyEnvWarnings []string
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:    Environment(),
		HTTPBind:       getEnv("FREESLOTS_HTTP_BIND", "0.0.0.0"),
		HTTPPort:       getEnvInt("FREESLOTS_HTTP_PORT", 8080),
		MetricsBind:    getEnv("FREESLOTS_METRICS_BIND", "127.0.0.1:9000"),
		JWTSigningKey:  getEnv("FREESLOTS_JWT_SIGNING_KEY", ""),
		MaxEvents:      getEnvInt("FREESLOTS_MAX_EVENTS", 1000),
		RequestTimeout: time.Duration(getEnvInt("FREESLOTS_REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,

		TracingEnabled:    getEnvBoolAny([]string{"FREESLOTS_TRACING_ENABLED", "TRACING_ENABLED"}, false),
		OTLPEndpoint:      getEnvAny([]string{"FREESLOTS_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT"}, "localhost:4317"),
		TracingSampleRate: getEnvFloatAny([]string{"FREESLOTS_TRACING_SAMPLE_RATE"}, 1.0),
	}

	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("FREESLOTS_HTTP_PORT out of range: %d", cfg.HTTPPort)
	}

	if cfg.MaxEvents <= 0 {
		return nil, fmt.Errorf("FREESLOTS_MAX_EVENTS must be positive, got %d", cfg.MaxEvents)
	}

	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("FREESLOTS_REQUEST_TIMEOUT_SECONDS must be positive")
	}

	if cfg.TracingSampleRate < 0 || cfg.TracingSampleRate > 1 {
		return nil, fmt.Errorf("FREESLOTS_TRACING_SAMPLE_RATE must be within [0, 1], got %v", cfg.TracingSampleRate)
	}

	if cfg.IsProduction() && cfg.JWTSigningKey == "" {
		return nil, fmt.Errorf("FREESLOTS_JWT_SIGNING_KEY must be provided in production")
	}
	cfg.LegacyEnvWarnings = detectLegacyEnvWarnings()

	return cfg, nil
}

// Environment returns the deployment environment name without loading the
// rest of the configuration.
func Environment() string {
	return getEnvAny([]string{"FREESLOTS_ENV", "ENVIRONMENT"}, "development")
}

// IsProduction reports whether the process runs with FREESLOTS_ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// HTTPAddr returns the API listen address.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTPBind, c.HTTPPort)
}

func detectLegacyEnvWarnings() []string {
	legacy := map[string]string{
		"ENVIRONMENT":                 "use FREESLOTS_ENV",
		"TRACING_ENABLED":             "use FREESLOTS_TRACING_ENABLED",
		"OTEL_EXPORTER_OTLP_ENDPOINT": "use FREESLOTS_OTLP_ENDPOINT",
	}

	warnings := make([]string, 0, len(legacy))
	for key, recommendation := range legacy {
		if os.Getenv(key) != "" {
			warnings = append(warnings, fmt.Sprintf("legacy env key %s is set; %s", key, recommendation))
		}
	}
	return warnings
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

// getEnvAny returns the first non-empty environment variable value from keys, or def if none set.
func getEnvAny(keys []string, def string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

// getEnvBoolAny returns the first set boolean environment variable value from keys, or def.
func getEnvBoolAny(keys []string, def bool) bool {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "true" || v == "1" || v == "yes" {
				return true
			}
			if v == "false" || v == "0" || v == "no" {
				return false
			}
		}
	}
	return def
}

// getEnvFloatAny returns the first set float environment variable value from keys, or def.
func getEnvFloatAny(keys []string, def float64) float64 {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				return parsed
			}
		}
	}
	return def
}
