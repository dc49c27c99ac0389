// Package config provides environment-driven configuration for graphway serve.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/graphway/graphway/internal/models"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	StoreURL       string
	AdminToken     Secret
	Mode           models.Mode
	TeamToken      Secret
	TeamID         string
	Port           string
	ListenHost     string
	CORSOrigins    []string
	// PollInterval of zero lets the session mode pick its default.
	PollInterval   time.Duration
	RequestTimeout time.Duration
	IDGenerator    string
	LogLevel       string
	Demo           bool
}

// Load reads configuration from environment variables with sensible defaults
// and validates it.
func Load() (*Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// FromEnv reads configuration without validating it.
func FromEnv() (*Config, error) {
	cfg := &Config{
		StoreURL:    strings.TrimRight(envOrDefault("GRAPHWAY_URL", "http://localhost:8000"), "/"),
		AdminToken:  Secret(envOrDefault("GRAPHWAY_ADMIN_TOKEN", "")),
		Mode:        models.Mode(envOrDefault("GRAPHWAY_MODE", string(models.ModeEditor))),
		TeamToken:   Secret(envOrDefault("GRAPHWAY_TEAM_TOKEN", "")),
		TeamID:      envOrDefault("GRAPHWAY_TEAM_ID", ""),
		Port:        envOrDefault("GRAPHWAY_PORT", "4040"),
		ListenHost:  envOrDefault("GRAPHWAY_LISTEN_HOST", "127.0.0.1"),
		IDGenerator: envOrDefault("GRAPHWAY_ID_GENERATOR", "short"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		Demo:        envOrDefault("GRAPHWAY_DEMO", "false") == "true",
	}

	poll, err := time.ParseDuration(envOrDefault("GRAPHWAY_POLL_INTERVAL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("GRAPHWAY_POLL_INTERVAL must be a duration such as 10s: %w", err)
	}
	cfg.PollInterval = poll

	timeout, err := time.ParseDuration(envOrDefault("GRAPHWAY_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("GRAPHWAY_TIMEOUT must be a duration such as 15s: %w", err)
	}
	cfg.RequestTimeout = timeout

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:5173")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
