package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/graphway/graphway/internal/config"
	"github.com/graphway/graphway/internal/models"
)

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GRAPHWAY_URL", "http://localhost:8000")
	t.Setenv("GRAPHWAY_ADMIN_TOKEN", "s3cret")
	t.Setenv("GRAPHWAY_MODE", "")
	t.Setenv("GRAPHWAY_TEAM_TOKEN", "")
	t.Setenv("GRAPHWAY_TEAM_ID", "")
	t.Setenv("GRAPHWAY_DEMO", "")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000")
}

func TestLoad_ValidConfig(t *testing.T) {
	setValidEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Port != "4040" {
		t.Errorf("expected default port 4040, got %s", cfg.Port)
	}

	if cfg.Addr() != "127.0.0.1:4040" {
		t.Errorf("expected addr 127.0.0.1:4040, got %s", cfg.Addr())
	}

	if cfg.Mode != models.ModeEditor {
		t.Errorf("expected default mode editor, got %s", cfg.Mode)
	}

	if cfg.PollInterval != 0 {
		t.Errorf("expected default poll interval 0, got %s", cfg.PollInterval)
	}

	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("expected default timeout 15s, got %s", cfg.RequestTimeout)
	}

	if cfg.IDGenerator != "short" {
		t.Errorf("expected default id generator short, got %s", cfg.IDGenerator)
	}

	if cfg.AdminToken.Value() != "s3cret" {
		t.Error("admin token not loaded")
	}
}

func TestSecret_Redacted(t *testing.T) {
	s := config.Secret("s3cret")
	if s.String() != "[REDACTED]" || s.GoString() != "[REDACTED]" {
		t.Error("secret leaked through formatting")
	}
	b, _ := s.MarshalText()
	if string(b) != "[REDACTED]" {
		t.Error("secret leaked through marshalling")
	}
}

func TestLoad_Modes(t *testing.T) {
	t.Run("readonly needs only a team token", func(t *testing.T) {
		setValidEnv(t)
		t.Setenv("GRAPHWAY_ADMIN_TOKEN", "")
		t.Setenv("GRAPHWAY_MODE", "readonly")
		t.Setenv("GRAPHWAY_TEAM_TOKEN", "tok")

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.TeamToken.Value() != "tok" {
			t.Error("team token not loaded")
		}
	})

	t.Run("demo needs no admin token", func(t *testing.T) {
		setValidEnv(t)
		t.Setenv("GRAPHWAY_ADMIN_TOKEN", "")
		t.Setenv("GRAPHWAY_DEMO", "true")

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !cfg.Demo {
			t.Error("expected Demo=true")
		}
	})
}

func TestLoad_ErrorCases(t *testing.T) {
	tests := []struct {
		name         string
		envOverrides map[string]string
		envClear     []string
		wantErr      string
	}{
		{
			name:     "missing admin token",
			envClear: []string{"GRAPHWAY_ADMIN_TOKEN"},
			wantErr:  "GRAPHWAY_ADMIN_TOKEN is required in editor mode",
		},
		{
			name:         "unknown mode",
			envOverrides: map[string]string{"GRAPHWAY_MODE": "viewer"},
			wantErr:      "GRAPHWAY_MODE must be editor, readonly or teamInspect",
		},
		{
			name:         "readonly without token",
			envOverrides: map[string]string{"GRAPHWAY_MODE": "readonly"},
			wantErr:      "GRAPHWAY_TEAM_TOKEN is required",
		},
		{
			name:         "inspect without team",
			envOverrides: map[string]string{"GRAPHWAY_MODE": "teamInspect"},
			wantErr:      "GRAPHWAY_TEAM_ID is required",
		},
		{
			name:         "bad store scheme",
			envOverrides: map[string]string{"GRAPHWAY_URL": "ftp://localhost"},
			wantErr:      "GRAPHWAY_URL scheme must be http:// or https://",
		},
		{
			name:         "plain http to remote store",
			envOverrides: map[string]string{"GRAPHWAY_URL": "http://contest.example.com"},
			wantErr:      "GRAPHWAY_URL must use HTTPS",
		},
		{
			name:         "invalid port zero",
			envOverrides: map[string]string{"GRAPHWAY_PORT": "0"},
			wantErr:      "GRAPHWAY_PORT must be between 1 and 65535",
		},
		{
			name:         "invalid port non-numeric",
			envOverrides: map[string]string{"GRAPHWAY_PORT": "abc"},
			wantErr:      "GRAPHWAY_PORT must be a valid integer",
		},
		{
			name:         "non-loopback listen host",
			envOverrides: map[string]string{"GRAPHWAY_LISTEN_HOST": "0.0.0.0"},
			wantErr:      "GRAPHWAY_LISTEN_HOST must be a loopback address",
		},
		{
			name:         "poll interval unparseable",
			envOverrides: map[string]string{"GRAPHWAY_POLL_INTERVAL": "soon"},
			wantErr:      "GRAPHWAY_POLL_INTERVAL must be a duration",
		},
		{
			name:         "poll interval too short",
			envOverrides: map[string]string{"GRAPHWAY_POLL_INTERVAL": "100ms"},
			wantErr:      "GRAPHWAY_POLL_INTERVAL must be 0 or between 1s and 10m",
		},
		{
			name:         "timeout too long",
			envOverrides: map[string]string{"GRAPHWAY_TIMEOUT": "1h"},
			wantErr:      "GRAPHWAY_TIMEOUT must be between 1s and 2m",
		},
		{
			name:         "CORS wildcard",
			envOverrides: map[string]string{"CORS_ORIGINS": "*"},
			wantErr:      "CORS_ORIGINS must not contain wildcard",
		},
		{
			name:         "CORS invalid origin",
			envOverrides: map[string]string{"CORS_ORIGINS": "not-a-url"},
			wantErr:      "CORS_ORIGINS contains invalid origin",
		},
		{
			name:         "unknown id generator",
			envOverrides: map[string]string{"GRAPHWAY_ID_GENERATOR": "sequential"},
			wantErr:      "GRAPHWAY_ID_GENERATOR",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setValidEnv(t)
			for _, k := range tc.envClear {
				t.Setenv(k, "")
			}
			for k, v := range tc.envOverrides {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %q", tc.wantErr, err.Error())
			}
		})
	}
}
