package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/graphway/graphway/internal/config"
	"github.com/graphway/graphway/internal/models"
)

// serveConfigFor parses serve flags against a clean environment.
func serveConfigFor(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	resetFlags(t)
	isolate(t)
	for _, k := range []string{"GRAPHWAY_MODE", "GRAPHWAY_TEAM_TOKEN", "GRAPHWAY_TEAM_ID", "GRAPHWAY_PORT", "GRAPHWAY_DEMO"} {
		t.Setenv(k, "")
	}

	root := newRootCmd()
	cmd, _, err := root.Find([]string{"serve"})
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatal(err)
	}
	flagURL, flagToken = defaultURL, ""
	return serveConfig(cmd)
}

func TestServeConfig(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		check   func(t *testing.T, c *config.Config)
		wantErr bool
	}{
		{
			name: "demo editor needs no token",
			args: []string{"--demo"},
			check: func(t *testing.T, c *config.Config) {
				if !c.Demo || c.Mode != models.ModeEditor || c.Port != "4040" {
					t.Errorf("config = %+v", c)
				}
			},
		},
		{
			name: "demo readonly gets the demo team token",
			args: []string{"--demo", "--mode", "readonly", "--port", "5050"},
			check: func(t *testing.T, c *config.Config) {
				if c.TeamToken.Value() != demoTeamToken || c.Port != "5050" {
					t.Errorf("token %q port %q", c.TeamToken.Value(), c.Port)
				}
			},
		},
		{
			name: "demo inspect gets the demo team",
			args: []string{"--demo", "--mode", "teamInspect"},
			check: func(t *testing.T, c *config.Config) {
				if c.TeamID != demoTeamID {
					t.Errorf("team id %q", c.TeamID)
				}
			},
		},
		{
			name: "explicit team token wins",
			args: []string{"--mode", "readonly", "--team-token", "abc"},
			check: func(t *testing.T, c *config.Config) {
				if c.TeamToken.Value() != "abc" {
					t.Errorf("token %q", c.TeamToken.Value())
				}
			},
		},
		{name: "editor without token", args: nil, wantErr: true},
		{name: "unknown mode", args: []string{"--demo", "--mode", "viewer"}, wantErr: true},
		{name: "bad port", args: []string{"--demo", "--port", "99999"}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := serveConfigFor(t, tc.args...)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tc.check(t, c)
		})
	}
}

func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	return strconv.Itoa(l.Addr().(*net.TCPAddr).Port)
}

func TestServeDemo(t *testing.T) {
	cfg, err := serveConfigFor(t, "--demo", "--port", freePort(t))
	if err != nil {
		t.Fatal(err)
	}
	cfg.CORSOrigins = nil

	log := logrus.New()
	log.SetOutput(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- serve(ctx, cfg, log) }()

	base := fmt.Sprintf("http://%s/api/v1", cfg.Addr())
	var ready bool
	for deadline := time.Now().Add(5 * time.Second); time.Now().Before(deadline); time.Sleep(20 * time.Millisecond) {
		resp, err := http.Get(base + "/ready")
		if err != nil {
			continue
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			ready = true
			break
		}
	}
	if !ready {
		cancel()
		t.Fatal("server never became ready")
	}

	resp, err := http.Get(base + "/view")
	if err != nil {
		t.Fatal(err)
	}
	var frame struct {
		Nodes []json.RawMessage `json:"nodes"`
	}
	err = json.NewDecoder(resp.Body).Decode(&frame)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if len(frame.Nodes) != 4 {
		t.Errorf("view has %d nodes, want 4", len(frame.Nodes))
	}

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("serve returned %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("serve did not stop")
	}
}
