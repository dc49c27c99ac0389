package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/graphway/graphway/internal/api"
)

func TestRouter_Routes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := api.NewRouter(ctx, &api.RouterDeps{
		Log:         testLogger(),
		Session:     newMockSession(),
		CORSOrigins: []string{"http://localhost:5173"},
		Version:     "test",
	})

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/v1/health", http.StatusOK},
		{http.MethodGet, "/api/v1/ready", http.StatusOK},
		{http.MethodGet, "/api/v1/view", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/nodes", http.StatusNotFound},
	}

	for _, tc := range tests {
		w := doRequest(h, tc.method, tc.path, "")
		if w.Code != tc.want {
			t.Errorf("%s %s: expected %d, got %d", tc.method, tc.path, tc.want, w.Code)
		}
	}
}

func TestRouter_Middleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := api.NewRouter(ctx, &api.RouterDeps{
		Log:     testLogger(),
		Session: newMockSession(),
		Version: "test",
	})

	w := doRequest(h, http.MethodGet, "/api/v1/view", "")

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing security headers")
	}

	big := `{"kind":"edit_node","pid":"` + strings.Repeat("x", 70<<10) + `"}`
	if w := doRequest(h, http.MethodPost, "/api/v1/gestures", big); w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized body: expected 413, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/view", http.NoBody)
	req.Host = "rebound.example:4040"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusMisdirectedRequest {
		t.Errorf("foreign Host: expected 421, got %d", rec.Code)
	}
}
