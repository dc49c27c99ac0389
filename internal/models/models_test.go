package models_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/graphway/graphway/internal/models"
)

func TestNode_Validate(t *testing.T) {
	tests := []struct {
		name    string
		node    models.Node
		wantErr error
		wantMsg string
	}{
		{name: "valid", node: models.Node{ID: "a1", PID: "1234/A", Rating: 800}},
		{name: "empty pid is fine", node: models.Node{ID: "a1"}},
		{name: "missing id", node: models.Node{PID: "1/A"}, wantErr: models.ErrMissingID},
		{name: "negative rating", node: models.Node{ID: "a", Rating: -1}, wantErr: models.ErrNegativeRating},
		{name: "id too long", node: models.Node{ID: strings.Repeat("x", 256)}, wantMsg: "exceeds maximum length"},
		{name: "pid too long", node: models.Node{ID: "a", PID: strings.Repeat("9", 65)}, wantMsg: "exceeds maximum length"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.node.Validate()
			switch {
			case tc.wantErr != nil:
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("got %v, want %v", err, tc.wantErr)
				}
			case tc.wantMsg != "":
				if err == nil || !strings.Contains(err.Error(), tc.wantMsg) {
					t.Fatalf("got %v, want error containing %q", err, tc.wantMsg)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestNode_CloneIsDeep(t *testing.T) {
	n := models.Node{ID: "a", Neighbors: []string{"b"}}
	c := n.Clone()
	c.Neighbors[0] = "z"
	if n.Neighbors[0] != "b" {
		t.Errorf("clone shares neighbor storage")
	}
}

func TestProblemURL(t *testing.T) {
	tests := []struct {
		pid    string
		want   string
		wantOK bool
	}{
		{pid: "1234/A", want: "https://codeforces.com/contest/1234/problem/A", wantOK: true},
		{pid: "1900/B1", want: "https://codeforces.com/contest/1900/problem/B1", wantOK: true},
		{pid: ""},
		{pid: "1234"},
		{pid: "/A"},
		{pid: "1234/"},
	}

	for _, tc := range tests {
		got, ok := models.ProblemURL(tc.pid)
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("ProblemURL(%q) = %q, %v; want %q, %v", tc.pid, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestEdge_ID(t *testing.T) {
	e := models.Edge{Source: "A", Target: "B"}
	if e.ID() != "eA-B" {
		t.Errorf("ID = %q", e.ID())
	}
	if e.String() != "A->B" {
		t.Errorf("String = %q", e.String())
	}
}

func TestEdge_Validate(t *testing.T) {
	if err := (models.Edge{Target: "B"}).Validate(); !errors.Is(err, models.ErrMissingSource) {
		t.Errorf("missing source: got %v", err)
	}
	if err := (models.Edge{Source: "A"}).Validate(); !errors.Is(err, models.ErrMissingTarget) {
		t.Errorf("missing target: got %v", err)
	}
	if err := (models.Edge{Source: "A", Target: "B"}).Validate(); err != nil {
		t.Errorf("valid edge: got %v", err)
	}
}

func TestContest_BannerAt(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	c := models.Contest{StartTime: start.Unix(), Duration: 3600, Phase: models.PhaseRunning}

	tests := []struct {
		name string
		c    models.Contest
		now  time.Time
		want models.Banner
	}{
		{name: "editing", c: models.Contest{Phase: models.PhaseEditing}, now: start, want: models.BannerPreparing},
		{name: "before start", c: c, now: start.Add(-time.Minute), want: models.BannerCountdown},
		{name: "running", c: c, now: start.Add(time.Minute), want: models.BannerRunning},
		{name: "after end", c: c, now: start.Add(2 * time.Hour), want: models.BannerEnded},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.BannerAt(tc.now); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}

	if got := c.Countdown(start.Add(-90 * time.Second)); got != 90*time.Second {
		t.Errorf("Countdown = %v, want 90s", got)
	}
	if got := c.Countdown(start.Add(time.Hour)); got != 0 {
		t.Errorf("Countdown after start = %v, want 0", got)
	}
}

func TestMode_Valid(t *testing.T) {
	for _, m := range []models.Mode{models.ModeEditor, models.ModeReadOnly, models.ModeTeamInspect} {
		if !m.Valid() {
			t.Errorf("%q should be valid", m)
		}
	}
	if models.Mode("admin").Valid() {
		t.Error("unknown mode reported valid")
	}
}
