package main

import (
	"time"

	"github.com/graphway/graphway/internal/geometry"
	"github.com/graphway/graphway/internal/graphsync"
	"github.com/graphway/graphway/internal/models"
)

// Demo credentials for the in-process store.
const (
	demoTeamID    = "t1"
	demoTeamToken = "demo-team"
)

// demoStore returns a small seeded store. Participant modes get a contest
// that started a minute ago so the graph is visible.
func demoStore(mode models.Mode, now time.Time) *graphsync.Memory {
	m := graphsync.NewMemory(
		models.Node{ID: "a1", PID: "1A", Rating: 800, Position: geometry.Point{X: 0, Y: 0}, Neighbors: []string{"b2", "c3"}},
		models.Node{ID: "b2", PID: "4B", Rating: 1200, Position: geometry.Point{X: -200, Y: 250}, Neighbors: []string{"d4"}},
		models.Node{ID: "c3", PID: "71C", Rating: 1400, Position: geometry.Point{X: 200, Y: 250}, Neighbors: []string{"d4"}},
		models.Node{ID: "d4", PID: "1000D", Rating: 1900, Position: geometry.Point{X: 0, Y: 500}},
	)

	if mode != models.ModeEditor {
		m.SetContest(models.Contest{
			Name:      "demo",
			StartTime: now.Add(-time.Minute).Unix(),
			Duration:  int64((3 * time.Hour) / time.Second),
			Phase:     models.PhaseRunning,
		})
	}

	m.AddTeam(graphsync.MemoryTeam{
		ID:        demoTeamID,
		Name:      "Demo Team",
		Token:     demoTeamToken,
		Handles:   []string{"tourist"},
		Solved:    []string{"a1"},
		Available: []string{"b2", "c3"},
	})

	m.AddProblems(
		models.Problem{PID: "1850/A", Name: "To My Critics", Rating: 800},
		models.Problem{PID: "1352/C", Name: "K-th Not Divisible by n", Rating: 1200},
		models.Problem{PID: "1473/B", Name: "String LCM", Rating: 1000},
		models.Problem{PID: "1542/C", Name: "Strange Function", Rating: 1600},
	)

	return m
}
