package graphsync

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/graphway/graphway/internal/models"
)

// MemoryTeam is a team known to a Memory store.
type MemoryTeam struct {
	ID        string
	Name      string
	Token     string
	Handles   []string
	Solved    []string
	Available []string
}

// Memory is an in-process Store used for demos and tests. It enforces the
// same structural checks as the HTTP store but derives no availability.
type Memory struct {
	mu       sync.Mutex
	order    []string
	nodes    map[string]models.Node
	teams    []*MemoryTeam
	contest  models.Contest
	problems []models.Problem

	// Fail, when set, is consulted before every call and may inject an error.
	Fail func(op string) error
}

// NewMemory returns a store in the editing phase holding nodes.
func NewMemory(nodes ...models.Node) *Memory {
	m := &Memory{
		nodes:   map[string]models.Node{},
		contest: models.Contest{Name: "demo", Phase: models.PhaseEditing},
	}
	for _, n := range nodes {
		m.put(n)
	}

	return m
}

// SetContest replaces the contest block.
func (m *Memory) SetContest(c models.Contest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contest = c
}

// AddProblems extends the catalogue served by RandomProblem.
func (m *Memory) AddProblems(ps ...models.Problem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.problems = append(m.problems, ps...)
}

// AddTeam registers a team.
func (m *Memory) AddTeam(t MemoryTeam) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teams = append(m.teams, &t)
}

func (m *Memory) fail(op string) error {
	if m.Fail == nil {
		return nil
	}

	return m.Fail(op)
}

func (m *Memory) put(n models.Node) {
	if _, ok := m.nodes[n.ID]; !ok {
		m.order = append(m.order, n.ID)
	}
	m.nodes[n.ID] = n.Clone()
}

func (m *Memory) list() []models.Node {
	out := make([]models.Node, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.nodes[id].Clone())
	}

	return out
}

func rejected(format string, args ...any) error {
	return fmt.Errorf("%w: %s", models.ErrRejectedMutation, fmt.Sprintf(format, args...))
}

// Graph returns every node in insertion order.
func (m *Memory) Graph(_ context.Context) ([]models.Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("get_graph"); err != nil {
		return nil, err
	}

	return m.list(), nil
}

// UpsertNode creates or replaces a node.
func (m *Memory) UpsertNode(_ context.Context, n models.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("upsert_node"); err != nil {
		return err
	}

	if err := n.Validate(); err != nil {
		return rejected("%v", err)
	}

	if n.Neighbors == nil {
		n.Neighbors = []string{}
	}
	m.put(n)

	return nil
}

// DeleteNode removes a node and every edge into it.
func (m *Memory) DeleteNode(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("delete_node"); err != nil {
		return err
	}

	if _, ok := m.nodes[id]; !ok {
		return rejected("node %q does not exist", id)
	}

	delete(m.nodes, id)
	m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == id })

	for k, n := range m.nodes {
		n.Neighbors = slices.DeleteFunc(n.Neighbors, func(s string) bool { return s == id })
		m.nodes[k] = n
	}

	for _, t := range m.teams {
		t.Solved = slices.DeleteFunc(t.Solved, func(s string) bool { return s == id })
	}

	return nil
}

// CreateEdge adds an edge between existing nodes.
func (m *Memory) CreateEdge(_ context.Context, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("create_edge"); err != nil {
		return err
	}

	src, ok := m.nodes[from]
	if !ok {
		return rejected("node %q does not exist", from)
	}
	if _, ok := m.nodes[to]; !ok {
		return rejected("node %q does not exist", to)
	}
	if from == to {
		return rejected("self loop on %q", from)
	}

	if !slices.Contains(src.Neighbors, to) {
		src.Neighbors = append(src.Neighbors, to)
		m.nodes[from] = src
	}

	return nil
}

// DeleteEdge removes an edge; a missing edge between existing nodes is a no-op.
func (m *Memory) DeleteEdge(_ context.Context, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("delete_edge"); err != nil {
		return err
	}

	src, ok := m.nodes[from]
	if !ok {
		return rejected("node %q does not exist", from)
	}
	if _, ok := m.nodes[to]; !ok {
		return rejected("node %q does not exist", to)
	}

	src.Neighbors = slices.DeleteFunc(src.Neighbors, func(s string) bool { return s == to })
	m.nodes[from] = src

	return nil
}

// AdminStatus returns the contest block.
func (m *Memory) AdminStatus(_ context.Context) (models.Contest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("admin_status"); err != nil {
		return models.Contest{}, err
	}

	return m.contest, nil
}

func (m *Memory) statusOf(t *MemoryTeam) map[string]models.Status {
	st := make(map[string]models.Status, len(t.Solved)+len(t.Available))
	for _, id := range t.Available {
		st[id] = models.StatusAvailable
	}
	for _, id := range t.Solved {
		st[id] = models.StatusSolved
	}

	return st
}

// TeamView resolves a team token.
func (m *Memory) TeamView(_ context.Context, token string) (models.TeamView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("get_team_view"); err != nil {
		return models.TeamView{}, err
	}

	for _, t := range m.teams {
		if t.Token != token {
			continue
		}

		st := m.statusOf(t)
		for _, id := range m.order {
			if _, ok := st[id]; !ok {
				st[id] = models.StatusLocked
			}
		}

		return models.TeamView{
			TeamName:    t.Name,
			Handles:     slices.Clone(t.Handles),
			SolvedCount: len(t.Solved),
			Score:       len(t.Solved),
			Nodes:       m.list(),
			Status:      st,
			Contest:     m.contest,
		}, nil
	}

	return models.TeamView{}, fmt.Errorf("%w: team token", models.ErrNotFound)
}

func (m *Memory) team(id string) (*MemoryTeam, error) {
	for _, t := range m.teams {
		if t.ID == id {
			return t, nil
		}
	}

	return nil, fmt.Errorf("%w: team %q", models.ErrNotFound, id)
}

// TeamState returns one team's status map.
func (m *Memory) TeamState(_ context.Context, teamID string) (models.TeamState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("get_team_state"); err != nil {
		return models.TeamState{}, err
	}

	t, err := m.team(teamID)
	if err != nil {
		return models.TeamState{}, err
	}

	return models.TeamState{Name: t.Name, Status: m.statusOf(t)}, nil
}

// SetSolved toggles a node in a team's solved set.
func (m *Memory) SetSolved(_ context.Context, teamID, nodeID string, solved bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("set_solved"); err != nil {
		return err
	}

	t, err := m.team(teamID)
	if err != nil {
		return rejected("%v", err)
	}
	if _, ok := m.nodes[nodeID]; !ok {
		return rejected("node %q does not exist", nodeID)
	}

	has := slices.Contains(t.Solved, nodeID)
	switch {
	case solved && !has:
		t.Solved = append(t.Solved, nodeID)
	case !solved && has:
		t.Solved = slices.DeleteFunc(t.Solved, func(s string) bool { return s == nodeID })
	}

	return nil
}

// RandomProblem picks uniformly among catalogue problems in range.
func (m *Memory) RandomProblem(_ context.Context, minRating, maxRating int) (models.Problem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("random_problem"); err != nil {
		return models.Problem{}, err
	}

	var in []models.Problem
	for _, p := range m.problems {
		if p.Rating >= minRating && p.Rating <= maxRating {
			in = append(in, p)
		}
	}
	if len(in) == 0 {
		return models.Problem{}, fmt.Errorf("%w: no problems rated %d-%d", models.ErrNotFound, minRating, maxRating)
	}

	return in[rand.IntN(len(in))], nil
}
