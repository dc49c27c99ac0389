package graphsync

import (
	"context"
	"fmt"
	"math"

	"github.com/graphway/graphway/client"
	"github.com/graphway/graphway/internal/geometry"
	"github.com/graphway/graphway/internal/models"
)

// Remote is the Store backed by the HTTP API.
type Remote struct {
	c *client.Client
}

// NewRemote wraps an API client.
func NewRemote(c *client.Client) *Remote {
	return &Remote{c: c}
}

// Graph returns every node.
func (r *Remote) Graph(ctx context.Context) ([]models.Node, error) {
	wire, err := r.c.Graph.Get(ctx)
	if err != nil {
		return nil, classify(err)
	}

	nodes := make([]models.Node, len(wire))
	for i, n := range wire {
		nodes[i] = fromWire(n)
	}

	return nodes, nil
}

// UpsertNode creates or replaces a node. Coordinates are rounded; the store
// keeps integers.
func (r *Remote) UpsertNode(ctx context.Context, n models.Node) error {
	return classify(r.c.Graph.UpsertNode(ctx, toWire(n)))
}

// DeleteNode removes a node.
func (r *Remote) DeleteNode(ctx context.Context, id string) error {
	return classify(r.c.Graph.DeleteNode(ctx, id))
}

// CreateEdge adds an edge.
func (r *Remote) CreateEdge(ctx context.Context, from, to string) error {
	return classify(r.c.Graph.CreateEdge(ctx, from, to))
}

// DeleteEdge removes an edge.
func (r *Remote) DeleteEdge(ctx context.Context, from, to string) error {
	return classify(r.c.Graph.DeleteEdge(ctx, from, to))
}

// AdminStatus verifies the operator token and returns the contest block.
func (r *Remote) AdminStatus(ctx context.Context) (models.Contest, error) {
	st, err := r.c.Admin.Status(ctx)
	if err != nil {
		return models.Contest{}, classify(err)
	}

	return contestFromWire(st.Contest), nil
}

// TeamView resolves a team token into its participant view.
func (r *Remote) TeamView(ctx context.Context, token string) (models.TeamView, error) {
	v, err := r.c.Teams.View(ctx, token)
	if err != nil {
		return models.TeamView{}, classify(err)
	}

	out := models.TeamView{
		TeamName:    v.TeamName,
		Handles:     v.Handles,
		SolvedCount: v.SolvedCount,
		Score:       v.Score,
		Nodes:       make([]models.Node, len(v.Nodes)),
		Status:      make(map[string]models.Status, len(v.Nodes)),
		Contest:     contestFromWire(v.Contest),
	}

	for i, n := range v.Nodes {
		out.Nodes[i] = fromWire(n)
		out.Status[n.ID] = statusFromWire(n.State)
	}

	return out, nil
}

// TeamState returns per-node status for one team. Nodes that are neither
// solved nor available are absent and read as locked.
func (r *Remote) TeamState(ctx context.Context, teamID string) (models.TeamState, error) {
	st, err := r.c.Teams.State(ctx, teamID)
	if err != nil {
		return models.TeamState{}, classify(err)
	}

	out := models.TeamState{
		Name:   st.Name,
		Status: make(map[string]models.Status, len(st.Solved)+len(st.Available)),
	}
	for _, id := range st.Available {
		out.Status[id] = models.StatusAvailable
	}
	for _, id := range st.Solved {
		out.Status[id] = models.StatusSolved
	}

	return out, nil
}

// SetSolved force-marks a node for a team.
func (r *Remote) SetSolved(ctx context.Context, teamID, nodeID string, solved bool) error {
	if solved {
		return classify(r.c.Teams.Solve(ctx, teamID, nodeID))
	}

	return classify(r.c.Teams.Unsolve(ctx, teamID, nodeID))
}

// classify wraps an SDK error with its taxonomy sentinel.
// RandomProblem asks the backend's catalogue for a problem in range.
func (r *Remote) RandomProblem(ctx context.Context, minRating, maxRating int) (models.Problem, error) {
	p, err := r.c.Admin.RandomProblem(ctx, minRating, maxRating)
	if err != nil {
		return models.Problem{}, classify(err)
	}

	return models.Problem{PID: p.PID, Name: p.Name, Rating: p.Rating}, nil
}

func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case client.IsNotFound(err):
		return fmt.Errorf("%w: %w", models.ErrNotFound, err)
	case client.IsNetwork(err):
		return fmt.Errorf("%w: %w", models.ErrNetworkFailure, err)
	case client.IsRejected(err):
		return fmt.Errorf("%w: %w", models.ErrRejectedMutation, err)
	default:
		return fmt.Errorf("%w: %w", models.ErrNetworkFailure, err)
	}
}

func fromWire(n client.Node) models.Node {
	nb := n.Neighbors
	if nb == nil {
		nb = []string{}
	}

	return models.Node{
		ID:        n.ID,
		PID:       n.PID,
		Rating:    n.Rating,
		Position:  geometry.Point{X: n.Position.X, Y: n.Position.Y},
		Neighbors: nb,
	}
}

func toWire(n models.Node) client.Node {
	return client.Node{
		ID:        n.ID,
		PID:       n.PID,
		Rating:    n.Rating,
		Position:  client.Position{X: math.Round(n.Position.X), Y: math.Round(n.Position.Y)},
		Neighbors: n.Neighbors,
	}
}

func contestFromWire(c client.Contest) models.Contest {
	return models.Contest{
		Name:      c.Name,
		StartTime: c.StartTime,
		Duration:  c.Duration,
		Phase:     models.Phase(c.State),
	}
}

func statusFromWire(s string) models.Status {
	switch models.Status(s) {
	case models.StatusSolved, models.StatusAvailable:
		return models.Status(s)
	default:
		return models.StatusLocked
	}
}
