// Package graphsync translates editor commands into store calls and decides
// how the local view is reconciled afterwards.
package graphsync

import (
	"context"

	"github.com/graphway/graphway/internal/models"
)

// Store is the external system of record. Implementations classify failures
// by wrapping one of the models error sentinels.
type Store interface {
	Graph(ctx context.Context) ([]models.Node, error)
	UpsertNode(ctx context.Context, n models.Node) error
	DeleteNode(ctx context.Context, id string) error
	CreateEdge(ctx context.Context, from, to string) error
	DeleteEdge(ctx context.Context, from, to string) error

	AdminStatus(ctx context.Context) (models.Contest, error)
	TeamView(ctx context.Context, token string) (models.TeamView, error)
	TeamState(ctx context.Context, teamID string) (models.TeamState, error)
	SetSolved(ctx context.Context, teamID, nodeID string, solved bool) error

	// RandomProblem picks a catalogue problem rated within the inclusive
	// range. ErrNotFound means the range is empty.
	RandomProblem(ctx context.Context, minRating, maxRating int) (models.Problem, error)
}
