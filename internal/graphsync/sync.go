package graphsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/graphway/graphway/internal/interaction"
	"github.com/graphway/graphway/internal/metrics"
	"github.com/graphway/graphway/internal/models"
)

// Reconcile tells the caller how to bring the view back in line with the
// store after a command.
type Reconcile int

// Reconciliation policies.
const (
	// ReconcileNone keeps the local state as is.
	ReconcileNone Reconcile = iota
	// ReloadGraph refetches the node list.
	ReloadGraph
	// ReloadTeam refetches the inspected team's status.
	ReloadTeam
)

func (r Reconcile) String() string {
	switch r {
	case ReloadGraph:
		return "graph"
	case ReloadTeam:
		return "team"
	default:
		return "none"
	}
}

// Syncer runs commands against a Store. It holds no view state and is safe
// for concurrent use.
type Syncer struct {
	store  Store
	teamID string
	log    *logrus.Logger
}

// NewSyncer creates a Syncer. teamID is the team toggled by SetSolved and may
// be empty outside team inspection.
func NewSyncer(store Store, teamID string, log *logrus.Logger) *Syncer {
	return &Syncer{store: store, teamID: teamID, log: log}
}

// TeamID returns the inspected team, if any.
func (s *Syncer) TeamID() string { return s.teamID }

// Apply executes cmd. On success it returns the reconciliation the caller
// must perform; on failure it returns a *MutationError and ReconcileNone.
// Nothing is retried.
func (s *Syncer) Apply(ctx context.Context, cmd interaction.Command) (Reconcile, error) {
	if !cmd.Remote() {
		return ReconcileNone, nil
	}

	err := s.observe(cmd.Op(), func() error { return s.dispatch(ctx, cmd) })
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"op":    cmd.Op(),
			"error": err,
		}).Warn("store mutation failed")

		return ReconcileNone, &MutationError{Op: interaction.Describe(cmd), Kind: KindOf(err), Err: err}
	}

	s.log.WithField("op", cmd.Op()).Debug("store mutation applied")

	if interaction.Structural(cmd) {
		return ReloadGraph, nil
	}

	if _, ok := cmd.(interaction.SetSolved); ok {
		return ReloadTeam, nil
	}

	return ReconcileNone, nil
}

func (s *Syncer) dispatch(ctx context.Context, cmd interaction.Command) error {
	switch c := cmd.(type) {
	case interaction.CreateEdge:
		return s.store.CreateEdge(ctx, c.From, c.To)
	case interaction.DeleteEdge:
		return s.store.DeleteEdge(ctx, c.Edge.Source, c.Edge.Target)
	case interaction.DeleteNode:
		return s.store.DeleteNode(ctx, c.ID)
	case interaction.UpsertNode:
		return s.store.UpsertNode(ctx, c.Node)
	case interaction.MoveNode:
		return s.store.UpsertNode(ctx, c.Node)
	case interaction.SetSolved:
		if s.teamID == "" {
			return fmt.Errorf("%w: no team selected", models.ErrRejectedMutation)
		}
		return s.store.SetSolved(ctx, s.teamID, c.NodeID, c.Solved)
	default:
		return fmt.Errorf("%w: unsupported command %s", models.ErrRejectedMutation, cmd.Op())
	}
}

// LoadGraph fetches the full node list.
func (s *Syncer) LoadGraph(ctx context.Context, reason string) ([]models.Node, error) {
	metrics.ReloadsTotal.WithLabelValues(reason).Inc()

	var nodes []models.Node
	err := s.observe("get_graph", func() error {
		var err error
		nodes, err = s.store.Graph(ctx)
		return err
	})

	return nodes, err
}

// Graph implements viewmodel.Loader.
func (s *Syncer) Graph(ctx context.Context) ([]models.Node, error) {
	return s.LoadGraph(ctx, "load")
}

// LoadTeamView fetches a participant view by token.
func (s *Syncer) LoadTeamView(ctx context.Context, token, reason string) (models.TeamView, error) {
	metrics.ReloadsTotal.WithLabelValues(reason).Inc()

	var v models.TeamView
	err := s.observe("get_team_view", func() error {
		var err error
		v, err = s.store.TeamView(ctx, token)
		return err
	})

	return v, err
}

// LoadTeamState fetches the inspected team's status.
func (s *Syncer) LoadTeamState(ctx context.Context, reason string) (models.TeamState, error) {
	metrics.ReloadsTotal.WithLabelValues(reason).Inc()

	var st models.TeamState
	err := s.observe("get_team_state", func() error {
		if s.teamID == "" {
			return fmt.Errorf("%w: no team selected", models.ErrNotFound)
		}
		var err error
		st, err = s.store.TeamState(ctx, s.teamID)
		return err
	})

	return st, err
}

// Status fetches the contest configuration with the operator token.
func (s *Syncer) Status(ctx context.Context) (models.Contest, error) {
	var c models.Contest
	err := s.observe("admin_status", func() error {
		var err error
		c, err = s.store.AdminStatus(ctx)
		return err
	})

	return c, err
}

func (s *Syncer) observe(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.StoreRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.StoreRequestsTotal.WithLabelValues(op, "ok").Inc()
	case errors.Is(err, context.Canceled):
		metrics.StoreRequestsTotal.WithLabelValues(op, "canceled").Inc()
	default:
		metrics.StoreRequestsTotal.WithLabelValues(op, outcome(err)).Inc()
	}

	return err
}
