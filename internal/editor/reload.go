package editor

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/graphway/graphway/internal/graphsync"
	"github.com/graphway/graphway/internal/interaction"
	"github.com/graphway/graphway/internal/models"
)

// startReload fetches whatever the session mode needs in a new goroutine.
// Reloads are not coalesced; results apply in arrival order.
func (e *Editor) startReload(ctx context.Context, reason string, cmd interaction.Command, replies []chan Outcome, rec graphsync.Reconcile) {
	e.inflight++

	fetch := e.fetchAll
	if rec == graphsync.ReloadTeam && e.opts.Mode == models.ModeTeamInspect {
		fetch = e.fetchTeamState
	}

	go func() {
		snap, err := fetch(ctx, reason)
		e.post(ctx, loadResult{
			reason:  reason,
			snap:    snap,
			err:     err,
			cmd:     cmd,
			rec:     rec,
			replies: replies,
		}, replies...)
	}()
}

func (e *Editor) fetchAll(ctx context.Context, reason string) (snapshot, error) {
	switch e.opts.Mode {
	case models.ModeReadOnly:
		return e.fetchTeamView(ctx, reason)
	case models.ModeTeamInspect:
		return e.fetchInspect(ctx, reason)
	default:
		return e.fetchEditor(ctx, reason)
	}
}

// fetchEditor loads the graph and the contest phase together.
func (e *Editor) fetchEditor(ctx context.Context, reason string) (snapshot, error) {
	var (
		snap    snapshot
		contest models.Contest
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		nodes, err := e.syncer.LoadGraph(gctx, reason)
		snap.nodes = nodes
		return err
	})
	g.Go(func() error {
		c, err := e.syncer.Status(gctx)
		contest = c
		return err
	})

	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}

	if snap.nodes == nil {
		snap.nodes = []models.Node{}
	}
	snap.contest = &contest

	return snap, nil
}

func (e *Editor) fetchTeamView(ctx context.Context, reason string) (snapshot, error) {
	v, err := e.syncer.LoadTeamView(ctx, e.opts.TeamToken, reason)
	if err != nil {
		return snapshot{}, err
	}

	nodes := v.Nodes
	if nodes == nil {
		nodes = []models.Node{}
	}
	status := v.Status
	if status == nil {
		status = map[string]models.Status{}
	}

	return snapshot{
		nodes:   nodes,
		status:  status,
		contest: &v.Contest,
		team: &TeamHeader{
			Name:        v.TeamName,
			Handles:     v.Handles,
			SolvedCount: v.SolvedCount,
			Score:       v.Score,
		},
	}, nil
}

// fetchInspect loads the graph and the inspected team's status together.
func (e *Editor) fetchInspect(ctx context.Context, reason string) (snapshot, error) {
	var (
		snap snapshot
		st   models.TeamState
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		nodes, err := e.syncer.LoadGraph(gctx, reason)
		snap.nodes = nodes
		return err
	})
	g.Go(func() error {
		s, err := e.syncer.LoadTeamState(gctx, reason)
		st = s
		return err
	})

	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}

	if snap.nodes == nil {
		snap.nodes = []models.Node{}
	}
	snap.status = teamStatus(st)
	snap.team = &TeamHeader{Name: st.Name}

	return snap, nil
}

func (e *Editor) fetchTeamState(ctx context.Context, reason string) (snapshot, error) {
	st, err := e.syncer.LoadTeamState(ctx, reason)
	if err != nil {
		return snapshot{}, err
	}

	return snapshot{status: teamStatus(st), team: &TeamHeader{Name: st.Name}}, nil
}

func teamStatus(st models.TeamState) map[string]models.Status {
	if st.Status == nil {
		return map[string]models.Status{}
	}

	return st.Status
}
