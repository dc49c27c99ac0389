// Package editor runs one graph editing or viewing session. A single goroutine
// (Run) owns the view model, the interaction machine and the session state;
// store calls run concurrently and post their results back to it.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/graphway/graphway/internal/geometry"
	"github.com/graphway/graphway/internal/graphsync"
	"github.com/graphway/graphway/internal/idgen"
	"github.com/graphway/graphway/internal/interaction"
	"github.com/graphway/graphway/internal/metrics"
	"github.com/graphway/graphway/internal/models"
	"github.com/graphway/graphway/internal/viewmodel"
)

// DefaultPollInterval is the participant and team-inspect refresh period.
const DefaultPollInterval = 10 * time.Second

// countdownTick is how often a participant countdown banner is republished.
var countdownTick = time.Second

// ErrClosed is returned for gestures that reach an editor that has stopped.
var ErrClosed = errors.New("editor closed")

// Options configures an Editor.
type Options struct {
	Mode models.Mode
	// TeamToken is the participant access token (readonly mode). The
	// inspected team of teamInspect mode is the Syncer's.
	TeamToken string
	// PollInterval overrides the refresh period; negative disables polling.
	// Zero uses DefaultPollInterval outside editor mode and no polling in it.
	PollInterval time.Duration
	NewID        idgen.Generator
	Now          func() time.Time
}

func (o Options) pollInterval() time.Duration {
	switch {
	case o.PollInterval < 0:
		return 0
	case o.PollInterval > 0:
		return o.PollInterval
	case o.Mode == models.ModeEditor:
		return 0
	default:
		return DefaultPollInterval
	}
}

// Outcome reports how a gesture ended. It is delivered once the store call
// and any reload it triggered have completed. Err is the mutation's own
// failure; ReloadErr is set when the mutation landed but the follow-up
// reload did not, leaving the frame stale.
type Outcome struct {
	Command   interaction.Command
	Reconcile graphsync.Reconcile
	Err       error
	ReloadErr error
	Frame     Frame
}

// AddNodeAtCenter is an AddNode at the current viewport center.
type AddNodeAtCenter struct{}

// Kind implements interaction.Gesture.
func (AddNodeAtCenter) Kind() string { return "add_node" }

type gestureReq struct {
	g     interaction.Gesture
	reply chan Outcome
}

type cameraReq struct {
	cam geometry.Camera
}

type refreshReq struct {
	reply chan Outcome
}

type snapshot struct {
	nodes   []models.Node
	status  map[string]models.Status
	contest *models.Contest
	team    *TeamHeader
}

type loadResult struct {
	reason  string
	snap    snapshot
	err     error
	cmd     interaction.Command
	rec     graphsync.Reconcile
	replies []chan Outcome
}

type mutationResult struct {
	cmd   interaction.Command
	rec   graphsync.Reconcile
	err   error
	reply chan Outcome
}

// Editor is one session. Create it with New and start it with Run.
type Editor struct {
	syncer *graphsync.Syncer
	log    *logrus.Logger
	opts   Options

	reqs    chan any
	results chan any
	done    chan struct{}
	ready   chan struct{}

	// Owned by the Run goroutine.
	vm       *viewmodel.ViewModel
	status   map[string]models.Status
	machine  *interaction.Machine
	contest  models.Contest
	team     *TeamHeader
	camera   geometry.Camera
	loaded   bool
	inflight int
	seq      uint64
	lastErr  string
	notice   string
	redirect string
	open     string

	mu        sync.Mutex
	last      Frame
	subs      map[int]chan Frame
	nextSub   int
	readyOnce sync.Once
}

// New creates an Editor. The mode must be valid; readonly needs a team token
// and teamInspect a team id.
func New(syncer *graphsync.Syncer, log *logrus.Logger, opts Options) (*Editor, error) {
	if !opts.Mode.Valid() {
		return nil, fmt.Errorf("editor: unknown mode %q", opts.Mode)
	}
	if opts.Mode == models.ModeReadOnly && opts.TeamToken == "" {
		return nil, errors.New("editor: readonly mode needs a team token")
	}
	if opts.Mode == models.ModeTeamInspect && syncer.TeamID() == "" {
		return nil, errors.New("editor: teamInspect mode needs a team id")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	e := &Editor{
		syncer:  syncer,
		log:     log,
		opts:    opts,
		reqs:    make(chan any),
		results: make(chan any),
		done:    make(chan struct{}),
		ready:   make(chan struct{}),
		vm:      viewmodel.New(),
		machine: interaction.New(interaction.Capabilities{Mode: opts.Mode}, opts.NewID),
		subs:    map[int]chan Frame{},
	}
	e.last = e.frame(opts.Now())

	return e, nil
}

// Run owns the session until ctx is cancelled. Results that arrive after
// cancellation are dropped.
func (e *Editor) Run(ctx context.Context) error {
	defer close(e.done)

	e.log.WithFields(logrus.Fields{
		"mode": e.opts.Mode,
		"poll": e.opts.pollInterval(),
	}).Info("editor session started")

	e.startReload(ctx, "initial", nil, nil, graphsync.ReconcileNone)
	e.publish()

	var tick <-chan time.Time
	if d := e.opts.pollInterval(); d > 0 {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		tick = ticker.C
	}

	var countdown <-chan time.Time
	if e.opts.Mode == models.ModeReadOnly {
		ticker := time.NewTicker(countdownTick)
		defer ticker.Stop()
		countdown = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			e.log.Info("editor session stopped")
			return nil

		case req := <-e.reqs:
			e.handleRequest(ctx, req)

		case res := <-e.results:
			e.handleResult(ctx, res)

		case <-tick:
			e.startReload(ctx, "poll", nil, nil, graphsync.ReconcileNone)
			e.publish()

		case <-countdown:
			e.tickCountdown(ctx)
		}
	}
}

// tickCountdown republishes while the countdown banner is showing, and
// reloads once the contest starts so the graph appears without waiting for
// the next poll.
func (e *Editor) tickCountdown(ctx context.Context) {
	if e.Frame().Banner != models.BannerCountdown {
		return
	}

	if e.contest.BannerAt(e.opts.Now()) == models.BannerRunning {
		e.startReload(ctx, "countdown", nil, nil, graphsync.ReconcileNone)
	}
	e.publish()
}

// Submit queues a gesture. The returned channel yields exactly one Outcome.
func (e *Editor) Submit(g interaction.Gesture) <-chan Outcome {
	reply := make(chan Outcome, 1)
	e.send(gestureReq{g: g, reply: reply}, reply)

	return reply
}

// Refresh forces a reload and reports when it has been applied.
func (e *Editor) Refresh() <-chan Outcome {
	reply := make(chan Outcome, 1)
	e.send(refreshReq{reply: reply}, reply)

	return reply
}

// SetCamera records the renderer's viewport. Its center is where new nodes
// are placed.
func (e *Editor) SetCamera(cam geometry.Camera) {
	e.send(cameraReq{cam: cam}, nil)
}

func (e *Editor) send(req any, reply chan Outcome) {
	select {
	case e.reqs <- req:
	case <-e.done:
		if reply != nil {
			reply <- Outcome{Err: ErrClosed}
		}
	}
}

// Loaded is closed once the first reload has completed, successfully or not.
func (e *Editor) Loaded() <-chan struct{} { return e.ready }

// Done is closed when Run returns.
func (e *Editor) Done() <-chan struct{} { return e.done }

// Frame returns the most recently published frame.
func (e *Editor) Frame() Frame {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.last
}

// Subscribe registers for frames. The channel receives the current frame
// immediately; slow subscribers miss intermediate frames but always see the
// latest one. Call the returned func to unsubscribe.
func (e *Editor) Subscribe() (<-chan Frame, func()) {
	ch := make(chan Frame, 1)

	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = ch
	ch <- e.last
	e.mu.Unlock()

	return ch, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

func (e *Editor) publish() {
	e.seq++
	f := e.frame(e.opts.Now())

	metrics.NodeCount.Set(float64(len(f.Nodes)))
	metrics.EdgeCount.Set(float64(len(f.Edges)))

	e.mu.Lock()
	defer e.mu.Unlock()

	e.last = f
	for _, ch := range e.subs {
		select {
		case ch <- f:
		default:
			// Replace the stale frame with the latest.
			select {
			case <-ch:
			default:
			}
			ch <- f
		}
	}
}

func (e *Editor) handleRequest(ctx context.Context, req any) {
	switch r := req.(type) {
	case cameraReq:
		e.camera = r.cam
		e.publish()

	case refreshReq:
		e.startReload(ctx, "refresh", nil, []chan Outcome{r.reply}, graphsync.ReconcileNone)
		e.publish()

	case gestureReq:
		e.handleGesture(ctx, r)
	}
}

func (e *Editor) handleGesture(ctx context.Context, r gestureReq) {
	g := r.g
	if _, ok := g.(AddNodeAtCenter); ok {
		g = interaction.AddNode{Position: e.camera.Center()}
	}

	e.notice = ""
	e.open = ""

	cmd, err := e.machine.Handle(g, e.view())
	if err != nil {
		metrics.GesturesTotal.WithLabelValues(g.Kind(), "refused").Inc()
		e.log.WithFields(logrus.Fields{"gesture": g.Kind(), "error": err}).Debug("gesture refused")
		e.lastErr = err.Error()
		e.publish()
		r.reply <- Outcome{Err: err, Frame: e.Frame()}
		return
	}

	e.lastErr = ""

	switch c := cmd.(type) {
	case nil:
		metrics.GesturesTotal.WithLabelValues(g.Kind(), "local").Inc()
		e.publish()
		r.reply <- Outcome{Frame: e.Frame()}
		return
	case interaction.MoveLocal:
		e.vm.MoveLocal(c.ID, c.Position)
		metrics.GesturesTotal.WithLabelValues(g.Kind(), "local").Inc()
		e.publish()
		r.reply <- Outcome{Command: cmd, Frame: e.Frame()}
		return
	case interaction.OpenProblem:
		e.open = c.URL
		metrics.GesturesTotal.WithLabelValues(g.Kind(), "local").Inc()
		e.publish()
		r.reply <- Outcome{Command: cmd, Frame: e.Frame()}
		return
	case interaction.MoveNode:
		e.vm.MoveLocal(c.Node.ID, c.Node.Position)
	}

	metrics.GesturesTotal.WithLabelValues(g.Kind(), "remote").Inc()
	e.inflight++
	e.publish()

	go func() {
		rec, err := e.syncer.Apply(ctx, cmd)
		e.post(ctx, mutationResult{cmd: cmd, rec: rec, err: err, reply: r.reply}, r.reply)
	}()
}

// post hands a result to the loop, or fails the waiting caller once the
// session is gone.
func (e *Editor) post(ctx context.Context, res any, replies ...chan Outcome) {
	select {
	case e.results <- res:
	case <-ctx.Done():
		for _, reply := range replies {
			if reply != nil {
				reply <- Outcome{Err: ErrClosed}
			}
		}
	}
}

func (e *Editor) handleResult(ctx context.Context, res any) {
	switch r := res.(type) {
	case mutationResult:
		e.inflight--
		if r.err != nil {
			e.lastErr = r.err.Error()
			e.publish()
			r.reply <- Outcome{Command: r.cmd, Err: r.err, Frame: e.Frame()}
			return
		}

		if r.rec == graphsync.ReconcileNone {
			e.publish()
			r.reply <- Outcome{Command: r.cmd, Reconcile: r.rec, Frame: e.Frame()}
			return
		}

		e.startReload(ctx, "mutation", r.cmd, []chan Outcome{r.reply}, r.rec)
		e.publish()

	case loadResult:
		e.inflight--
		e.applyLoad(r)
		e.readyOnce.Do(func() { close(e.ready) })
		if r.cmd != nil && r.err != nil {
			e.lastErr = "reload failed: " + r.err.Error()
		}
		e.publish()

		out := Outcome{Command: r.cmd, Reconcile: r.rec, Err: r.err}
		if r.cmd != nil {
			// The mutation itself succeeded.
			out.Err, out.ReloadErr = nil, r.err
		}
		out.Frame = e.Frame()
		for _, reply := range r.replies {
			reply <- out
		}
	}
}

func (e *Editor) applyLoad(r loadResult) {
	if r.err != nil {
		if e.opts.Mode == models.ModeReadOnly && errors.Is(r.err, models.ErrNotFound) {
			e.log.Warn("team token did not resolve, redirecting")
			e.redirect = "/"
			return
		}

		e.log.WithFields(logrus.Fields{"reason": r.reason, "error": r.err}).Warn("reload failed")
		e.lastErr = r.err.Error()
		return
	}

	if r.snap.nodes != nil {
		e.vm.Replace(r.snap.nodes)
	}
	if r.snap.status != nil {
		e.status = r.snap.status
	}
	if r.snap.contest != nil {
		e.contest = *r.snap.contest
		if e.opts.Mode != models.ModeTeamInspect {
			e.machine.SetPhase(e.contest.Phase)
		}
	}
	if r.snap.team != nil {
		e.team = r.snap.team
	}
	e.loaded = true

	if err := e.machine.Reconcile(e.view()); err != nil {
		e.notice = err.Error()
	}
}

// view adapts the loop state to interaction.GraphView.
func (e *Editor) view() sessionView {
	return sessionView{vm: e.vm, status: e.status}
}

type sessionView struct {
	vm     *viewmodel.ViewModel
	status map[string]models.Status
}

func (v sessionView) Node(id string) (models.Node, bool) { return v.vm.Node(id) }

func (v sessionView) HasEdge(edge models.Edge) bool { return v.vm.HasEdge(edge) }

func (v sessionView) Status(id string) models.Status {
	if v.status == nil {
		return ""
	}
	if st, ok := v.status[id]; ok {
		return st
	}

	return models.StatusLocked
}
