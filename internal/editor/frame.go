package editor

import (
	"time"

	"github.com/graphway/graphway/internal/geometry"
	"github.com/graphway/graphway/internal/interaction"
	"github.com/graphway/graphway/internal/models"
	"github.com/graphway/graphway/internal/viewmodel"
	"github.com/graphway/graphway/internal/viewport"
)

// Empty-state messages.
const (
	EmptyEditor   = "The graph is empty. Add a node to start."
	EmptyReadOnly = "Nothing to see here."
)

// SelectionFrame is the selection as the renderer sees it.
type SelectionFrame struct {
	Kind string       `json:"kind"`
	Node string       `json:"node,omitempty"`
	Edge *models.Edge `json:"edge,omitempty"`
}

// TeamHeader is the participant header block.
type TeamHeader struct {
	Name        string   `json:"name"`
	Handles     []string `json:"handles"`
	SolvedCount int      `json:"solved_count"`
	Score       int      `json:"score"`
}

// Frame is one complete render state. Frames are immutable once published.
type Frame struct {
	Seq       uint64       `json:"seq"`
	Mode      models.Mode  `json:"mode"`
	Effective models.Mode  `json:"effective_mode"`
	Phase     models.Phase `json:"phase,omitempty"`
	Loading   bool         `json:"loading"`
	Loaded    bool         `json:"loaded"`

	State          string          `json:"state"`
	Selection      *SelectionFrame `json:"selection,omitempty"`
	ConnectingFrom string          `json:"connecting_from,omitempty"`

	Nodes []viewmodel.RenderNode `json:"nodes"`
	Edges []viewmodel.RenderEdge `json:"edges"`
	Empty string                 `json:"empty,omitempty"`

	Bound  *geometry.Rect   `json:"bound,omitempty"`
	Fit    *geometry.Camera `json:"fit,omitempty"`
	Camera geometry.Camera  `json:"camera"`

	Contest   string        `json:"contest,omitempty"`
	Team      *TeamHeader   `json:"team,omitempty"`
	Banner    models.Banner `json:"banner,omitempty"`
	Countdown int64         `json:"countdown_seconds,omitempty"`

	Error    string `json:"error,omitempty"`
	Notice   string `json:"notice,omitempty"`
	Redirect string `json:"redirect,omitempty"`
	Open     string `json:"open,omitempty"`
}

// frame builds a Frame from the loop-owned state.
func (e *Editor) frame(now time.Time) Frame {
	caps := e.machine.Capabilities()
	st := e.machine.State()

	f := Frame{
		Seq:            e.seq,
		Mode:           caps.Mode,
		Effective:      caps.Effective(),
		Phase:          caps.Phase,
		Loading:        e.inflight > 0,
		Loaded:         e.loaded,
		State:          st.Name(),
		ConnectingFrom: st.ConnectingFrom,
		Camera:         e.camera,
		Contest:        e.contest.Name,
		Team:           e.team,
		Error:          e.lastErr,
		Notice:         e.notice,
		Redirect:       e.redirect,
		Open:           e.open,
	}

	switch st.Selection.Kind {
	case interaction.SelectNode:
		f.Selection = &SelectionFrame{Kind: "node", Node: st.Selection.Node}
	case interaction.SelectEdge:
		edge := st.Selection.Edge
		f.Selection = &SelectionFrame{Kind: "edge", Edge: &edge}
	}

	if caps.Mode == models.ModeReadOnly && e.loaded {
		f.Banner = e.contest.BannerAt(now)
		if f.Banner == models.BannerCountdown {
			f.Countdown = int64(e.contest.Countdown(now) / time.Second)
		}
		if f.Banner != models.BannerRunning {
			f.Nodes = []viewmodel.RenderNode{}
			f.Edges = []viewmodel.RenderEdge{}
			return f
		}
	}

	nodes := e.vm.Nodes()
	p := viewmodel.Project(nodes, e.status, viewmodel.Options{
		Editable: caps.Drag(),
		Reveal:   caps.Mode == models.ModeTeamInspect,
	})
	f.Nodes = p.Nodes
	f.Edges = p.Edges
	if f.Edges == nil {
		f.Edges = []viewmodel.RenderEdge{}
	}

	if len(nodes) == 0 {
		if e.loaded {
			f.Empty = EmptyEditor
			if caps.Effective() != models.ModeEditor {
				f.Empty = EmptyReadOnly
			}
		}
		return f
	}

	if caps.Mode == models.ModeReadOnly {
		pos := make([]geometry.Point, len(nodes))
		for i, n := range nodes {
			pos[i] = n.Position
		}
		if b, ok := viewport.Bounds(pos, viewport.DefaultOptions()); ok {
			f.Bound = &b
			if e.camera.Width > 0 && e.camera.Height > 0 {
				fit := viewport.FitCamera(b, e.camera.Width, e.camera.Height, viewport.DefaultPadding)
				f.Fit = &fit
			}
		}
	}

	return f
}
