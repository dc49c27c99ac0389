package viewmodel

import (
	"github.com/graphway/graphway/internal/geometry"
	"github.com/graphway/graphway/internal/models"
)

// Display tokens.
const (
	LabelLocked    = "?"
	LabelSolved    = "AC"
	LabelAvailable = "Solve"
	LabelFallback  = "Problem"
	TitleLocked    = "Locked"
)

// Options carries the session affordances that are not part of the data.
type Options struct {
	// Editable allows dragging and connecting nodes.
	Editable bool
	// NodeSize overrides the glyph diameter; zero uses geometry.NodeDiameter.
	NodeSize float64
	// Reveal keeps locked nodes labelled and clickable (operator inspection).
	Reveal bool
}

// RenderNode is one node as the renderer draws it.
type RenderNode struct {
	ID          string         `json:"id"`
	PID         string         `json:"pid,omitempty"`
	Label       string         `json:"label"`
	Title       string         `json:"title,omitempty"`
	Rating      int            `json:"rating,omitempty"`
	ShowRating  bool           `json:"show_rating"`
	Status      models.Status  `json:"status,omitempty"`
	Position    geometry.Point `json:"position"`
	Width       float64        `json:"width"`
	Height      float64        `json:"height"`
	Draggable   bool           `json:"draggable"`
	Connectable bool           `json:"connectable"`
	Clickable   bool           `json:"clickable"`
}

// Box returns the node's measured footprint.
func (n RenderNode) Box() geometry.Box {
	return geometry.Box{Position: n.Position, Width: n.Width, Height: n.Height}
}

// RenderEdge is one derived edge with its rim-to-rim segment. Routed is false
// when an endpoint is missing or unmeasured, and the edge is not drawn.
type RenderEdge struct {
	ID       string           `json:"id"`
	Source   string           `json:"source"`
	Target   string           `json:"target"`
	Animated bool             `json:"animated"`
	Routed   bool             `json:"routed"`
	Segment  geometry.Segment `json:"segment"`
}

// Projection is the full render-ready view.
type Projection struct {
	Nodes []RenderNode `json:"nodes"`
	Edges []RenderEdge `json:"edges"`
}

// Project builds render records from nodes and optional per-node status. It
// reads nothing but its arguments.
func Project(nodes []models.Node, status map[string]models.Status, opts Options) Projection {
	size := opts.NodeSize
	if size <= 0 {
		size = geometry.NodeDiameter
	}

	p := Projection{Nodes: make([]RenderNode, 0, len(nodes))}
	byID := make(map[string]RenderNode, len(nodes))

	for _, n := range nodes {
		rn := projectNode(n, status, opts, size)
		p.Nodes = append(p.Nodes, rn)
		byID[n.ID] = rn
	}

	for _, e := range DeriveEdges(nodes) {
		re := RenderEdge{
			ID:       e.ID(),
			Source:   e.Source,
			Target:   e.Target,
			Animated: status != nil && status[e.Source] == models.StatusSolved,
		}

		src, okS := byID[e.Source]
		dst, okT := byID[e.Target]
		if okS && okT {
			re.Segment, re.Routed = geometry.Route(src.Box(), dst.Box())
		}

		p.Edges = append(p.Edges, re)
	}

	return p
}

func projectNode(n models.Node, status map[string]models.Status, opts Options, size float64) RenderNode {
	rn := RenderNode{
		ID:        n.ID,
		PID:       n.PID,
		Title:     n.PID,
		Rating:    n.Rating,
		Position:  n.Position,
		Width:     size,
		Height:    size,
		Clickable: true,
	}

	if status != nil {
		st, ok := status[n.ID]
		if !ok {
			st = models.StatusLocked
		}
		rn.Status = st
	}

	switch {
	case rn.Status == models.StatusLocked && opts.Reveal:
		rn.Label = labelOf(n)
	case rn.Status == models.StatusLocked:
		rn.Label = LabelLocked
		rn.Title = TitleLocked
		rn.Rating = 0
		rn.Clickable = false
		return rn
	case rn.Status == models.StatusSolved:
		rn.Label = LabelSolved
	case rn.Status == models.StatusAvailable:
		rn.Label = LabelAvailable
	default:
		rn.Label = labelOf(n)
	}

	rn.ShowRating = n.Rating > 0
	rn.Draggable = opts.Editable
	rn.Connectable = opts.Editable

	return rn
}

func labelOf(n models.Node) string {
	if n.PID == "" {
		return LabelFallback
	}

	return n.PID
}
