// Package interaction implements the editor's selection and connect-mode state
// machine. Transitions are pure: Handle returns the command to run and never
// performs I/O.
package interaction

import (
	"errors"

	"github.com/graphway/graphway/internal/models"
)

// Gesture rejections. None of them reach the store.
var (
	ErrNotPermitted = errors.New("not permitted in this mode")
	ErrNoSelection  = errors.New("nothing selected")
	ErrUnknownNode  = errors.New("unknown node")
	ErrUnknownEdge  = errors.New("unknown edge")
	ErrConnecting   = errors.New("an edge is being connected; pick a target or cancel")
)

// SelectionKind tells which selection slot is active.
type SelectionKind int

// Selection kinds.
const (
	SelectNone SelectionKind = iota
	SelectNode
	SelectEdge
)

// Selection is either empty, one node or one edge.
type Selection struct {
	Kind SelectionKind
	Node string
	Edge models.Edge
}

// State is the per-session view state.
type State struct {
	Selection      Selection
	ConnectingFrom string
}

// Name returns the state label used in frames and logs.
func (s State) Name() string {
	switch {
	case s.ConnectingFrom != "":
		return "Connecting"
	case s.Selection.Kind == SelectNode:
		return "NodeSelected"
	case s.Selection.Kind == SelectEdge:
		return "EdgeSelected"
	default:
		return "Idle"
	}
}

// Idle reports whether nothing is selected.
func (s State) Idle() bool {
	return s.Selection.Kind == SelectNone && s.ConnectingFrom == ""
}

func idle() State { return State{} }

func nodeSelected(id string) State {
	return State{Selection: Selection{Kind: SelectNode, Node: id}}
}

func edgeSelected(e models.Edge) State {
	return State{Selection: Selection{Kind: SelectEdge, Edge: e}}
}

// Capabilities is the single authorization predicate of a session, derived
// from its mode and the contest phase.
type Capabilities struct {
	Mode  models.Mode
	Phase models.Phase
}

// Effective returns the mode the session actually behaves as. An editor
// outside the editing phase is read-only.
func (c Capabilities) Effective() models.Mode {
	if c.Mode == models.ModeEditor && c.Phase != models.PhaseEditing {
		return models.ModeReadOnly
	}

	return c.Mode
}

// Structural reports whether nodes and edges may be added or removed.
func (c Capabilities) Structural() bool {
	return c.Effective() == models.ModeEditor
}

// Drag reports whether nodes may be repositioned.
func (c Capabilities) Drag() bool {
	return c.Structural()
}

// SelectEdges reports whether edges can be selected.
func (c Capabilities) SelectEdges() bool {
	return c.Structural()
}

// ToggleSolved reports whether solve/unsolve is allowed. Phase does not matter.
func (c Capabilities) ToggleSolved() bool {
	return c.Mode == models.ModeTeamInspect
}
