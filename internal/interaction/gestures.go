package interaction

import (
	"fmt"
	"math"

	"github.com/graphway/graphway/internal/geometry"
	"github.com/graphway/graphway/internal/models"
)

// Gesture is a user action fed to the Machine.
type Gesture interface {
	Kind() string
}

// ClickNode is a click on a node glyph.
type ClickNode struct{ ID string }

// ClickEdge is a click on an edge.
type ClickEdge struct{ Edge models.Edge }

// ClickPane is a click on empty canvas.
type ClickPane struct{}

// StartConnect is the "add edge" action on the selected node.
type StartConnect struct{}

// Delete removes the selected node or edge.
type Delete struct{}

// AddNode creates a node at Position, normally the viewport center.
type AddNode struct{ Position geometry.Point }

// DragMove is an intermediate drag position; it only moves the node locally.
type DragMove struct {
	ID       string
	Position geometry.Point
}

// DragEnd commits a drag.
type DragEnd struct {
	ID       string
	Position geometry.Point
}

// EditNode replaces the selected node's pid and rating.
type EditNode struct {
	PID    string
	Rating int
}

// Solve marks the selected node solved for the inspected team.
type Solve struct{}

// Unsolve marks the selected node unsolved for the inspected team.
type Unsolve struct{}

func (ClickNode) Kind() string    { return "click_node" }
func (ClickEdge) Kind() string    { return "click_edge" }
func (ClickPane) Kind() string    { return "click_pane" }
func (StartConnect) Kind() string { return "start_connect" }
func (Delete) Kind() string       { return "delete" }
func (AddNode) Kind() string      { return "add_node" }
func (DragMove) Kind() string     { return "drag_move" }
func (DragEnd) Kind() string      { return "drag_end" }
func (EditNode) Kind() string     { return "edit_node" }
func (Solve) Kind() string        { return "solve" }
func (Unsolve) Kind() string      { return "unsolve" }

// Command is the side effect a transition asks for.
type Command interface {
	// Op names the command for logs and metrics.
	Op() string
	// Remote reports whether the command needs the store.
	Remote() bool
}

// CreateEdge adds To to From's neighbor list.
type CreateEdge struct{ From, To string }

// DeleteEdge removes an edge.
type DeleteEdge struct{ Edge models.Edge }

// DeleteNode removes a node.
type DeleteNode struct{ ID string }

// UpsertNode creates or replaces a node.
type UpsertNode struct{ Node models.Node }

// MoveNode persists a dragged node's position. The local position already
// reflects it.
type MoveNode struct{ Node models.Node }

// MoveLocal moves a node in the view model only.
type MoveLocal struct {
	ID       string
	Position geometry.Point
}

// SetSolved toggles a node for the inspected team.
type SetSolved struct {
	NodeID string
	Solved bool
}

// OpenProblem asks the renderer to open a problem page.
type OpenProblem struct {
	NodeID string
	URL    string
}

func (CreateEdge) Op() string  { return "create_edge" }
func (DeleteEdge) Op() string  { return "delete_edge" }
func (DeleteNode) Op() string  { return "delete_node" }
func (UpsertNode) Op() string  { return "upsert_node" }
func (MoveNode) Op() string    { return "move_node" }
func (MoveLocal) Op() string   { return "move_local" }
func (SetSolved) Op() string   { return "set_solved" }
func (OpenProblem) Op() string { return "open_problem" }

func (CreateEdge) Remote() bool  { return true }
func (DeleteEdge) Remote() bool  { return true }
func (DeleteNode) Remote() bool  { return true }
func (UpsertNode) Remote() bool  { return true }
func (MoveNode) Remote() bool    { return true }
func (MoveLocal) Remote() bool   { return false }
func (SetSolved) Remote() bool   { return true }
func (OpenProblem) Remote() bool { return false }

// Structural reports whether a successful cmd changes the graph's shape and
// therefore requires a full reload.
func Structural(cmd Command) bool {
	switch cmd.(type) {
	case CreateEdge, DeleteEdge, DeleteNode, UpsertNode:
		return true
	}

	return false
}

// Describe renders a command for user-facing messages.
func Describe(cmd Command) string {
	switch c := cmd.(type) {
	case CreateEdge:
		return fmt.Sprintf("add edge %s->%s", c.From, c.To)
	case DeleteEdge:
		return "delete edge " + c.Edge.String()
	case DeleteNode:
		return "delete node " + c.ID
	case UpsertNode:
		return "save node " + c.Node.ID
	case MoveNode:
		return "move node " + c.Node.ID
	case SetSolved:
		if c.Solved {
			return "solve node " + c.NodeID
		}
		return "unsolve node " + c.NodeID
	default:
		return cmd.Op()
	}
}

// snap rounds a position to whole units; the store keeps integer coordinates.
func snap(p geometry.Point) geometry.Point {
	return geometry.Point{X: math.Round(p.X), Y: math.Round(p.Y)}
}
