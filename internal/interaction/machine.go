package interaction

import (
	"fmt"

	"github.com/graphway/graphway/internal/idgen"
	"github.com/graphway/graphway/internal/models"
)

// GraphView is the read access the machine needs to validate gestures.
type GraphView interface {
	Node(id string) (models.Node, bool)
	HasEdge(e models.Edge) bool
	Status(id string) models.Status
}

// Machine owns the selection and connect-mode state of one session.
type Machine struct {
	caps  Capabilities
	state State
	newID idgen.Generator
}

// New returns a Machine in the Idle state. A nil generator uses idgen.Short.
func New(caps Capabilities, newID idgen.Generator) *Machine {
	if newID == nil {
		newID = idgen.Short
	}

	return &Machine{caps: caps, newID: newID}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Capabilities returns the current capabilities.
func (m *Machine) Capabilities() Capabilities { return m.caps }

// SetPhase records a new contest phase. Leaving the editing phase cancels a
// pending connection.
func (m *Machine) SetPhase(p models.Phase) {
	m.caps.Phase = p
	if !m.caps.Structural() {
		m.state.ConnectingFrom = ""
	}
}

// Reset returns to Idle.
func (m *Machine) Reset() { m.state = idle() }

// Reconcile is called after every refetch. It always ends connect-mode and
// drops a selection that no longer resolves, returning models.ErrStaleView.
func (m *Machine) Reconcile(view GraphView) error {
	m.state.ConnectingFrom = ""

	sel := m.state.Selection
	switch sel.Kind {
	case SelectNode:
		if _, ok := view.Node(sel.Node); !ok {
			m.state = idle()
			return fmt.Errorf("%w: node %s no longer exists", models.ErrStaleView, sel.Node)
		}
	case SelectEdge:
		if !view.HasEdge(sel.Edge) {
			m.state = idle()
			return fmt.Errorf("%w: edge %s no longer exists", models.ErrStaleView, sel.Edge)
		}
	}

	return nil
}

// Handle applies a gesture. It returns the command to run, or nil when the
// gesture only changes local state. On error the state is left unchanged
// except where noted in the transition.
func (m *Machine) Handle(g Gesture, view GraphView) (Command, error) {
	switch g := g.(type) {
	case ClickPane:
		m.state = idle()
		return nil, nil
	case ClickNode:
		return m.clickNode(g.ID, view)
	case ClickEdge:
		return m.clickEdge(g.Edge, view)
	case StartConnect:
		return m.startConnect()
	case Delete:
		return m.delete()
	case AddNode:
		return m.addNode(g)
	case DragMove:
		return m.dragMove(g, view)
	case DragEnd:
		return m.dragEnd(g, view)
	case EditNode:
		return m.editNode(g, view)
	case Solve:
		return m.setSolved(true)
	case Unsolve:
		return m.setSolved(false)
	default:
		return nil, fmt.Errorf("unsupported gesture %T", g)
	}
}

func (m *Machine) deny(what string) error {
	return fmt.Errorf("%w: %s (mode %s, phase %s)", ErrNotPermitted, what, m.caps.Mode, m.caps.Phase)
}

func (m *Machine) clickNode(id string, view GraphView) (Command, error) {
	node, ok := view.Node(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}

	switch m.caps.Effective() {
	case models.ModeEditor:
		from := m.state.ConnectingFrom
		if from == "" {
			m.state = nodeSelected(id)
			return nil, nil
		}

		m.state = idle()
		if from == id {
			return nil, nil
		}

		return CreateEdge{From: from, To: id}, nil

	case models.ModeReadOnly:
		st := view.Status(id)
		if st == models.StatusLocked {
			return nil, nil
		}

		m.state = nodeSelected(id)
		if st == "" {
			return nil, nil
		}

		if url, ok := models.ProblemURL(node.PID); ok {
			return OpenProblem{NodeID: id, URL: url}, nil
		}

		return nil, nil

	default:
		m.state = nodeSelected(id)
		return nil, nil
	}
}

func (m *Machine) clickEdge(e models.Edge, view GraphView) (Command, error) {
	if !m.caps.SelectEdges() {
		return nil, nil
	}

	if !view.HasEdge(e) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEdge, e)
	}

	m.state = edgeSelected(e)

	return nil, nil
}

func (m *Machine) startConnect() (Command, error) {
	if !m.caps.Structural() {
		return nil, m.deny("add edge")
	}

	if m.state.Selection.Kind != SelectNode {
		return nil, fmt.Errorf("add edge: %w", ErrNoSelection)
	}

	m.state.ConnectingFrom = m.state.Selection.Node

	return nil, nil
}

func (m *Machine) delete() (Command, error) {
	if !m.caps.Structural() {
		return nil, m.deny("delete")
	}

	sel := m.state.Selection
	switch sel.Kind {
	case SelectNode:
		m.state = idle()
		return DeleteNode{ID: sel.Node}, nil
	case SelectEdge:
		m.state = idle()
		return DeleteEdge{Edge: sel.Edge}, nil
	default:
		return nil, fmt.Errorf("delete: %w", ErrNoSelection)
	}
}

func (m *Machine) addNode(g AddNode) (Command, error) {
	if !m.caps.Structural() {
		return nil, m.deny("add node")
	}

	if m.state.ConnectingFrom != "" {
		return nil, ErrConnecting
	}

	id, err := m.newID()
	if err != nil {
		return nil, fmt.Errorf("add node: %w", err)
	}

	return UpsertNode{Node: models.Node{
		ID:        id,
		Position:  snap(g.Position),
		Neighbors: []string{},
	}}, nil
}

func (m *Machine) dragMove(g DragMove, view GraphView) (Command, error) {
	if !m.caps.Drag() {
		return nil, m.deny("move node")
	}

	if _, ok := view.Node(g.ID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, g.ID)
	}

	return MoveLocal{ID: g.ID, Position: g.Position}, nil
}

func (m *Machine) dragEnd(g DragEnd, view GraphView) (Command, error) {
	if !m.caps.Drag() {
		return nil, m.deny("move node")
	}

	node, ok := view.Node(g.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, g.ID)
	}

	if m.state.ConnectingFrom == "" {
		m.state = nodeSelected(g.ID)
	}

	node.Position = snap(g.Position)

	return MoveNode{Node: node}, nil
}

func (m *Machine) editNode(g EditNode, view GraphView) (Command, error) {
	if !m.caps.Structural() {
		return nil, m.deny("edit node")
	}

	if m.state.Selection.Kind != SelectNode {
		return nil, fmt.Errorf("edit node: %w", ErrNoSelection)
	}

	node, ok := view.Node(m.state.Selection.Node)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, m.state.Selection.Node)
	}

	node.PID = g.PID
	node.Rating = g.Rating
	node.Position = snap(node.Position)
	if err := node.Validate(); err != nil {
		return nil, fmt.Errorf("edit node: %w", err)
	}

	return UpsertNode{Node: node}, nil
}

func (m *Machine) setSolved(solved bool) (Command, error) {
	if !m.caps.ToggleSolved() {
		return nil, m.deny("solve/unsolve")
	}

	if m.state.Selection.Kind != SelectNode {
		return nil, fmt.Errorf("solve/unsolve: %w", ErrNoSelection)
	}

	return SetSolved{NodeID: m.state.Selection.Node, Solved: solved}, nil
}
