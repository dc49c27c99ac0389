package interaction

import (
	"errors"
	"testing"

	"github.com/graphway/graphway/internal/geometry"
	"github.com/graphway/graphway/internal/models"
)

type fakeView struct {
	nodes  map[string]models.Node
	status map[string]models.Status
}

func newFakeView(nodes ...models.Node) *fakeView {
	v := &fakeView{nodes: map[string]models.Node{}}
	for _, n := range nodes {
		v.nodes[n.ID] = n
	}
	return v
}

func (v *fakeView) Node(id string) (models.Node, bool) {
	n, ok := v.nodes[id]
	return n, ok
}

func (v *fakeView) HasEdge(e models.Edge) bool {
	n, ok := v.nodes[e.Source]
	if !ok {
		return false
	}
	for _, t := range n.Neighbors {
		if t == e.Target {
			return true
		}
	}
	return false
}

func (v *fakeView) Status(id string) models.Status {
	if v.status == nil {
		return ""
	}
	if st, ok := v.status[id]; ok {
		return st
	}
	return models.StatusLocked
}

func fixedID(id string) func() (string, error) {
	return func() (string, error) { return id, nil }
}

func editorMachine() *Machine {
	return New(Capabilities{Mode: models.ModeEditor, Phase: models.PhaseEditing}, fixedID("n1"))
}

func abView() *fakeView {
	return newFakeView(
		models.Node{ID: "A", PID: "1/A", Neighbors: []string{"B"}},
		models.Node{ID: "B", PID: "1/B"},
		models.Node{ID: "C"},
	)
}

func mustHandle(t *testing.T, m *Machine, g Gesture, v GraphView) Command {
	t.Helper()
	cmd, err := m.Handle(g, v)
	if err != nil {
		t.Fatalf("Handle(%s): %v", g.Kind(), err)
	}
	return cmd
}

func TestMachine_ConnectFlow(t *testing.T) {
	m := editorMachine()
	v := abView()

	mustHandle(t, m, ClickNode{ID: "A"}, v)
	if got := m.State().Name(); got != "NodeSelected" {
		t.Fatalf("state = %s, want NodeSelected", got)
	}

	mustHandle(t, m, StartConnect{}, v)
	if m.State().ConnectingFrom != "A" {
		t.Fatalf("connectingFrom = %q, want A", m.State().ConnectingFrom)
	}

	cmd := mustHandle(t, m, ClickNode{ID: "C"}, v)
	want := CreateEdge{From: "A", To: "C"}
	if cmd != want {
		t.Errorf("cmd = %#v, want %#v", cmd, want)
	}
	if !m.State().Idle() {
		t.Errorf("state after connect = %s, want Idle", m.State().Name())
	}
}

func TestMachine_ConnectToSelfCancels(t *testing.T) {
	m := editorMachine()
	v := abView()

	mustHandle(t, m, ClickNode{ID: "A"}, v)
	mustHandle(t, m, StartConnect{}, v)

	cmd := mustHandle(t, m, ClickNode{ID: "A"}, v)
	if cmd != nil {
		t.Errorf("cmd = %#v, want nil", cmd)
	}
	if !m.State().Idle() {
		t.Errorf("state = %s, want Idle", m.State().Name())
	}
}

func TestMachine_ClickPaneClearsEverything(t *testing.T) {
	m := editorMachine()
	v := abView()

	mustHandle(t, m, ClickNode{ID: "A"}, v)
	mustHandle(t, m, StartConnect{}, v)
	mustHandle(t, m, ClickPane{}, v)

	if !m.State().Idle() {
		t.Errorf("state = %s, want Idle", m.State().Name())
	}
}

func TestMachine_ClickEdgeClearsConnecting(t *testing.T) {
	m := editorMachine()
	v := abView()
	e := models.Edge{Source: "A", Target: "B"}

	mustHandle(t, m, ClickNode{ID: "C"}, v)
	mustHandle(t, m, StartConnect{}, v)
	mustHandle(t, m, ClickEdge{Edge: e}, v)

	st := m.State()
	if st.ConnectingFrom != "" || st.Selection.Kind != SelectEdge || st.Selection.Edge != e {
		t.Errorf("state = %+v, want edge %s selected", st, e)
	}

	if _, err := m.Handle(ClickEdge{Edge: models.Edge{Source: "B", Target: "A"}}, v); !errors.Is(err, ErrUnknownEdge) {
		t.Errorf("err = %v, want ErrUnknownEdge", err)
	}
}

func TestMachine_Delete(t *testing.T) {
	tests := []struct {
		name  string
		setup []Gesture
		want  Command
		err   error
	}{
		{name: "node", setup: []Gesture{ClickNode{ID: "B"}}, want: DeleteNode{ID: "B"}},
		{
			name:  "edge",
			setup: []Gesture{ClickEdge{Edge: models.Edge{Source: "A", Target: "B"}}},
			want:  DeleteEdge{Edge: models.Edge{Source: "A", Target: "B"}},
		},
		{name: "nothing selected", err: ErrNoSelection},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := editorMachine()
			v := abView()
			for _, g := range tc.setup {
				mustHandle(t, m, g, v)
			}

			cmd, err := m.Handle(Delete{}, v)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("err = %v, want %v", err, tc.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cmd != tc.want {
				t.Errorf("cmd = %#v, want %#v", cmd, tc.want)
			}
			if !m.State().Idle() {
				t.Errorf("state = %s, want Idle", m.State().Name())
			}
		})
	}
}

func TestMachine_AddNode(t *testing.T) {
	m := editorMachine()
	v := abView()

	cmd := mustHandle(t, m, AddNode{Position: geometry.Point{X: 10.4, Y: 19.6}}, v)
	up, ok := cmd.(UpsertNode)
	if !ok {
		t.Fatalf("cmd = %T, want UpsertNode", cmd)
	}
	if up.Node.ID != "n1" || up.Node.PID != "" || up.Node.Rating != 0 {
		t.Errorf("node = %+v", up.Node)
	}
	if up.Node.Position != (geometry.Point{X: 10, Y: 20}) {
		t.Errorf("position = %+v, want (10,20)", up.Node.Position)
	}
	if up.Node.Neighbors == nil || len(up.Node.Neighbors) != 0 {
		t.Errorf("neighbors = %#v, want empty non-nil", up.Node.Neighbors)
	}

	mustHandle(t, m, ClickNode{ID: "A"}, v)
	mustHandle(t, m, StartConnect{}, v)
	if _, err := m.Handle(AddNode{}, v); !errors.Is(err, ErrConnecting) {
		t.Errorf("err = %v, want ErrConnecting", err)
	}
}

func TestMachine_AddNodeGeneratorError(t *testing.T) {
	boom := errors.New("entropy")
	m := New(Capabilities{Mode: models.ModeEditor, Phase: models.PhaseEditing}, func() (string, error) {
		return "", boom
	})

	if _, err := m.Handle(AddNode{}, abView()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestMachine_Drag(t *testing.T) {
	m := editorMachine()
	v := abView()

	cmd := mustHandle(t, m, DragMove{ID: "B", Position: geometry.Point{X: 5.5, Y: 6}}, v)
	if _, ok := cmd.(MoveLocal); !ok || cmd.Remote() {
		t.Fatalf("drag move cmd = %#v, want local MoveLocal", cmd)
	}

	cmd = mustHandle(t, m, DragEnd{ID: "B", Position: geometry.Point{X: 300.2, Y: -4.7}}, v)
	mv, ok := cmd.(MoveNode)
	if !ok {
		t.Fatalf("cmd = %T, want MoveNode", cmd)
	}
	if mv.Node.ID != "B" || mv.Node.PID != "1/B" || mv.Node.Position != (geometry.Point{X: 300, Y: -5}) {
		t.Errorf("moved node = %+v", mv.Node)
	}
	if m.State().Selection.Node != "B" {
		t.Errorf("drag end should select the node, state = %+v", m.State())
	}
	if Structural(cmd) {
		t.Error("move must not trigger a reload")
	}
}

func TestMachine_EditNode(t *testing.T) {
	m := editorMachine()
	v := abView()

	if _, err := m.Handle(EditNode{PID: "2/C"}, v); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("err = %v, want ErrNoSelection", err)
	}

	mustHandle(t, m, ClickNode{ID: "A"}, v)
	cmd := mustHandle(t, m, EditNode{PID: "2/C", Rating: 1800}, v)
	up := cmd.(UpsertNode)
	if up.Node.PID != "2/C" || up.Node.Rating != 1800 || len(up.Node.Neighbors) != 1 {
		t.Errorf("node = %+v", up.Node)
	}

	if _, err := m.Handle(EditNode{Rating: -1}, v); !errors.Is(err, models.ErrNegativeRating) {
		t.Errorf("err = %v, want ErrNegativeRating", err)
	}
}

// Read-only sessions never produce a structural command, whatever the gesture.
func TestMachine_ReadOnlyNeverMutates(t *testing.T) {
	gestures := []Gesture{
		ClickNode{ID: "A"},
		StartConnect{},
		ClickNode{ID: "B"},
		ClickEdge{Edge: models.Edge{Source: "A", Target: "B"}},
		Delete{},
		AddNode{},
		DragMove{ID: "A"},
		DragEnd{ID: "A"},
		EditNode{PID: "x"},
		Solve{},
		ClickPane{},
	}

	caps := []Capabilities{
		{Mode: models.ModeReadOnly, Phase: models.PhaseRunning},
		{Mode: models.ModeReadOnly, Phase: models.PhaseEditing},
		{Mode: models.ModeEditor, Phase: models.PhaseRunning},
		{Mode: models.ModeEditor, Phase: models.PhaseFinished},
	}

	for _, c := range caps {
		m := New(c, fixedID("x"))
		v := abView()
		for _, g := range gestures {
			cmd, err := m.Handle(g, v)
			if cmd != nil && cmd.Remote() {
				t.Errorf("%s/%s: %s produced remote command %#v", c.Mode, c.Phase, g.Kind(), cmd)
			}
			if err != nil && !errors.Is(err, ErrNotPermitted) {
				t.Errorf("%s/%s: %s unexpected error %v", c.Mode, c.Phase, g.Kind(), err)
			}
		}
	}
}

func TestMachine_ReadOnlyClicks(t *testing.T) {
	v := abView()
	v.status = map[string]models.Status{"A": models.StatusSolved, "B": models.StatusAvailable}

	m := New(Capabilities{Mode: models.ModeReadOnly, Phase: models.PhaseRunning}, nil)

	cmd := mustHandle(t, m, ClickNode{ID: "C"}, v)
	if cmd != nil || !m.State().Idle() {
		t.Errorf("locked click: cmd=%#v state=%s", cmd, m.State().Name())
	}

	cmd = mustHandle(t, m, ClickNode{ID: "B"}, v)
	want := OpenProblem{NodeID: "B", URL: "https://codeforces.com/contest/1/problem/B"}
	if cmd != want {
		t.Errorf("cmd = %#v, want %#v", cmd, want)
	}

	mustHandle(t, m, ClickEdge{Edge: models.Edge{Source: "A", Target: "B"}}, v)
	if m.State().Selection.Kind != SelectNode {
		t.Errorf("edge click should be ignored, state = %+v", m.State())
	}
}

func TestMachine_ReadOnlyWithoutStatusOnlySelects(t *testing.T) {
	m := New(Capabilities{Mode: models.ModeEditor, Phase: models.PhaseRunning}, nil)
	v := abView()

	cmd := mustHandle(t, m, ClickNode{ID: "A"}, v)
	if cmd != nil {
		t.Errorf("cmd = %#v, want nil", cmd)
	}
	if m.State().Selection.Node != "A" {
		t.Errorf("state = %+v", m.State())
	}
}

func TestMachine_TeamInspect(t *testing.T) {
	m := New(Capabilities{Mode: models.ModeTeamInspect, Phase: models.PhaseRunning}, nil)
	v := abView()

	if _, err := m.Handle(Solve{}, v); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("err = %v, want ErrNoSelection", err)
	}

	mustHandle(t, m, ClickNode{ID: "B"}, v)

	cmd := mustHandle(t, m, Solve{}, v)
	if cmd != (SetSolved{NodeID: "B", Solved: true}) {
		t.Errorf("cmd = %#v", cmd)
	}
	cmd = mustHandle(t, m, Unsolve{}, v)
	if cmd != (SetSolved{NodeID: "B", Solved: false}) {
		t.Errorf("cmd = %#v", cmd)
	}

	if _, err := m.Handle(Delete{}, v); !errors.Is(err, ErrNotPermitted) {
		t.Errorf("delete err = %v, want ErrNotPermitted", err)
	}
}

func TestMachine_EditorCannotSolve(t *testing.T) {
	m := editorMachine()
	v := abView()
	mustHandle(t, m, ClickNode{ID: "A"}, v)

	if _, err := m.Handle(Solve{}, v); !errors.Is(err, ErrNotPermitted) {
		t.Errorf("err = %v, want ErrNotPermitted", err)
	}
}

func TestMachine_UnknownNode(t *testing.T) {
	m := editorMachine()
	if _, err := m.Handle(ClickNode{ID: "ghost"}, abView()); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("err = %v, want ErrUnknownNode", err)
	}
	if !m.State().Idle() {
		t.Errorf("state = %s, want Idle", m.State().Name())
	}
}

func TestMachine_Reconcile(t *testing.T) {
	m := editorMachine()
	v := abView()

	mustHandle(t, m, ClickNode{ID: "B"}, v)
	mustHandle(t, m, StartConnect{}, v)

	if err := m.Reconcile(v); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if m.State().ConnectingFrom != "" || m.State().Selection.Node != "B" {
		t.Errorf("state = %+v, want B selected, not connecting", m.State())
	}

	delete(v.nodes, "B")
	if err := m.Reconcile(v); !errors.Is(err, models.ErrStaleView) {
		t.Errorf("err = %v, want ErrStaleView", err)
	}
	if !m.State().Idle() {
		t.Errorf("state = %s, want Idle", m.State().Name())
	}
}

func TestMachine_SetPhaseCancelsConnect(t *testing.T) {
	m := editorMachine()
	v := abView()

	mustHandle(t, m, ClickNode{ID: "A"}, v)
	mustHandle(t, m, StartConnect{}, v)

	m.SetPhase(models.PhaseRunning)
	if m.State().ConnectingFrom != "" {
		t.Error("phase change should cancel connect")
	}
	if m.Capabilities().Structural() {
		t.Error("editor should be read-only while running")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{CreateEdge{From: "A", To: "B"}, "add edge A->B"},
		{DeleteEdge{Edge: models.Edge{Source: "A", Target: "B"}}, "delete edge A->B"},
		{DeleteNode{ID: "A"}, "delete node A"},
		{SetSolved{NodeID: "A"}, "unsolve node A"},
		{MoveLocal{ID: "A"}, "move_local"},
	}

	for _, tc := range tests {
		if got := Describe(tc.cmd); got != tc.want {
			t.Errorf("Describe(%#v) = %q, want %q", tc.cmd, got, tc.want)
		}
	}
}
