package graphsync

import (
	"context"
	"errors"
	"testing"

	"github.com/graphway/graphway/internal/models"
)

func TestMemory_DeleteNodeDropsIncomingEdges(t *testing.T) {
	m := NewMemory(
		models.Node{ID: "A", Neighbors: []string{"B", "C"}},
		models.Node{ID: "B"},
		models.Node{ID: "C", Neighbors: []string{"B"}},
	)
	m.AddTeam(MemoryTeam{ID: "t", Solved: []string{"B"}})
	ctx := context.Background()

	if err := m.DeleteNode(ctx, "B"); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}

	nodes, _ := m.Graph(ctx)
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}
	for _, n := range nodes {
		for _, nb := range n.Neighbors {
			if nb == "B" {
				t.Errorf("%s still points at deleted node", n.ID)
			}
		}
	}

	st, _ := m.TeamState(ctx, "t")
	if _, ok := st.Status["B"]; ok {
		t.Error("deleted node still solved")
	}

	if err := m.DeleteNode(ctx, "B"); !errors.Is(err, models.ErrRejectedMutation) {
		t.Errorf("second delete err = %v, want rejected", err)
	}
}

func TestMemory_EdgeChecks(t *testing.T) {
	m := NewMemory(models.Node{ID: "A"}, models.Node{ID: "B"})
	ctx := context.Background()

	tests := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{name: "ok", from: "A", to: "B"},
		{name: "duplicate ignored", from: "A", to: "B"},
		{name: "self loop", from: "A", to: "A", wantErr: true},
		{name: "missing target", from: "A", to: "Z", wantErr: true},
	}

	for _, tc := range tests {
		err := m.CreateEdge(ctx, tc.from, tc.to)
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tc.name, err, tc.wantErr)
		}
	}

	nodes, _ := m.Graph(ctx)
	if len(nodes[0].Neighbors) != 1 {
		t.Errorf("neighbors = %v, want [B]", nodes[0].Neighbors)
	}
}

func TestMemory_TeamView(t *testing.T) {
	m := NewMemory(models.Node{ID: "A"}, models.Node{ID: "B"}, models.Node{ID: "C"})
	m.AddTeam(MemoryTeam{ID: "t", Name: "red", Token: "tok", Solved: []string{"A"}, Available: []string{"B"}})

	v, err := m.TeamView(context.Background(), "tok")
	if err != nil {
		t.Fatalf("TeamView: %v", err)
	}
	if v.Status["C"] != models.StatusLocked || v.Status["A"] != models.StatusSolved || v.SolvedCount != 1 {
		t.Errorf("view = %+v", v)
	}

	if _, err := m.TeamView(context.Background(), "bad"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestMemory_UpsertValidates(t *testing.T) {
	m := NewMemory()
	if err := m.UpsertNode(context.Background(), models.Node{Rating: 5}); !errors.Is(err, models.ErrRejectedMutation) {
		t.Errorf("err = %v, want rejected", err)
	}
}

func TestMemory_RandomProblem(t *testing.T) {
	m := NewMemory()
	m.AddProblems(
		models.Problem{PID: "1/A", Rating: 800},
		models.Problem{PID: "2/B", Rating: 1300},
		models.Problem{PID: "3/C", Rating: 2100},
	)

	for range 20 {
		p, err := m.RandomProblem(context.Background(), 1000, 2000)
		if err != nil {
			t.Fatal(err)
		}
		if p.PID != "2/B" {
			t.Fatalf("picked %+v outside 1000-2000", p)
		}
	}

	if _, err := m.RandomProblem(context.Background(), 2500, 3000); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
