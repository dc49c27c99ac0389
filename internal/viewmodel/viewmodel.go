// Package viewmodel mirrors the store's node list and projects it into
// render-ready node and edge records.
package viewmodel

import (
	"context"
	"fmt"

	"github.com/graphway/graphway/internal/geometry"
	"github.com/graphway/graphway/internal/models"
)

// Loader fetches the full node list from the store.
type Loader interface {
	Graph(ctx context.Context) ([]models.Node, error)
}

// ViewModel holds the canonical node collection. It is replaced wholesale on
// every load and is not safe for concurrent use.
type ViewModel struct {
	nodes []models.Node
	index map[string]int
}

// New returns an empty ViewModel.
func New() *ViewModel {
	return &ViewModel{index: map[string]int{}}
}

// Load fetches the graph and replaces the local projection. On error the
// current contents are kept.
func (vm *ViewModel) Load(ctx context.Context, l Loader) error {
	nodes, err := l.Graph(ctx)
	if err != nil {
		return fmt.Errorf("load graph: %w", err)
	}

	vm.Replace(nodes)

	return nil
}

// Replace swaps in a new node list. The slice is copied.
func (vm *ViewModel) Replace(nodes []models.Node) {
	vm.nodes = make([]models.Node, len(nodes))
	vm.index = make(map[string]int, len(nodes))

	for i, n := range nodes {
		vm.nodes[i] = n.Clone()
		vm.index[n.ID] = i
	}
}

// Len returns the number of nodes.
func (vm *ViewModel) Len() int { return len(vm.nodes) }

// Nodes returns a copy of the node list in store order.
func (vm *ViewModel) Nodes() []models.Node {
	out := make([]models.Node, len(vm.nodes))
	for i, n := range vm.nodes {
		out[i] = n.Clone()
	}

	return out
}

// Node looks up a node by id.
func (vm *ViewModel) Node(id string) (models.Node, bool) {
	i, ok := vm.index[id]
	if !ok {
		return models.Node{}, false
	}

	return vm.nodes[i].Clone(), true
}

// HasEdge reports whether e is present in the derived edge set.
func (vm *ViewModel) HasEdge(e models.Edge) bool {
	i, ok := vm.index[e.Source]
	if !ok {
		return false
	}

	for _, t := range vm.nodes[i].Neighbors {
		if t == e.Target {
			return true
		}
	}

	return false
}

// Edges returns the edges derived from the current nodes.
func (vm *ViewModel) Edges() []models.Edge {
	return DeriveEdges(vm.nodes)
}

// MoveLocal sets a node's position without contacting the store. It reports
// whether the node exists.
func (vm *ViewModel) MoveLocal(id string, pos geometry.Point) bool {
	i, ok := vm.index[id]
	if !ok {
		return false
	}

	vm.nodes[i].Position = pos

	return true
}

// DeriveEdges returns one edge per neighbor entry, in node order then neighbor
// order. Duplicates and self loops are kept.
func DeriveEdges(nodes []models.Node) []models.Edge {
	var edges []models.Edge
	for _, n := range nodes {
		for _, t := range n.Neighbors {
			edges = append(edges, models.Edge{Source: n.ID, Target: t})
		}
	}

	return edges
}
