// Package models defines the data types shared by the graph editor and viewer.
package models

import (
	"fmt"
	"strings"

	"github.com/graphway/graphway/internal/geometry"
)

// Field limits enforced by Validate.
const (
	maxIDLen  = 255
	maxPIDLen = 64
)

// Node is one problem vertex of the contest graph. Neighbors is the
// authoritative list of outgoing edges.
type Node struct {
	ID        string         `json:"id"`
	PID       string         `json:"pid"`
	Rating    int            `json:"rating"`
	Position  geometry.Point `json:"position"`
	Neighbors []string       `json:"neighbors"`
}

// Validate checks the fields a node must carry before it is sent to the store.
func (n *Node) Validate() error {
	if n.ID == "" {
		return ErrMissingID
	}

	if len(n.ID) > maxIDLen {
		return ErrFieldTooLong("id", maxIDLen)
	}

	if len(n.PID) > maxPIDLen {
		return ErrFieldTooLong("pid", maxPIDLen)
	}

	if n.Rating < 0 {
		return ErrNegativeRating
	}

	return nil
}

// Clone returns a deep copy of n.
func (n Node) Clone() Node {
	n.Neighbors = append([]string(nil), n.Neighbors...)
	return n
}

// Edge is a directed dependency derived from a node's neighbor list.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// ID returns the render identity of the edge.
func (e Edge) ID() string {
	return "e" + e.Source + "-" + e.Target
}

// Validate checks that both endpoints are set.
func (e Edge) Validate() error {
	if e.Source == "" {
		return ErrMissingSource
	}

	if e.Target == "" {
		return ErrMissingTarget
	}

	return nil
}

// String implements fmt.Stringer.
func (e Edge) String() string {
	return e.Source + "->" + e.Target
}

// problemBase is the judge the pid format refers to.
const problemBase = "https://codeforces.com/contest/"

// ProblemURL returns the problem page for a pid of the form "<contest>/<index>".
// It returns false when pid does not have that shape.
func ProblemURL(pid string) (string, bool) {
	contest, index, ok := strings.Cut(pid, "/")
	if !ok || contest == "" || index == "" {
		return "", false
	}

	return fmt.Sprintf("%s%s/problem/%s", problemBase, contest, index), true
}

// Problem is a catalogue entry that can be assigned to a node.
type Problem struct {
	PID    string `json:"pid"`
	Name   string `json:"name"`
	Rating int    `json:"rating"`
}
