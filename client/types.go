package client

import (
	"encoding/json"
	"fmt"
)

// Position is a node anchor. On the wire it is a two-element array [x, y].
type Position struct {
	X float64
	Y float64
}

// MarshalJSON encodes the position as [x, y].
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes a [x, y] array.
func (p *Position) UnmarshalJSON(data []byte) error {
	var xy []float64
	if err := json.Unmarshal(data, &xy); err != nil {
		return fmt.Errorf("position: %w", err)
	}
	if len(xy) != 2 {
		return fmt.Errorf("position: want 2 coordinates, got %d", len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// Node is a problem vertex as the store serves it. State is only present in
// team views.
type Node struct {
	ID        string   `json:"id"`
	PID       string   `json:"pid"`
	Rating    int      `json:"rating"`
	Position  Position `json:"position"`
	Neighbors []string `json:"neighbors"`
	State     string   `json:"state,omitempty"`
}

// GraphResponse is returned by GET /admin/graph.
type GraphResponse struct {
	Nodes []Node `json:"nodes"`
}

// EdgeRequest names an edge for create and delete.
type EdgeRequest struct {
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
}

// Contest is the contest configuration block.
type Contest struct {
	Name      string `json:"name"`
	StartTime int64  `json:"start_time"`
	Duration  int64  `json:"duration"`
	State     string `json:"state"`
}

// AdminStatus is returned by GET /admin/status.
type AdminStatus struct {
	Status  string  `json:"status"`
	Role    string  `json:"role"`
	Contest Contest `json:"contest"`
}

// TeamView is returned by GET /team/me/{token}.
type TeamView struct {
	TeamName    string   `json:"team_name"`
	Handles     []string `json:"cf_handles"`
	SolvedCount int      `json:"solved_count"`
	Score       int      `json:"score"`
	Nodes       []Node   `json:"nodes"`
	Contest     Contest  `json:"contest"`
}

// TeamState is returned by GET /admin/teams/{id}/state.
type TeamState struct {
	Name      string   `json:"name"`
	Solved    []string `json:"solved"`
	Available []string `json:"available"`
}

// StatusResponse is the acknowledgement body of mutations.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// RandomProblemRequest is the body of POST /admin/cf/random.
type RandomProblemRequest struct {
	MinRating int `json:"min_rating"`
	MaxRating int `json:"max_rating"`
}

// Problem is a catalogue problem returned by POST /admin/cf/random.
type Problem struct {
	ContestID int    `json:"contestId"`
	Index     string `json:"index"`
	Name      string `json:"name"`
	Rating    int    `json:"rating"`
	PID       string `json:"pid"`
}
