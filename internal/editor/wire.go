package editor

import (
	"errors"
	"fmt"
	"math"

	"github.com/graphway/graphway/internal/geometry"
	"github.com/graphway/graphway/internal/interaction"
	"github.com/graphway/graphway/internal/models"
)

// ErrUnknownGesture is returned when a gesture kind is not recognised.
var ErrUnknownGesture = errors.New("unknown gesture")

// GestureRequest is a gesture as sent by a renderer.
type GestureRequest struct {
	Kind     string          `json:"kind"`
	Node     string          `json:"node,omitempty"`
	Edge     *models.Edge    `json:"edge,omitempty"`
	Position *geometry.Point `json:"position,omitempty"`
	PID      string          `json:"pid,omitempty"`
	Rating   int             `json:"rating,omitempty"`
}

// Gesture converts r. An add_node without a position is placed at the
// viewport center.
func (r GestureRequest) Gesture() (interaction.Gesture, error) {
	switch r.Kind {
	case "click_node":
		if r.Node == "" {
			return nil, fmt.Errorf("%s: %w", r.Kind, models.ErrMissingID)
		}
		return interaction.ClickNode{ID: r.Node}, nil
	case "click_edge":
		if r.Edge == nil {
			return nil, fmt.Errorf("%s: edge is required", r.Kind)
		}
		if err := r.Edge.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", r.Kind, err)
		}
		return interaction.ClickEdge{Edge: *r.Edge}, nil
	case "click_pane":
		return interaction.ClickPane{}, nil
	case "start_connect":
		return interaction.StartConnect{}, nil
	case "delete":
		return interaction.Delete{}, nil
	case "add_node":
		if r.Position == nil {
			return AddNodeAtCenter{}, nil
		}
		pos, err := finite(r.Kind, *r.Position)
		if err != nil {
			return nil, err
		}
		return interaction.AddNode{Position: pos}, nil
	case "drag_move", "drag_end":
		if r.Node == "" {
			return nil, fmt.Errorf("%s: %w", r.Kind, models.ErrMissingID)
		}
		if r.Position == nil {
			return nil, fmt.Errorf("%s: position is required", r.Kind)
		}
		pos, err := finite(r.Kind, *r.Position)
		if err != nil {
			return nil, err
		}
		if r.Kind == "drag_move" {
			return interaction.DragMove{ID: r.Node, Position: pos}, nil
		}
		return interaction.DragEnd{ID: r.Node, Position: pos}, nil
	case "edit_node":
		return interaction.EditNode{PID: r.PID, Rating: r.Rating}, nil
	case "solve":
		return interaction.Solve{}, nil
	case "unsolve":
		return interaction.Unsolve{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGesture, r.Kind)
	}
}

func finite(kind string, p geometry.Point) (geometry.Point, error) {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
		return geometry.Point{}, fmt.Errorf("%s: position must be finite", kind)
	}

	return p, nil
}
