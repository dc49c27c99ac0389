package ws

import (
	"encoding/json"
	"time"

	"github.com/graphway/graphway/internal/editor"
	"github.com/graphway/graphway/internal/geometry"
)

// Server message types.
const (
	TypeFrame    = "frame"
	TypeOutcome  = "outcome"
	TypeError    = "error"
	TypeShutdown = "shutdown"
)

// Client message types.
const (
	TypeGesture = "gesture"
	TypeCamera  = "camera"
	TypeRefresh = "refresh"
)

// Event is a server message.
type Event struct {
	Type string          `json:"type"`
	ID   uint64          `json:"id"`
	Data json.RawMessage `json:"data,omitempty"`
	Time time.Time       `json:"time"`
}

// ClientMsg is a message from the renderer. Ref is echoed in the reply.
type ClientMsg struct {
	Type    string                 `json:"type"`
	Ref     uint64                 `json:"ref,omitempty"`
	Gesture *editor.GestureRequest `json:"gesture,omitempty"`
	Camera  *geometry.Camera       `json:"camera,omitempty"`
}

// OutcomeMsg reports the end of a gesture or refresh.
type OutcomeMsg struct {
	Ref       uint64 `json:"ref"`
	Command   string `json:"command,omitempty"`
	Reconcile string `json:"reconcile"`
	Error     string `json:"error,omitempty"`
	ReloadErr string `json:"reload_error,omitempty"`
}

func newOutcome(ref uint64, o editor.Outcome) OutcomeMsg {
	msg := OutcomeMsg{Ref: ref, Reconcile: o.Reconcile.String()}
	if o.Command != nil {
		msg.Command = o.Command.Op()
	}
	if o.Err != nil {
		msg.Error = o.Err.Error()
	}
	if o.ReloadErr != nil {
		msg.ReloadErr = o.ReloadErr.Error()
	}

	return msg
}

func encode(typ string, id uint64, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Event{Type: typ, ID: id, Data: data, Time: time.Now()})
}
