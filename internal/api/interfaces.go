package api

import (
	"github.com/graphway/graphway/internal/editor"
	"github.com/graphway/graphway/internal/ws"
)

// Session is the editor surface the HTTP handlers use.
type Session interface {
	ws.Session
	Frame() editor.Frame
	Loaded() <-chan struct{}
}
