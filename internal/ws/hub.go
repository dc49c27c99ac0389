// Package ws streams editor frames to WebSocket renderers and feeds their
// gestures back into the editor.
package ws

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/graphway/graphway/internal/editor"
	"github.com/graphway/graphway/internal/geometry"
	"github.com/graphway/graphway/internal/interaction"
	"github.com/graphway/graphway/internal/metrics"
)

// Session is the editor surface the hub drives.
type Session interface {
	Subscribe() (<-chan editor.Frame, func())
	Submit(g interaction.Gesture) <-chan editor.Outcome
	Refresh() <-chan editor.Outcome
	SetCamera(cam geometry.Camera)
}

const (
	registerBuffer = 16
	maxClients     = 64
)

// Hub fans frames out to connected renderers. All client map mutations
// happen in the Run goroutine.
type Hub struct {
	session    Session
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	shutdown   chan struct{}
	done       chan struct{}
	count      atomic.Int64
	log        *logrus.Logger
	last       []byte
}

// NewHub creates a hub bound to one editor session.
func NewHub(session Session, log *logrus.Logger) *Hub {
	return &Hub{
		session:    session,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, registerBuffer),
		unregister: make(chan *Client, registerBuffer),
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		log:        log,
	}
}

// drainTimeout is how long the hub waits for clients to flush after shutdown.
const drainTimeout = 3 * time.Second

// Run subscribes to the session and serves clients until ctx is cancelled
// or Shutdown is called.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	frames, unsubscribe := h.session.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			h.drainClients()

			return
		case <-h.shutdown:
			h.drainClients()

			return

		case f := <-frames:
			msg, err := encode(TypeFrame, f.Seq, f)
			if err != nil {
				h.log.WithError(err).Error("failed to encode frame")
				continue
			}
			h.last = msg
			for client := range h.clients {
				h.deliver(client, msg)
			}

		case client := <-h.register:
			if len(h.clients) >= maxClients {
				h.log.Warn("connection limit reached, dropping client")
				client.closeSend()
				continue
			}
			h.clients[client] = true
			if h.last != nil {
				h.deliver(client, h.last)
			}
			h.setCount()
			h.log.WithField("total", len(h.clients)).Info("client registered")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
			}
			h.setCount()
			h.log.WithField("total", len(h.clients)).Info("client unregistered")
		}
	}
}

// deliver queues msg for client, dropping clients that cannot keep up.
func (h *Hub) deliver(client *Client, msg []byte) {
	if !client.enqueue(msg) {
		h.log.Warn("client send buffer full, dropping client")
		client.closeSend()
		delete(h.clients, client)
		h.setCount()
	}
}

func (h *Hub) setCount() {
	h.count.Store(int64(len(h.clients)))
	metrics.WSConnections.Set(float64(len(h.clients)))
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	default:
		h.log.Warn("register channel full, dropping client")
		c.closeSend()
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Shutdown sends a shutdown message to every client, waits for their write
// pumps to flush, then closes all connections.
func (h *Hub) Shutdown() {
	close(h.shutdown)
	<-h.done
}

// Done is closed when Run returns.
func (h *Hub) Done() <-chan struct{} { return h.done }

func (h *Hub) drainClients() {
	if len(h.clients) == 0 {
		return
	}

	h.log.WithField("clients", len(h.clients)).Info("draining WebSocket clients")

	shutdownMsg, _ := encode(TypeShutdown, 0, map[string]string{"message": "server shutting down"})
	for client := range h.clients {
		client.enqueue(shutdownMsg)
	}

	deadline := time.After(drainTimeout)
	ticker := time.NewTicker(50 * time.Millisecond) //nolint:mnd // poll interval
	defer ticker.Stop()

	for !h.drained() {
		select {
		case <-deadline:
			h.log.Warn("WebSocket drain timeout, closing remaining clients")
			h.closeAll()

			return
		case <-ticker.C:
		}
	}

	h.closeAll()
}

func (h *Hub) drained() bool {
	for client := range h.clients {
		if len(client.send) > 0 {
			return false
		}
	}

	return true
}

func (h *Hub) closeAll() {
	for client := range h.clients {
		client.closeSend()
		delete(h.clients, client)
	}

	h.setCount()
}

// ServeConn runs an accepted connection until it closes or ctx ends.
func (h *Hub) ServeConn(ctx context.Context, conn *websocket.Conn) {
	client := NewClient(h, conn)
	h.Register(client)

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go client.WritePump(connCtx)
	client.ReadPump(connCtx)
}
