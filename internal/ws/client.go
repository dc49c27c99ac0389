package ws

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/graphway/graphway/internal/editor"
)

const (
	writeTimeout     = 10 * time.Second
	wsReadLimit      = 4096
	clientSendBuffer = 64
	maxConnLifetime  = 12 * time.Hour
	pingInterval     = 30 * time.Second
	pingTimeout      = 10 * time.Second
	maxMissedPongs   = int32(2)
)

// Client wraps a single WebSocket connection managed by the Hub.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	log         *logrus.Logger
	mu          sync.Mutex
	closed      bool
	replies     sync.WaitGroup
	connectedAt time.Time
}

// NewClient creates a new Client for the given WebSocket connection.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, clientSendBuffer),
		log:         hub.log,
		connectedAt: time.Now(),
	}
}

// enqueue queues msg without blocking. It reports false when the client is
// closed or its buffer is full.
func (c *Client) enqueue(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// closeSend closes the send channel exactly once.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump reads renderer messages until the connection closes.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.CloseNow() //nolint:errcheck // best-effort close on teardown
		c.replies.Wait()
	}()

	c.conn.SetReadLimit(wsReadLimit)

	for {
		_, msgBytes, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				c.log.WithField("status", websocket.CloseStatus(err)).Debug("client disconnected")
			}

			return
		}

		c.handleMessage(ctx, msgBytes)
	}
}

// handleMessage dispatches one renderer message.
func (c *Client) handleMessage(ctx context.Context, msgBytes []byte) {
	var msg ClientMsg
	if err := json.Unmarshal(msgBytes, &msg); err != nil {
		c.replyError(msg.Ref, "malformed message")
		return
	}

	switch msg.Type {
	case TypeGesture:
		if msg.Gesture == nil {
			c.replyError(msg.Ref, "gesture is required")
			return
		}
		g, err := msg.Gesture.Gesture()
		if err != nil {
			c.replyError(msg.Ref, err.Error())
			return
		}
		c.awaitOutcome(ctx, msg.Ref, c.hub.session.Submit(g))
	case TypeRefresh:
		c.awaitOutcome(ctx, msg.Ref, c.hub.session.Refresh())
	case TypeCamera:
		if msg.Camera == nil {
			c.replyError(msg.Ref, "camera is required")
			return
		}
		c.hub.session.SetCamera(*msg.Camera)
	default:
		c.replyError(msg.Ref, "unknown message type "+msg.Type)
	}
}

// awaitOutcome replies once the editor has finished with the request. The
// read loop keeps going meanwhile.
func (c *Client) awaitOutcome(ctx context.Context, ref uint64, ch <-chan editor.Outcome) {
	c.replies.Add(1)
	go func() {
		defer c.replies.Done()

		select {
		case o := <-ch:
			msg, err := encode(TypeOutcome, o.Frame.Seq, newOutcome(ref, o))
			if err != nil {
				c.log.WithError(err).Error("failed to encode outcome")
				return
			}
			if !c.enqueue(msg) {
				c.log.Debug("dropping outcome for closed client")
			}
		case <-ctx.Done():
		}
	}()
}

func (c *Client) replyError(ref uint64, message string) {
	msg, err := encode(TypeError, 0, OutcomeMsg{Ref: ref, Error: message})
	if err != nil {
		return
	}
	c.enqueue(msg)
}

// sendPing sends a WebSocket ping and tracks missed pongs.
// Returns true if the connection should be closed.
func (c *Client) sendPing(ctx context.Context, missedPongs *atomic.Int32) bool {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := c.conn.Ping(pingCtx)
	cancel()

	if err != nil {
		if missedPongs.Add(1) >= maxMissedPongs {
			c.log.Debug("closing: 2 consecutive missed pongs")

			return true
		}

		return false
	}

	missedPongs.Store(0)

	return false
}

// WritePump writes queued messages to the connection until the send
// channel closes.
func (c *Client) WritePump(ctx context.Context) {
	defer c.conn.CloseNow() //nolint:errcheck // best-effort close on teardown

	lifetimeTimer := time.NewTimer(time.Until(c.connectedAt.Add(maxConnLifetime)))
	defer lifetimeTimer.Stop()

	pingTicker := time.NewTicker(pingInterval)
	defer pingTicker.Stop()

	var missedPongs atomic.Int32

	for {
		select {
		case <-pingTicker.C:
			if c.sendPing(ctx, &missedPongs) {
				return
			}
		case msg, ok := <-c.send:
			if !ok {
				c.conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck // best-effort
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)

			err := c.conn.Write(writeCtx, websocket.MessageText, msg)

			cancel()

			if err != nil {
				c.log.WithError(err).Debug("write failed")

				return
			}
		case <-lifetimeTimer.C:
			c.log.Info("closing WebSocket: max connection lifetime exceeded")
			c.conn.Close(websocket.StatusNormalClosure, "max connection lifetime exceeded") //nolint:errcheck // best-effort

			return
		case <-ctx.Done():
			return
		}
	}
}
