package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/graphway/graphway/internal/editor"
	"github.com/graphway/graphway/internal/geometry"
	"github.com/graphway/graphway/internal/interaction"
	"github.com/graphway/graphway/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

// mockSession records calls and answers every gesture with outcome.
type mockSession struct {
	mu       sync.Mutex
	frame    editor.Frame
	outcome  editor.Outcome
	pending  bool
	loaded   chan struct{}
	gestures []interaction.Gesture
	cameras  []geometry.Camera
	refresh  int
}

func newMockSession() *mockSession {
	loaded := make(chan struct{})
	close(loaded)

	return &mockSession{
		frame:  editor.Frame{Seq: 1, Mode: models.ModeEditor, Loaded: true, State: "idle"},
		loaded: loaded,
	}
}

func (m *mockSession) Subscribe() (<-chan editor.Frame, func()) {
	ch := make(chan editor.Frame, 1)
	ch <- m.Frame()
	return ch, func() {}
}

func (m *mockSession) reply() <-chan editor.Outcome {
	ch := make(chan editor.Outcome, 1)
	if !m.pending {
		ch <- m.outcome
	}
	return ch
}

func (m *mockSession) Submit(g interaction.Gesture) <-chan editor.Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gestures = append(m.gestures, g)
	return m.reply()
}

func (m *mockSession) Refresh() <-chan editor.Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresh++
	return m.reply()
}

func (m *mockSession) SetCamera(cam geometry.Camera) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cameras = append(m.cameras, cam)
}

func (m *mockSession) Frame() editor.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frame
}

func (m *mockSession) Loaded() <-chan struct{} { return m.loaded }

// doRequest performs a loopback request against r.
func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, http.NoBody)
	}
	req.Host = "127.0.0.1:4040"

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}
