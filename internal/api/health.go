// Package api provides the HTTP surface of graphway serve.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ClientCounter reports connected renderers.
type ClientCounter interface {
	ClientCount() int
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	session   Session
	hub       ClientCounter
	log       *logrus.Logger
	version   string
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler with the given dependencies.
func NewHealthHandler(session Session, hub ClientCounter, log *logrus.Logger, version string) *HealthHandler {
	return &HealthHandler{
		session:   session,
		hub:       hub,
		log:       log,
		version:   version,
		startTime: time.Now(),
	}
}

type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Mode          string  `json:"mode"`
	Loaded        bool    `json:"loaded"`
	Clients       int     `json:"clients"`
	LastError     string  `json:"last_error,omitempty"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Liveness handles GET /api/v1/health.
func (h *HealthHandler) Liveness(c *gin.Context) {
	f := h.session.Frame()
	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		Mode:          string(f.Mode),
		Loaded:        f.Loaded,
		LastError:     f.Error,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}
	if h.hub != nil {
		resp.Clients = h.hub.ClientCount()
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness handles GET /api/v1/ready. It fails until the first reload has
// been applied.
func (h *HealthHandler) Readiness(c *gin.Context) {
	select {
	case <-h.session.Loaded():
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
	}
}
