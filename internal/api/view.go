package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/graphway/graphway/internal/editor"
	"github.com/graphway/graphway/internal/geometry"
	"github.com/graphway/graphway/internal/middleware"
)

// gestureTimeout bounds how long a request waits for its outcome. The
// gesture itself is not cancelled when the wait ends.
const gestureTimeout = 30 * time.Second

// ViewHandler serves the render frame and accepts gestures.
type ViewHandler struct {
	session Session
	log     *logrus.Logger
}

// NewViewHandler creates a ViewHandler.
func NewViewHandler(session Session, log *logrus.Logger) *ViewHandler {
	return &ViewHandler{session: session, log: log}
}

type outcomeResponse struct {
	Command   string       `json:"command,omitempty"`
	Reconcile string       `json:"reconcile"`
	ReloadErr string       `json:"reload_error,omitempty"`
	Frame     editor.Frame `json:"frame"`
}

// Frame handles GET /api/v1/view.
func (h *ViewHandler) Frame(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Frame())
}

// Gesture handles POST /api/v1/gestures.
func (h *ViewHandler) Gesture(c *gin.Context) {
	var req editor.GestureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	g, err := req.Gesture()
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	h.await(c, req.Kind, h.session.Submit(g))
}

// Refresh handles POST /api/v1/refresh.
func (h *ViewHandler) Refresh(c *gin.Context) {
	h.await(c, "refresh", h.session.Refresh())
}

// Camera handles PUT /api/v1/camera.
func (h *ViewHandler) Camera(c *gin.Context) {
	var cam geometry.Camera
	if err := c.ShouldBindJSON(&cam); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if cam.Width < 0 || cam.Height < 0 || cam.Zoom < 0 {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, "camera dimensions must be >= 0")

		return
	}

	h.session.SetCamera(cam)
	c.Status(http.StatusNoContent)
}

func (h *ViewHandler) await(c *gin.Context, kind string, ch <-chan editor.Outcome) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), gestureTimeout)
	defer cancel()

	select {
	case o := <-ch:
		if o.Err != nil {
			status, code := statusFor(o.Err)
			middleware.Log(c, h.log).WithError(o.Err).WithFields(logrus.Fields{"gesture": kind, "status": status}).Info("gesture failed")
			respondError(c, status, code, o.Err.Error())

			return
		}

		resp := outcomeResponse{Reconcile: o.Reconcile.String(), Frame: o.Frame}
		if o.Command != nil {
			resp.Command = o.Command.Op()
		}
		if o.ReloadErr != nil {
			resp.ReloadErr = o.ReloadErr.Error()
		}
		c.JSON(http.StatusOK, resp)
	case <-ctx.Done():
		respondError(c, http.StatusGatewayTimeout, ErrCodeUnavailable, "gesture still pending")
	}
}
