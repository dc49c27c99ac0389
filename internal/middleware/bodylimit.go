package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/graphway/graphway/internal/httputil"
)

// MaxBodySize rejects declared oversized bodies with 413 and caps the rest.
// Gestures and camera updates are a few hundred bytes.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			httputil.RespondError(c, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large")

			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
