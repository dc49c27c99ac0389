package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/graphway/graphway/internal/httputil"
)

const (
	// RequestIDKey is the gin context key for the request ID.
	RequestIDKey = httputil.RequestIDKey

	// RequestIDHeader carries the request ID on responses.
	RequestIDHeader = "X-Request-ID"

	logEntryKey = "log_entry"
)

// RequestID assigns a server-side UUID to every request and stores a log
// entry tagged with it. A client-supplied X-Request-ID is only recorded as
// client_request_id, so renderers can correlate their own logs.
func RequestID(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		entry := log.WithField("request_id", id)

		if clientID := c.GetHeader(RequestIDHeader); clientID != "" {
			entry = entry.WithField("client_request_id", clientID)
		}

		c.Set(RequestIDKey, id)
		c.Set(logEntryKey, entry)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Log returns the request's log entry, or one on fallback when the
// RequestID middleware did not run.
func Log(c *gin.Context, fallback *logrus.Logger) *logrus.Entry {
	if v, ok := c.Get(logEntryKey); ok {
		if entry, ok := v.(*logrus.Entry); ok {
			return entry
		}
	}

	return logrus.NewEntry(fallback)
}
