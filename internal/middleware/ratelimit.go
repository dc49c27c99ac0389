// Package middleware provides HTTP middleware for graphway serve.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/graphway/graphway/internal/httputil"
)

// Throttle is a single token bucket shared by every caller. The serve
// surface listens on loopback, so per-IP buckets would all collapse into one.
type Throttle struct {
	mu       sync.Mutex
	tokens   int
	lastFill time.Time
	rate     int
	burst    int
	now      func() time.Time
}

// NewThrottle allows ratePerSec requests per second with the given burst.
func NewThrottle(ratePerSec, burst int) *Throttle {
	return &Throttle{
		tokens:   burst,
		lastFill: time.Now(),
		rate:     ratePerSec,
		burst:    burst,
		now:      time.Now,
	}
}

func (t *Throttle) allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	refill := int(now.Sub(t.lastFill).Seconds() * float64(t.rate))

	if refill > 0 {
		t.tokens = min(t.tokens+refill, t.burst)
		t.lastFill = now
	}

	if t.tokens > 0 {
		t.tokens--

		return true
	}

	return false
}

// Handler returns Gin middleware that rejects requests over the limit.
func (t *Throttle) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !t.allow() {
			c.Header("Retry-After", "1")
			httputil.RespondError(c, http.StatusTooManyRequests, "rate_limited", "too many gestures")

			return
		}

		c.Next()
	}
}
