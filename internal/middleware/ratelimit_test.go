package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/graphway/graphway/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func throttled(th *middleware.Throttle) *gin.Engine {
	r := gin.New()
	r.Use(th.Handler())
	r.POST("/gestures", func(c *gin.Context) { c.Status(http.StatusOK) })

	return r
}

func hit(r *gin.Engine) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/gestures", http.NoBody))

	return w.Code
}

func TestThrottle_AllowsWithinBurst(t *testing.T) {
	r := throttled(middleware.NewThrottle(10, 5))

	for i := range 5 {
		if code := hit(r); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}
}

func TestThrottle_BlocksExceedingBurst(t *testing.T) {
	r := throttled(middleware.NewThrottle(1, 2))

	for i := range 3 {
		code := hit(r)
		if i < 2 && code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
		if i == 2 && code != http.StatusTooManyRequests {
			t.Fatalf("request %d: expected 429, got %d", i, code)
		}
	}
}

func TestThrottle_Refills(t *testing.T) {
	th := middleware.NewThrottle(50, 1)
	r := throttled(th)

	if code := hit(r); code != http.StatusOK {
		t.Fatalf("first: expected 200, got %d", code)
	}
	if code := hit(r); code != http.StatusTooManyRequests {
		t.Fatalf("second: expected 429, got %d", code)
	}

	time.Sleep(60 * time.Millisecond)

	if code := hit(r); code != http.StatusOK {
		t.Errorf("after refill: expected 200, got %d", code)
	}
}
