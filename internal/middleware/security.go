package middleware

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/graphway/graphway/internal/httputil"
)

// SecurityHeaders sets response headers for a JSON and WebSocket API that a
// local renderer page talks to. The API never serves documents itself.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Cross-Origin-Resource-Policy", "same-site")
		h.Set("Cache-Control", "no-store")

		c.Next()
	}
}

// LocalHost rejects requests whose Host header does not name a loopback
// address. A page on another origin can resolve its own hostname to
// 127.0.0.1; the Host header still carries that hostname.
func LocalHost() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isLoopbackHost(c.Request.Host) {
			httputil.RespondError(c, http.StatusMisdirectedRequest, "bad_host", "host must be a loopback address")

			return
		}

		c.Next()
	}
}

func isLoopbackHost(hostport string) bool {
	host, _, err := net.SplitHostPort(hostport)
	if err != nil {
		host = hostport
	}

	if host == "localhost" {
		return true
	}

	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
