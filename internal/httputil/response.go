// Package httputil holds the JSON error shape shared by the serve handlers.
package httputil

import "github.com/gin-gonic/gin"

// RequestIDKey is the gin context key the request ID middleware sets.
const RequestIDKey = "request_id"

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// RespondError aborts the request with an ErrorBody.
func RespondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{
		Code:      code,
		Message:   message,
		RequestID: c.GetString(RequestIDKey),
	})
}
