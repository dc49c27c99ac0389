package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/graphway/graphway/internal/editor"
	"github.com/graphway/graphway/internal/httputil"
	"github.com/graphway/graphway/internal/interaction"
	"github.com/graphway/graphway/internal/metrics"
	"github.com/graphway/graphway/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeNotFound        = "not_found"
	ErrCodeInternalError   = "internal_error"
	ErrCodeNotPermitted    = "not_permitted"
	ErrCodeRejected        = "rejected"
	ErrCodeStoreUnavail    = "store_unavailable"
	ErrCodeStaleView       = "stale_view"
	ErrCodeUnavailable     = "unavailable"
	ErrCodeValidationError = "validation_error"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// statusFor maps a gesture error to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, editor.ErrClosed):
		return http.StatusServiceUnavailable, ErrCodeUnavailable
	case errors.Is(err, interaction.ErrNotPermitted):
		return http.StatusForbidden, ErrCodeNotPermitted
	case errors.Is(err, models.ErrStaleView),
		errors.Is(err, interaction.ErrUnknownNode),
		errors.Is(err, interaction.ErrUnknownEdge):
		return http.StatusConflict, ErrCodeStaleView
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, models.ErrRejectedMutation):
		return http.StatusConflict, ErrCodeRejected
	case errors.Is(err, models.ErrNetworkFailure):
		return http.StatusBadGateway, ErrCodeStoreUnavail
	case errors.Is(err, interaction.ErrNoSelection),
		errors.Is(err, interaction.ErrConnecting),
		errors.Is(err, models.ErrNegativeRating),
		errors.Is(err, models.ErrMissingID):
		return http.StatusUnprocessableEntity, ErrCodeValidationError
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}
