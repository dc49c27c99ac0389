package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError represents an error response from the store. The store answers
// either {"detail": "..."} or {"code": "...", "message": "..."}.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("store: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// NetworkError means the request did not produce an HTTP response.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Method, e.Path, e.Err)
}

// Unwrap returns the transport error.
func (e *NetworkError) Unwrap() error { return e.Err }

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound returns true if the error is a 404 not found.
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// IsUnauthorized returns true if the store refused the credential.
func IsUnauthorized(err error) bool {
	s := statusOf(err)
	return s == http.StatusUnauthorized || s == http.StatusForbidden
}

// IsRejected returns true if the store refused a well-formed request
// (any 4xx other than 404).
func IsRejected(err error) bool {
	s := statusOf(err)
	return s >= 400 && s < 500 && s != http.StatusNotFound
}

// IsNetwork returns true if the request never completed, including 5xx
// responses from a proxy in front of the store.
func IsNetwork(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	return statusOf(err) >= 500
}

// parseAPIError attempts to decode a JSON error body; falls back to raw text.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, apiErr); err != nil {
		apiErr.Code = "unknown"
		apiErr.Message = string(body)
		return apiErr
	}
	if apiErr.Message == "" {
		apiErr.Message = apiErr.Detail
	}
	if apiErr.Code == "" {
		apiErr.Code = codeFor(statusCode)
	}
	if apiErr.Message == "" {
		apiErr.Message = string(body)
	}
	return apiErr
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusUnprocessableEntity:
		return "validation_error"
	default:
		return "unknown"
	}
}
