package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrMissingID      = errors.New("id is required")
	ErrMissingSource  = errors.New("source is required")
	ErrMissingTarget  = errors.New("target is required")
	ErrNegativeRating = errors.New("rating must be >= 0")
)

// Error taxonomy for store interactions. Failures returned to gestures wrap
// exactly one of these.
var (
	// ErrNetworkFailure means the request never completed.
	ErrNetworkFailure = errors.New("network failure")
	// ErrRejectedMutation means the store refused a well-formed request.
	ErrRejectedMutation = errors.New("mutation rejected")
	// ErrNotFound means a token or id did not resolve.
	ErrNotFound = errors.New("not found")
	// ErrStaleView means local state no longer matches the store.
	ErrStaleView = errors.New("stale view")
)

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s exceeds maximum length of %d", field, maxLen)
}
