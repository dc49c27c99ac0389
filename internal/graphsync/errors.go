package graphsync

import (
	"errors"
	"fmt"

	"github.com/graphway/graphway/internal/models"
)

// MutationError is a failed store call. Kind is one of the models taxonomy
// sentinels; errors.Is matches both Kind and the underlying cause.
type MutationError struct {
	Op   string
	Kind error
	Err  error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes both the kind and the cause.
func (e *MutationError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

var kinds = []error{
	models.ErrNotFound,
	models.ErrRejectedMutation,
	models.ErrStaleView,
	models.ErrNetworkFailure,
}

// KindOf returns the taxonomy sentinel err wraps, defaulting to
// models.ErrNetworkFailure.
func KindOf(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}

	return models.ErrNetworkFailure
}

// outcome is the metrics label for a store call result.
func outcome(err error) string {
	switch KindOf(err) {
	case models.ErrNotFound:
		return "not_found"
	case models.ErrRejectedMutation:
		return "rejected"
	case models.ErrStaleView:
		return "stale"
	default:
		return "network"
	}
}
