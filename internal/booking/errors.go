package booking

import "errors"

// Domain error taxonomy. Callers classify failures with errors.Is; the API
// layer maps each kind to an HTTP status.
var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrStationInactive     = errors.New("station is not active")
	ErrConflict            = errors.New("time range conflicts with an existing booking")
	ErrNoApplicablePricing = errors.New("no pricing applies to the requested start time")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrNotAuthorized       = errors.New("not authorized")
	ErrNotFound            = errors.New("not found")
	ErrPersistenceTimeout  = errors.New("storage operation timed out")
)

// IsRetryable reports whether an operation that failed with err may be
// retried as a whole. Only storage timeouts qualify; domain rejections are
// final because retrying an invalid request cannot succeed.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrPersistenceTimeout)
}
