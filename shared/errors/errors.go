package errors

import "errors"

// default error is internal service error at apiclient level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// ErrNotFound marks a benign locate miss: the entity an event or response
// addresses is not (or no longer) in the local graph. Callers decide whether
// that is an ignorable race or a defect signal.
var ErrNotFound = errors.New("entity not found in local graph")

// ErrStale marks a response that arrived for a board or card the user has
// already navigated away from.
var ErrStale = errors.New("stale response for unloaded entity")
