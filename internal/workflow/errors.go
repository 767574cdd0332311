package workflow

import "errors"

var (
	// ErrNotFound covers both genuinely absent records and records the
	// caller is not allowed to see; the two are indistinguishable on the
	// wire so callers cannot probe for existence.
	ErrNotFound = errors.New("workflow: not found")

	// ErrUnauthorized means the principal is known but the policy table
	// denies the operation.
	ErrUnauthorized = errors.New("workflow: operation not permitted")

	// ErrInvalidStatus flags a value outside the closed status sets.
	ErrInvalidStatus = errors.New("workflow: invalid status")

	// ErrInvalidInput flags malformed or missing request fields.
	ErrInvalidInput = errors.New("workflow: invalid input")

	// ErrAlreadyReviewed is returned when terminal review is enabled and
	// a second decision targets the same evidence.
	ErrAlreadyReviewed = errors.New("workflow: evidence already reviewed")

	// ErrUpstream wraps storage and blob transport failures.
	ErrUpstream = errors.New("workflow: upstream failure")
)
