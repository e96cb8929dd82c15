package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrMissingScope marks queries that cannot be evaluated at all, as
	// opposed to queries that evaluated to an empty or denied result. The
	// two must never be conflated when surfaced to a client.
	ErrMissingScope = errors.New("missing query scope")
)
