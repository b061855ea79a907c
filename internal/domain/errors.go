package domain

import "errors"

var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists is returned when a resource already exists
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when a write loses against a concurrent one
	// (duplicate like, report already resolved)
	ErrConflict = errors.New("conflict occurred")

	// ErrRateLimited is returned when a caller exceeds a submission quota
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInternal is returned when an internal error occurs
	ErrInternal = errors.New("internal error")
)
