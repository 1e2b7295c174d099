package domain

import "errors"

// Sentinel errors shared across services and repositories.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller is not allowed to perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput is returned when the request is structurally invalid.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict is returned when a storage uniqueness constraint is violated,
	// e.g. inviting the same co-speaker twice or recording a second review for
	// the same (proposal, stage) pair.
	ErrConflict = errors.New("conflict")
)
