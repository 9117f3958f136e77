package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict indicates a write was based on a stale snapshot.
	ErrVersionConflict = errors.New("version conflict")

	// ErrForbidden indicates the acting user may not perform the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation indicates the input failed domain validation.
	ErrValidation = errors.New("validation failed")

	ErrAlreadyExists = errors.New("already exists")
)
