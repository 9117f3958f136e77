package reconcile

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput indicates a plan or experience snapshot is missing or
	// has no item list. Callers match it with errors.Is.
	ErrInvalidInput = errors.New("invalid sync input")

	// ErrInvalidSelection indicates a selection index does not address an
	// entry of the changeset it was applied to.
	ErrInvalidSelection = errors.New("invalid changeset selection")
)

// InvalidInputError reports which snapshot was unusable.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}
