package store

import (
	"errors"
	"fmt"
)

// Common store errors used across both task store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. Cross-owner access deliberately surfaces as this same error so
	// that callers cannot distinguish "absent" from "owned by someone else".
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidID is returned by ValidateID when an identifier string is
	// syntactically impossible for the active backend (not 24 hex characters
	// for the document store, not a positive integer for the relational
	// store). It is returned before any query is issued.
	ErrInvalidID = errors.New("invalid identifier")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored, or violates a storage-level constraint such as a
	// foreign key. Check the wrapped error for details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTaskNotFound indicates that the requested task does not exist for
	// the given owner.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
