package resolver

import "errors"

var (
	// ErrNotFound is returned by Find when no canonical node exists for a
	// value.
	ErrNotFound = errors.New("canonical node not found")

	// ErrNotFrozen is returned when a canonical node is registered before it
	// is frozen.
	ErrNotFrozen = errors.New("canonical node must be frozen")

	// ErrConflict is returned when a different node is already registered
	// for the same value.
	ErrConflict = errors.New("value already registered")
)

func isNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
