// Package repo implements the persistence layer over an injected *sql.DB.
// Callers match the sentinel errors with errors.Is.
package repo

import "errors"

var (
	// ErrNotFound is returned when no row matches; for tasks this also covers
	// ownership mismatches, which are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when an insert hits the unique email index.
	ErrDuplicateEmail = errors.New("email already registered")
)
