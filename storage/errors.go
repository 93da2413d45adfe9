package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when a source or settings record is not found.
	ErrNotFound = errors.New("record not found")
)
