package repository

import "errors"

// Sentinel errors for store operations.
var (
	// ErrNotFound marks a lookup for an unknown snapshot.
	ErrNotFound = errors.New("snapshot not found")
)
