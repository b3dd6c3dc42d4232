package eventlog

import "errors"

// Sentinel errors for log operations.
var (
	// ErrInvalidSequence marks an append that would violate an ordering
	// invariant. The log is left in its last valid state.
	ErrInvalidSequence = errors.New("invalid event sequence")

	// ErrEventNotFound marks a correction targeting an unknown sequence id.
	ErrEventNotFound = errors.New("event not found")
)
