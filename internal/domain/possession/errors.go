package possession

import "errors"

// Sentinel errors for machine transitions.
var (
	// ErrIllegalTransition marks an operation invoked outside its valid
	// state. Nothing is mutated; the caller may re-issue safely.
	ErrIllegalTransition = errors.New("illegal transition")

	// ErrUnknownPlayer marks a player reference outside the active lineup.
	ErrUnknownPlayer = errors.New("player not in lineup")

	// ErrBadLineup marks a lineup selection of the wrong size or with
	// duplicate players.
	ErrBadLineup = errors.New("invalid lineup")

	// ErrOutOfBounds marks a marked location outside the field.
	ErrOutOfBounds = errors.New("location off the field")
)
