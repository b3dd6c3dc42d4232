package match

import "errors"

// Sentinel errors for aggregator operations.
var (
	// ErrMatchEnded marks a mutation attempted after the match was frozen.
	ErrMatchEnded = errors.New("match already ended")

	// ErrUnknownTeam marks a score adjustment for a team that is neither
	// home nor away.
	ErrUnknownTeam = errors.New("unknown team")
)
