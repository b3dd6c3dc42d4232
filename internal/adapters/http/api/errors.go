package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/breakside/internal/domain/eventlog"
	"github.com/okian/breakside/internal/domain/match"
	"github.com/okian/breakside/internal/domain/possession"
	"github.com/okian/breakside/internal/domain/roster"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// Wrap annotates err with the operation name.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// WrapKind annotates err with the operation name and a sentinel kind.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// classify maps domain errors to HTTP status codes. Transition and
// lifecycle violations are conflicts; a stale sequence is unprocessable;
// unknown names are not found.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, possession.ErrIllegalTransition),
		errors.Is(err, match.ErrMatchEnded):
		return http.StatusConflict, "conflict"
	case errors.Is(err, eventlog.ErrInvalidSequence):
		return http.StatusUnprocessableEntity, "invalid_sequence"
	case errors.Is(err, possession.ErrUnknownPlayer),
		errors.Is(err, roster.ErrPlayerNotFound),
		errors.Is(err, eventlog.ErrEventNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, possession.ErrBadLineup),
		errors.Is(err, possession.ErrOutOfBounds),
		errors.Is(err, match.ErrUnknownTeam),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
