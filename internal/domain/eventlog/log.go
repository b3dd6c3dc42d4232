// Package eventlog keeps the append-only ordered event sequence for the
// open point and applies point-boundary player corrections.
package eventlog

import (
	"fmt"

	"github.com/okian/breakside/internal/domain/model"
)

// Log is the append-only event sequence of the open point. Not safe for
// concurrent use; the service serializes all access.
type Log struct {
	events  []model.Event
	nextSeq int
}

// New creates an empty log. Sequence ids start at 1.
func New() *Log {
	return &Log{nextSeq: 1}
}

// Append validates e against the ordering invariants, assigns the next
// sequence id, and adds e to the tail. On violation the log is unchanged
// and an error wrapping ErrInvalidSequence is returned.
func (l *Log) Append(e model.Event) (model.Event, error) {
	const op = "eventlog.append"

	if l.Closed() {
		return model.Event{}, fmt.Errorf("%s: point already closed: %w", op, ErrInvalidSequence)
	}
	if len(l.events) == 0 && e.Type != model.EventPickup && e.Type != model.EventTurnover {
		return model.Event{}, fmt.Errorf("%s: point must open with pickup or turnover, got %s: %w",
			op, e.Type, ErrInvalidSequence)
	}
	if last, ok := l.Last(); ok && last.Type.Catch() && e.Type.Catch() && last.Player == e.Player {
		return model.Event{}, fmt.Errorf("%s: %s cannot catch from themselves: %w",
			op, e.Player, ErrInvalidSequence)
	}

	e.Seq = l.nextSeq
	l.nextSeq++
	l.events = append(l.events, e)
	return e, nil
}

// Correction describes the outcome of CorrectPlayer so the caller can keep
// the live possession state consistent.
type Correction struct {
	Event       model.Event // corrected event after the rewrite
	OldPlayer   string
	RewroteNext bool // the following event's thrower was rewritten
	WasLast     bool // the corrected event is the tail of the log
}

// CorrectPlayer replaces the primary player of the event with sequence id
// seq. If the next event in sequence names the old player as thrower, that
// reference is rewritten too. Sequence ids are never altered.
//
// When the next event exists but carries no matching thrower reference the
// correction still proceeds; the caller should log the inconsistency.
func (l *Log) CorrectPlayer(seq int, newPlayer string) (Correction, error) {
	const op = "eventlog.correct_player"

	idx := -1
	for i := range l.events {
		if l.events[i].Seq == seq {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Correction{}, fmt.Errorf("%s: seq %d: %w", op, seq, ErrEventNotFound)
	}

	old := l.events[idx].Player
	l.events[idx].Player = newPlayer

	c := Correction{
		Event:     l.events[idx],
		OldPlayer: old,
		WasLast:   idx == len(l.events)-1,
	}
	if !c.WasLast && l.events[idx+1].Thrower == old {
		l.events[idx+1].Thrower = newPlayer
		c.RewroteNext = true
	}
	return c, nil
}

// Events returns a copy of the log.
func (l *Log) Events() []model.Event {
	out := make([]model.Event, len(l.events))
	copy(out, l.events)
	return out
}

// Last returns the tail event, if any.
func (l *Log) Last() (model.Event, bool) {
	if len(l.events) == 0 {
		return model.Event{}, false
	}
	return l.events[len(l.events)-1], true
}

// Len returns the number of logged events.
func (l *Log) Len() int { return len(l.events) }

// Closed reports whether the point has ended with a terminal event.
func (l *Log) Closed() bool {
	last, ok := l.Last()
	return ok && last.Type.Terminal()
}

// CatchCount returns the number of completion/score events, which is the
// pass index assigned to the next catch.
func (l *Log) CatchCount() int {
	n := 0
	for i := range l.events {
		if l.events[i].Type.Catch() {
			n++
		}
	}
	return n
}

// Clear empties the log for a new point. Hold durations and match history
// live elsewhere and are untouched.
func (l *Log) Clear() {
	l.events = l.events[:0]
	l.nextSeq = 1
}
