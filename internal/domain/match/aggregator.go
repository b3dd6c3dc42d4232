// Package match groups completed points into match history, tracks the
// cumulative score, and owns the hold-duration samples recorded across
// the whole match.
package match

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/breakside/internal/domain/model"
)

// Team identifies a score counter.
type Team string

// Teams.
const (
	TeamHome Team = "home"
	TeamAway Team = "away"
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithMeta attaches fixture metadata carried on every snapshot.
func WithMeta(meta model.MatchMeta) Option {
	return func(a *Aggregator) { a.meta = meta }
}

// Aggregator owns the archived points, the cumulative score, and the
// hold-duration samples. Samples are kept twice: match-wide, and for the
// open point only, so each statistics scope sees matching holds. Not safe
// for concurrent use; the service serializes all access.
type Aggregator struct {
	points    []model.Point
	home      int
	away      int
	startHome int
	startAway int
	holds     map[string][]float64
	openHolds map[string][]float64
	meta      model.MatchMeta
	ended     bool
	now       func() time.Time
}

// New creates an empty Aggregator.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		holds:     make(map[string][]float64),
		openHolds: make(map[string][]float64),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RecordHold appends a hold-time sample for player to both the match-wide
// and the open-point buckets.
func (a *Aggregator) RecordHold(player string, seconds float64) {
	if a.ended {
		return
	}
	a.holds[player] = append(a.holds[player], seconds)
	a.openHolds[player] = append(a.openHolds[player], seconds)
}

// Holds returns a copy of the match-wide hold-duration samples.
func (a *Aggregator) Holds() map[string][]float64 {
	return copyHolds(a.holds)
}

// PointHolds returns a copy of the open point's hold-duration samples.
func (a *Aggregator) PointHolds() map[string][]float64 {
	return copyHolds(a.openHolds)
}

func copyHolds(holds map[string][]float64) map[string][]float64 {
	out := make(map[string][]float64, len(holds))
	for name, samples := range holds {
		s := make([]float64, len(samples))
		copy(s, samples)
		out[name] = s
	}
	return out
}

// Home returns the tracked team's score.
func (a *Aggregator) Home() int { return a.home }

// Away returns the opposing team's score.
func (a *Aggregator) Away() int { return a.away }

// Ended reports whether the match has been frozen.
func (a *Aggregator) Ended() bool { return a.ended }

// ScoreFor increments the counter for the team credited by a terminal
// event.
func (a *Aggregator) ScoreFor(t model.EventType) error {
	const op = "match.score_for"
	if a.ended {
		return fmt.Errorf("%s: %w", op, ErrMatchEnded)
	}
	switch t {
	case model.EventScore:
		a.home++
	case model.EventOpponentScore:
		a.away++
	}
	return nil
}

// Adjust applies a manual score override, clamped at zero. The override
// bypasses the event log entirely and is invisible to the statistics
// engine.
func (a *Aggregator) Adjust(team Team, delta int) error {
	const op = "match.adjust"
	if a.ended {
		return fmt.Errorf("%s: %w", op, ErrMatchEnded)
	}
	switch team {
	case TeamHome:
		a.home = max(0, a.home+delta)
	case TeamAway:
		a.away = max(0, a.away+delta)
	default:
		return fmt.Errorf("%s: %q: %w", op, team, ErrUnknownTeam)
	}
	return nil
}

// ClosePoint archives the given event sequence as a completed point and
// returns it. The point records the score it started at; the open-point
// hold samples roll into the next point empty. Match-wide holds are
// untouched.
func (a *Aggregator) ClosePoint(events []model.Event) (model.Point, error) {
	const op = "match.close_point"
	if a.ended {
		return model.Point{}, fmt.Errorf("%s: %w", op, ErrMatchEnded)
	}
	p := model.Point{
		ID:        uuid.NewString(),
		Events:    events,
		StartHome: a.startHome,
		StartAway: a.startAway,
		ClosedAt:  a.now(),
	}
	a.points = append(a.points, p)
	a.startHome, a.startAway = a.home, a.away
	a.openHolds = make(map[string][]float64)
	return p, nil
}

// EndMatch archives the in-progress point (even if empty or incomplete)
// and freezes further mutation.
func (a *Aggregator) EndMatch(openEvents []model.Event) error {
	const op = "match.end_match"
	if a.ended {
		return fmt.Errorf("%s: %w", op, ErrMatchEnded)
	}
	if _, err := a.ClosePoint(openEvents); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	a.ended = true
	return nil
}

// ResetMatch clears history, scores, and hold durations for a cold start.
// The match metadata survives; it describes the fixture, not its state.
func (a *Aggregator) ResetMatch() {
	a.points = nil
	a.home = 0
	a.away = 0
	a.startHome = 0
	a.startAway = 0
	a.holds = make(map[string][]float64)
	a.openHolds = make(map[string][]float64)
	a.ended = false
}

// Points returns a copy of the archived points.
func (a *Aggregator) Points() []model.Point {
	out := make([]model.Point, len(a.points))
	copy(out, a.points)
	return out
}

// AllEvents returns the archived points' events concatenated with the
// open point's events, in order. This is the match-scope input to the
// statistics engine.
func (a *Aggregator) AllEvents(openEvents []model.Event) []model.Event {
	var out []model.Event
	for i := range a.points {
		out = append(out, a.points[i].Events...)
	}
	return append(out, openEvents...)
}

// Snapshot captures the whole match state for sync collaborators.
func (a *Aggregator) Snapshot(openEvents []model.Event) model.Snapshot {
	return model.Snapshot{
		ID:         uuid.NewString(),
		TakenAt:    a.now(),
		Meta:       a.meta,
		HomeScore:  a.home,
		AwayScore:  a.away,
		Points:     a.Points(),
		OpenEvents: openEvents,
		Ended:      a.ended,
	}
}
