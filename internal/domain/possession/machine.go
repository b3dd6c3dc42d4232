// Package possession implements the offense/defense phase state machine.
// It validates user commands, measures hold times, and is the only writer
// of the point's event log.
package possession

import (
	"fmt"
	"time"

	"github.com/okian/breakside/internal/domain/eventlog"
	"github.com/okian/breakside/internal/domain/field"
	"github.com/okian/breakside/internal/domain/model"
)

// Default lineup size for a regulation point.
const defaultLineupSize = 7

// State names the machine's position in the point lifecycle.
type State string

// Machine states.
const (
	StateAwaitingLineup     State = "awaiting_lineup"
	StateAwaitingPointStart State = "awaiting_point_start"
	StateAwaitingPickup     State = "awaiting_pickup_attribution"
	StateInPossession       State = "in_possession"
	StateAwaitingThrow      State = "awaiting_throw_attribution"
	StateDefensePending     State = "defense_pending"
	StatePointClosed        State = "point_closed"
)

// HoldRecorder receives completed hold-time samples. The machine is the
// only writer of hold durations.
type HoldRecorder interface {
	RecordHold(player string, seconds float64)
}

// Option applies a configuration option to the Machine.
type Option func(*Machine)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLineupSize sets the number of players required on the line.
func WithLineupSize(n int) Option {
	return func(m *Machine) {
		if n > 0 {
			m.lineupSize = n
		}
	}
}

// Machine tracks the current possessor, phase, pending throw target, and
// hold-time acquisition timestamp for the open point. Not safe for
// concurrent use; the service serializes all commands.
type Machine struct {
	state       State
	phase       model.Phase
	possessor   string
	possessorAt model.Coordinate
	pending     *model.Coordinate
	acquiredAt  time.Time

	lineup     map[string]model.Player // keyed by player name
	lineupSize int

	log   *eventlog.Log
	field field.Field
	holds HoldRecorder
	now   func() time.Time
}

// New creates a Machine in StateAwaitingLineup writing to log.
func New(log *eventlog.Log, f field.Field, holds HoldRecorder, opts ...Option) *Machine {
	m := &Machine{
		state:      StateAwaitingLineup,
		phase:      model.PhaseOffense,
		lineupSize: defaultLineupSize,
		log:        log,
		field:      f,
		holds:      holds,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current machine state.
func (m *Machine) State() State { return m.state }

// Phase returns the current phase.
func (m *Machine) Phase() model.Phase { return m.phase }

// Possessor returns the current possessor name, empty when nobody holds
// the disc.
func (m *Machine) Possessor() string { return m.possessor }

// Log returns the open point's event log.
func (m *Machine) Log() *eventlog.Log { return m.log }

// View is a read-only snapshot of the live possession state for rendering.
type View struct {
	State         State             `json:"state"`
	Phase         model.Phase       `json:"phase"`
	Possessor     string            `json:"possessor,omitempty"`
	PendingTarget *model.Coordinate `json:"pending_target,omitempty"`
	HeldSeconds   float64           `json:"held_seconds"`
	Lineup        []model.Player    `json:"lineup,omitempty"`
}

// Snapshot returns the current possession view.
func (m *Machine) Snapshot() View {
	v := View{State: m.state, Phase: m.phase, Possessor: m.possessor}
	if m.pending != nil {
		c := *m.pending
		v.PendingTarget = &c
	}
	if m.possessor != "" && !m.acquiredAt.IsZero() {
		v.HeldSeconds = m.now().Sub(m.acquiredAt).Seconds()
	}
	for _, p := range m.lineup {
		v.Lineup = append(v.Lineup, p)
	}
	return v
}

// SelectLineup activates the given players for the next point. Valid only
// between points.
func (m *Machine) SelectLineup(players []model.Player) error {
	const op = "possession.select_lineup"

	if m.state != StateAwaitingLineup && m.state != StateAwaitingPointStart {
		return fmt.Errorf("%s: state %s: %w", op, m.state, ErrIllegalTransition)
	}
	if len(players) != m.lineupSize {
		return fmt.Errorf("%s: need %d players, got %d: %w", op, m.lineupSize, len(players), ErrBadLineup)
	}
	lineup := make(map[string]model.Player, len(players))
	for _, p := range players {
		if _, dup := lineup[p.Name]; dup {
			return fmt.Errorf("%s: duplicate player %s: %w", op, p.Name, ErrBadLineup)
		}
		lineup[p.Name] = p
	}
	m.lineup = lineup
	m.state = StateAwaitingPointStart
	return nil
}

// MarkLocation records a field location supplied by the input collaborator.
//
// On offense it sets the pending pickup target. On defense it means the
// opponent turned the disc over there: an OpponentTurnover event is
// appended, the phase flips to offense, and the location is kept as the
// pending target so a pickup can be attributed without a second action.
func (m *Machine) MarkLocation(c model.Coordinate) (*model.Event, error) {
	const op = "possession.mark_location"

	if !m.field.Contains(c) {
		return nil, fmt.Errorf("%s: (%g, %g): %w", op, c.X, c.Y, ErrOutOfBounds)
	}
	switch m.state {
	case StateDefensePending:
		e, err := m.log.Append(model.Event{
			Type:     model.EventOpponentTurnover,
			Player:   model.Opponent,
			Location: c,
			Phase:    model.PhaseDefense,
			TS:       m.now(),
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		m.phase = model.PhaseOffense
		m.pending = &c
		m.state = StateAwaitingPickup
		return &e, nil
	case StateAwaitingPointStart:
		m.pending = &c
		m.state = StateAwaitingPickup
		return nil, nil
	default:
		return nil, fmt.Errorf("%s: state %s: %w", op, m.state, ErrIllegalTransition)
	}
}

// SelectPlayer routes a player selection by machine state: pickup
// attribution, completion attribution, or pending-throw cancellation when
// the possessor reselects themselves.
func (m *Machine) SelectPlayer(name string) (*model.Event, error) {
	const op = "possession.select_player"

	p, ok := m.lineup[name]
	if !ok {
		return nil, fmt.Errorf("%s: %s: %w", op, name, ErrUnknownPlayer)
	}

	switch m.state {
	case StateAwaitingPickup:
		return m.attributePickup(p)
	case StateAwaitingThrow:
		if p.Name == m.possessor {
			// Misclick correction: abandon the pending throw.
			m.pending = nil
			m.state = StateInPossession
			return nil, nil
		}
		return m.attributeCompletion(p)
	default:
		return nil, fmt.Errorf("%s: state %s: %w", op, m.state, ErrIllegalTransition)
	}
}

// ReleaseThrow marks a throw released toward c. No event is appended; a
// throw stays provisional until a catcher is attributed.
func (m *Machine) ReleaseThrow(c model.Coordinate) error {
	const op = "possession.release_throw"

	if m.state != StateInPossession {
		return fmt.Errorf("%s: state %s: %w", op, m.state, ErrIllegalTransition)
	}
	if !m.field.Contains(c) {
		return fmt.Errorf("%s: (%g, %g): %w", op, c.X, c.Y, ErrOutOfBounds)
	}
	m.pending = &c
	m.state = StateAwaitingThrow
	return nil
}

func (m *Machine) attributePickup(p model.Player) (*model.Event, error) {
	const op = "possession.attribute_pickup"

	e, err := m.log.Append(model.Event{
		Type:     model.EventPickup,
		Player:   p.Name,
		Thrower:  model.Opponent,
		Location: *m.pending,
		Phase:    m.phase,
		TS:       m.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	m.possessor = p.Name
	m.possessorAt = *m.pending
	m.pending = nil
	m.acquiredAt = m.now()
	m.state = StateInPossession
	return &e, nil
}

func (m *Machine) attributeCompletion(p model.Player) (*model.Event, error) {
	const op = "possession.attribute_completion"

	target := *m.pending
	typ := model.EventCompletion
	if m.field.IsEndzone(target.Y) {
		typ = model.EventScore
	}
	e, err := m.log.Append(model.Event{
		Type:      typ,
		Player:    p.Name,
		Thrower:   m.possessor,
		Location:  target,
		PassIndex: m.log.CatchCount(),
		DistanceM: m.field.DistanceMeters(m.possessorAt, target),
		Phase:     m.phase,
		TS:        m.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m.holds.RecordHold(m.possessor, m.now().Sub(m.acquiredAt).Seconds())

	if typ == model.EventScore {
		m.closePoint()
	} else {
		m.possessor = p.Name
		m.possessorAt = target
		m.pending = nil
		m.acquiredAt = m.now()
		m.state = StateInPossession
	}
	return &e, nil
}

// DeclareTurnover records a loss of possession. throw-error blames the
// possessor and optionally names the intended receiver; receive-error
// names the dropper. With no prior possession (dropped pull) the thrower
// is the synthetic Opponent and the kind may stay untyped.
func (m *Machine) DeclareTurnover(kind model.TurnoverKind, name string) (*model.Event, error) {
	const op = "possession.declare_turnover"

	e := model.Event{
		Type:         model.EventTurnover,
		TurnoverKind: kind,
		Phase:        m.phase,
		TS:           m.now(),
	}
	if m.pending != nil {
		e.Location = *m.pending
	}

	switch {
	case m.state == StateAwaitingThrow:
		// Bad release: the possessor's hold ends here.
		e.DistanceM = m.field.DistanceMeters(m.possessorAt, *m.pending)
		switch kind {
		case model.TurnoverThrowError:
			e.Player = m.possessor
			e.IntendedReceiver = name // absent is a valid "no intended receiver"
		case model.TurnoverReceiveError:
			if _, ok := m.lineup[name]; !ok {
				return nil, fmt.Errorf("%s: %s: %w", op, name, ErrUnknownPlayer)
			}
			e.Player = name
			e.Thrower = m.possessor
		default:
			return nil, fmt.Errorf("%s: turnover after a release must be typed: %w", op, ErrIllegalTransition)
		}
		m.holds.RecordHold(m.possessor, m.now().Sub(m.acquiredAt).Seconds())

	case m.log.Len() == 0 && (m.state == StateAwaitingPointStart || m.state == StateAwaitingPickup):
		// Dropped pull before any possession.
		e.Thrower = model.Opponent
		e.Player = name
		if name == "" {
			e.Player = model.Opponent
		} else if _, ok := m.lineup[name]; !ok {
			return nil, fmt.Errorf("%s: %s: %w", op, name, ErrUnknownPlayer)
		}

	default:
		return nil, fmt.Errorf("%s: state %s: %w", op, m.state, ErrIllegalTransition)
	}

	appended, err := m.log.Append(e)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	m.possessor = ""
	m.possessorAt = model.Coordinate{}
	m.pending = nil
	m.acquiredAt = time.Time{}
	m.phase = model.PhaseDefense
	m.state = StateDefensePending
	return &appended, nil
}

// DeclareBlock records a defensive block by a lineup player and flips the
// phase to offense. Possession is not granted; a pickup must still be
// attributed after a location is marked.
func (m *Machine) DeclareBlock(name string) (*model.Event, error) {
	const op = "possession.declare_block"

	if m.state != StateDefensePending {
		return nil, fmt.Errorf("%s: state %s: %w", op, m.state, ErrIllegalTransition)
	}
	if _, ok := m.lineup[name]; !ok {
		return nil, fmt.Errorf("%s: %s: %w", op, name, ErrUnknownPlayer)
	}
	e, err := m.log.Append(model.Event{
		Type:   model.EventBlock,
		Player: name,
		Phase:  model.PhaseDefense,
		TS:     m.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	m.phase = model.PhaseOffense
	m.pending = nil
	m.state = StateAwaitingPointStart
	return &e, nil
}

// DeclareOpponentScore ends the point with the opposing team scoring.
func (m *Machine) DeclareOpponentScore() (*model.Event, error) {
	const op = "possession.declare_opponent_score"

	if m.state != StateDefensePending {
		return nil, fmt.Errorf("%s: state %s: %w", op, m.state, ErrIllegalTransition)
	}
	e, err := m.log.Append(model.Event{
		Type:   model.EventOpponentScore,
		Player: model.Opponent,
		Phase:  model.PhaseDefense,
		TS:     m.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	m.closePoint()
	return &e, nil
}

// CorrectPlayer reattributes a past event to another lineup player. When
// the corrected event is the open point's tail and grants possession, the
// live possessor changes and the hold clock restarts for them.
func (m *Machine) CorrectPlayer(seq int, name string) (eventlog.Correction, error) {
	const op = "possession.correct_player"

	if _, ok := m.lineup[name]; !ok {
		return eventlog.Correction{}, fmt.Errorf("%s: %s: %w", op, name, ErrUnknownPlayer)
	}
	c, err := m.log.CorrectPlayer(seq, name)
	if err != nil {
		return eventlog.Correction{}, fmt.Errorf("%s: %w", op, err)
	}
	grantsPossession := c.Event.Type == model.EventPickup || c.Event.Type == model.EventCompletion
	if c.WasLast && grantsPossession && m.state != StatePointClosed {
		m.possessor = name
		m.acquiredAt = m.now()
	}
	return c, nil
}

// ResetPoint clears the log and the live possession state for the next
// point. The lineup persists; phase returns to offense.
func (m *Machine) ResetPoint() {
	m.log.Clear()
	m.possessor = ""
	m.possessorAt = model.Coordinate{}
	m.pending = nil
	m.acquiredAt = time.Time{}
	m.phase = model.PhaseOffense
	if m.lineup == nil {
		m.state = StateAwaitingLineup
	} else {
		m.state = StateAwaitingPointStart
	}
}

// ResetMatch clears everything including the lineup, back to a cold start.
func (m *Machine) ResetMatch() {
	m.lineup = nil
	m.ResetPoint()
}

func (m *Machine) closePoint() {
	m.possessor = ""
	m.possessorAt = model.Coordinate{}
	m.pending = nil
	m.acquiredAt = time.Time{}
	m.state = StatePointClosed
}
