// Package model contains domain models passed between layers.
package model

import "time"

// Opponent is the synthetic thrower used when the disc arrives from the
// other team (pickups, dropped pulls). It is never a roster member.
const Opponent = "Opponent"

// Phase tells whether the tracked team holds the disc or is defending.
type Phase string

// Phase values.
const (
	PhaseOffense Phase = "offense"
	PhaseDefense Phase = "defense"
)

// EventType discriminates the event union.
type EventType string

// Event types.
const (
	EventPickup           EventType = "pickup"
	EventCompletion       EventType = "completion"
	EventScore            EventType = "score"
	EventTurnover         EventType = "turnover"
	EventBlock            EventType = "block"
	EventOpponentTurnover EventType = "opponent_turnover"
	EventOpponentScore    EventType = "opponent_score"
)

// TurnoverKind sub-types a turnover. The zero value marks a dropped pull
// before any possession.
type TurnoverKind string

// Turnover kinds.
const (
	TurnoverNone         TurnoverKind = ""
	TurnoverThrowError   TurnoverKind = "throw-error"
	TurnoverReceiveError TurnoverKind = "receive-error"
)

// Terminal reports whether t ends a point.
func (t EventType) Terminal() bool {
	return t == EventScore || t == EventOpponentScore
}

// Catch reports whether t is a reception by a roster player.
func (t EventType) Catch() bool {
	return t == EventCompletion || t == EventScore
}

// Player is a roster member. Immutable after roster load.
type Player struct {
	ID          string `json:"id" koanf:"id"`
	Name        string `json:"name" koanf:"name"`
	Jersey      int    `json:"jersey" koanf:"jersey"`
	GenderMatch string `json:"gender_match" koanf:"gender_match"` // cosmetic, irrelevant to core logic
}

// Coordinate is a field-relative position in width x length units (yards,
// not meters; conversion happens only in distance computations).
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Event is one immutable entry of the point's event log.
//
// Player is the primary actor: the receiver for catches, the blamed player
// for turnovers, the defender for blocks. Thrower is set for catches and
// receive-error turnovers; it is Opponent for pickups and dropped pulls.
type Event struct {
	Seq              int          `json:"seq"`
	Type             EventType    `json:"type"`
	Player           string       `json:"player"`
	Thrower          string       `json:"thrower,omitempty"`
	IntendedReceiver string       `json:"intended_receiver,omitempty"`
	TurnoverKind     TurnoverKind `json:"turnover_kind,omitempty"`
	Location         Coordinate   `json:"location"`
	PassIndex        int          `json:"pass_index"`
	DistanceM        float64      `json:"distance_m"`
	Phase            Phase        `json:"phase"`
	TS               time.Time    `json:"ts"`
}

// Point is an archived, completed event sub-sequence. StartHome and
// StartAway record the score before the point was played.
type Point struct {
	ID        string    `json:"id"`
	Events    []Event   `json:"events"`
	StartHome int       `json:"start_home"`
	StartAway int       `json:"start_away"`
	ClosedAt  time.Time `json:"closed_at"`
}

// MatchMeta describes the fixture: free-form labels kept for reports and
// sync collaborators, irrelevant to core logic.
type MatchMeta struct {
	Tournament string `json:"tournament,omitempty"`
	Opponent   string `json:"opponent,omitempty"`
	Weather    string `json:"weather,omitempty"`
}

// Snapshot is the serialized match state handed to sync collaborators.
// Delivery is fire-and-forget; the core never waits on it.
type Snapshot struct {
	ID         string    `json:"id"`
	TakenAt    time.Time `json:"taken_at"`
	Meta       MatchMeta `json:"meta"`
	HomeScore  int       `json:"home_score"`
	AwayScore  int       `json:"away_score"`
	Points     []Point   `json:"points"`
	OpenEvents []Event   `json:"open_events"`
	Ended      bool      `json:"ended"`
}
