// Package types contains common read shapes shared between the service
// and its adapters.
package types

import (
	"github.com/okian/breakside/internal/domain/model"
	"github.com/okian/breakside/internal/domain/possession"
)

// ScoreView is the cumulative score read shape.
type ScoreView struct {
	Home  int  `json:"home"`
	Away  int  `json:"away"`
	Ended bool `json:"ended"`
}

// LiveUpdate is pushed to rendering collaborators after every accepted
// command. All fields are read-only snapshots.
type LiveUpdate struct {
	Possession possession.View `json:"possession"`
	Score      ScoreView       `json:"score"`
	Events     []model.Event   `json:"events"`
}
