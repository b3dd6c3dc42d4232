// Package stats derives per-player counters and thrower→receiver
// connection tables from an event list plus recorded hold-time samples.
// Compute is a pure projection: it holds no state, performs no I/O, and
// always yields identical output for identical input.
package stats

import (
	"math"
	"sort"

	"github.com/okian/breakside/internal/domain/model"
)

// PlayerStats holds the derived counters for one player.
type PlayerStats struct {
	Name           string  `json:"name"`
	Passes         int     `json:"passes"`
	Receptions     int     `json:"receptions"`
	Assists        int     `json:"assists"`
	Goals          int     `json:"goals"`
	Turnovers      int     `json:"turnovers"`
	ThrowErrors    int     `json:"throw_errors"`
	ReceiveErrors  int     `json:"receive_errors"`
	Blocks         int     `json:"blocks"`
	MetersGained   float64 `json:"meters_gained"`
	MetersPerTouch float64 `json:"meters_per_touch"`
	MetersLost     float64 `json:"meters_lost"`
	HoldTotalSec   float64 `json:"hold_total_sec"`
	HoldAvgSec     float64 `json:"hold_avg_sec"`
	HoldSamples    int     `json:"hold_samples"`
}

// Connection aggregates an ordered thrower→receiver pair.
type Connection struct {
	Thrower     string `json:"thrower"`
	Receiver    string `json:"receiver"`
	Completions int    `json:"completions"`
	Drops       int    `json:"drops"`
	ThrowErrors int    `json:"throw_errors"`
}

// Interactions returns the pair's total interaction count used for
// ordering.
func (c Connection) Interactions() int {
	return c.Completions + c.Drops + c.ThrowErrors
}

// Result bundles both derived views.
type Result struct {
	Players     []PlayerStats `json:"players"`
	Connections []Connection  `json:"connections"`
}

// Compute derives statistics from events and holds. Callable identically
// over a single point's events or a whole match's concatenation.
func Compute(events []model.Event, holds map[string][]float64) Result {
	players := make(map[string]*PlayerStats)
	get := func(name string) *PlayerStats {
		if name == "" || name == model.Opponent {
			return nil
		}
		p, ok := players[name]
		if !ok {
			p = &PlayerStats{Name: name}
			players[name] = p
		}
		return p
	}

	type pairKey struct{ thrower, receiver string }
	pairs := make(map[pairKey]*Connection)
	pair := func(thrower, receiver string) *Connection {
		if thrower == "" || receiver == "" || thrower == model.Opponent {
			return nil
		}
		k := pairKey{thrower, receiver}
		c, ok := pairs[k]
		if !ok {
			c = &Connection{Thrower: thrower, Receiver: receiver}
			pairs[k] = c
		}
		return c
	}

	for i := range events {
		e := &events[i]
		switch e.Type {
		case model.EventCompletion, model.EventScore:
			if t := get(e.Thrower); t != nil {
				t.Passes++
				t.MetersGained += e.DistanceM
				if e.Type == model.EventScore {
					t.Assists++
				}
			}
			if r := get(e.Player); r != nil {
				r.Receptions++
				r.MetersGained += e.DistanceM
				if e.Type == model.EventScore {
					r.Goals++
				}
			}
			if c := pair(e.Thrower, e.Player); c != nil {
				c.Completions++
			}

		case model.EventTurnover:
			switch e.TurnoverKind {
			case model.TurnoverThrowError:
				if t := get(e.Player); t != nil {
					t.Turnovers++
					t.ThrowErrors++
					t.MetersLost += e.DistanceM
				}
				if c := pair(e.Player, e.IntendedReceiver); c != nil {
					c.ThrowErrors++
				}
			case model.TurnoverReceiveError:
				if r := get(e.Player); r != nil {
					r.Turnovers++
					r.ReceiveErrors++
				}
				if t := get(e.Thrower); t != nil {
					t.MetersLost += e.DistanceM
				}
				if c := pair(e.Thrower, e.Player); c != nil {
					c.Drops++
				}
			}

		case model.EventBlock:
			if p := get(e.Player); p != nil {
				p.Blocks++
			}
		}
	}

	for name, samples := range holds {
		p := get(name)
		if p == nil || len(samples) == 0 {
			continue
		}
		total := 0.0
		for _, s := range samples {
			total += s
		}
		p.HoldTotalSec = round1(total)
		p.HoldAvgSec = round1(total / float64(len(samples)))
		p.HoldSamples = len(samples)
	}

	out := Result{}
	for _, p := range players {
		if touches := p.Passes + p.Receptions; touches > 0 {
			p.MetersPerTouch = round1(p.MetersGained / float64(touches))
		}
		p.MetersGained = round1(p.MetersGained)
		p.MetersLost = round1(p.MetersLost)
		out.Players = append(out.Players, *p)
	}
	sort.Slice(out.Players, func(i, j int) bool {
		a, b := out.Players[i], out.Players[j]
		if sa, sb := a.Goals+a.Assists, b.Goals+b.Assists; sa != sb {
			return sa > sb
		}
		return a.Name < b.Name
	})

	for _, c := range pairs {
		out.Connections = append(out.Connections, *c)
	}
	sort.Slice(out.Connections, func(i, j int) bool {
		a, b := out.Connections[i], out.Connections[j]
		if ia, ib := a.Interactions(), b.Interactions(); ia != ib {
			return ia > ib
		}
		if a.Thrower != b.Thrower {
			return a.Thrower < b.Thrower
		}
		return a.Receiver < b.Receiver
	})
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
