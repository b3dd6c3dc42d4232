// Package roster loads and validates the team roster. Players are defined
// once at load time and immutable afterwards.
package roster

import (
	"errors"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/breakside/internal/domain/model"
)

// Sentinel errors for roster validation.
var (
	ErrInvalidPlayer  = errors.New("invalid player")
	ErrDuplicate      = errors.New("duplicate roster entry")
	ErrPlayerNotFound = errors.New("player not found")
)

// Roster is the validated player list.
type Roster struct {
	players []model.Player
	byName  map[string]model.Player
}

// New validates players and builds a Roster. Names must be non-empty and
// unique, jersey numbers unique, and nobody may shadow the synthetic
// Opponent sentinel.
func New(players []model.Player) (*Roster, error) {
	const op = "roster.new"

	byName := make(map[string]model.Player, len(players))
	jerseys := make(map[int]string, len(players))
	for _, p := range players {
		if p.Name == "" {
			return nil, fmt.Errorf("%s: empty name (id %q): %w", op, p.ID, ErrInvalidPlayer)
		}
		if p.Name == model.Opponent {
			return nil, fmt.Errorf("%s: %q is reserved: %w", op, p.Name, ErrInvalidPlayer)
		}
		if _, dup := byName[p.Name]; dup {
			return nil, fmt.Errorf("%s: name %q: %w", op, p.Name, ErrDuplicate)
		}
		if holder, dup := jerseys[p.Jersey]; dup {
			return nil, fmt.Errorf("%s: jersey %d worn by %q and %q: %w",
				op, p.Jersey, holder, p.Name, ErrDuplicate)
		}
		byName[p.Name] = p
		jerseys[p.Jersey] = p.Name
	}
	return &Roster{players: players, byName: byName}, nil
}

// Load reads a YAML roster file of the shape:
//
//	players:
//	  - id: p1
//	    name: Ada
//	    jersey: 7
//	    gender_match: fmp
func Load(path string) (*Roster, error) {
	const op = "roster.load"

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var out struct {
		Players []model.Player `koanf:"players"`
	}
	if err := k.UnmarshalWithConf("", &out, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	r, err := New(out.Players)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

// Players returns a copy of the roster in file order.
func (r *Roster) Players() []model.Player {
	out := make([]model.Player, len(r.players))
	copy(out, r.players)
	return out
}

// Lookup finds a player by display name.
func (r *Roster) Lookup(name string) (model.Player, error) {
	p, ok := r.byName[name]
	if !ok {
		return model.Player{}, fmt.Errorf("roster.lookup: %q: %w", name, ErrPlayerNotFound)
	}
	return p, nil
}

// Len returns the roster size.
func (r *Roster) Len() int { return len(r.players) }
