// Package simulate drives a running tracker through a scripted match over
// its HTTP API and renders the resulting statistics. It exists to exercise
// the full command surface end to end against a live instance.
package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/okian/breakside/internal/domain/model"
	"github.com/okian/breakside/internal/domain/stats"
	"github.com/okian/breakside/internal/domain/types"
	"github.com/okian/breakside/pkg/logger"
)

// Config controls a simulation run.
type Config struct {
	BaseURL string
	Points  int
	Seed    int64
	Timeout time.Duration
}

// Run plays the scripted match and prints the final report to stdout.
func Run(ctx context.Context, cfg *Config) error {
	const op = "simulate.run"
	log := logger.Get().Named("simulate")
	rng := rand.New(rand.NewSource(cfg.Seed))
	client := NewClient(cfg.BaseURL, cfg.Timeout)

	var players []model.Player
	if err := client.get(ctx, "/players", &players); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(players) < 7 {
		return fmt.Errorf("%s: roster has %d players, need at least 7", op, len(players))
	}

	log.Info(ctx, "starting simulated match",
		logger.String("url", cfg.BaseURL),
		logger.Int("points", cfg.Points),
		logger.Int("roster", len(players)),
	)

	for i := 0; i < cfg.Points; i++ {
		if err := playPoint(ctx, client, rng, players); err != nil {
			return fmt.Errorf("%s: point %d: %w", op, i+1, err)
		}
		if err := client.post(ctx, "/point/next", nil); err != nil {
			return fmt.Errorf("%s: point %d: %w", op, i+1, err)
		}
	}

	var result stats.Result
	if err := client.get(ctx, "/stats?scope=match", &result); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	var score types.ScoreView
	if err := client.get(ctx, "/score", &score); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	fmt.Fprintf(os.Stdout, "\nFinal score: home %d - away %d\n\n", score.Home, score.Away)
	PrintPlayerTable(os.Stdout, result.Players)
	fmt.Fprintln(os.Stdout)
	PrintConnectionTable(os.Stdout, result.Connections)
	return nil
}

// playPoint runs one point: lineup, pickup, a string of passes, and a
// terminal event. A minority of points end in a turnover followed by a
// block and an eventual score, or in an opponent score.
func playPoint(ctx context.Context, client *Client, rng *rand.Rand, players []model.Player) error {
	line := lineup(rng, players, 7)
	names := make([]string, len(line))
	for i, p := range line {
		names[i] = p.Name
	}
	if err := client.post(ctx, "/lineup", map[string]any{"players": names}); err != nil {
		return err
	}

	// Pull lands mid-field, first handler picks up.
	x, y := 20.0, 40.0
	if err := client.post(ctx, "/location", map[string]float64{"x": x, "y": y}); err != nil {
		return err
	}
	holder := names[rng.Intn(len(names))]
	if err := client.post(ctx, "/player", map[string]string{"name": holder}); err != nil {
		return err
	}

	passes := 3 + rng.Intn(5)
	for i := 0; i < passes; i++ {
		x, y = advance(rng, x, y)
		if err := client.post(ctx, "/location", map[string]float64{"x": x, "y": y}); err != nil {
			return err
		}
		next := pickOther(rng, names, holder)

		// Roughly one point in five loses the disc once before scoring.
		if i == passes-1 && rng.Intn(5) == 0 {
			kind := "throw-error"
			if rng.Intn(2) == 0 {
				kind = "receive-error"
			}
			if err := client.post(ctx, "/turnover", map[string]string{"kind": kind, "player": next}); err != nil {
				return err
			}
			blocker := pickOther(rng, names, next)
			if err := client.post(ctx, "/block", map[string]string{"name": blocker}); err != nil {
				return err
			}
			// Restart the possession from the block spot.
			if err := client.post(ctx, "/location", map[string]float64{"x": x, "y": y}); err != nil {
				return err
			}
			if err := client.post(ctx, "/player", map[string]string{"name": blocker}); err != nil {
				return err
			}
			holder = blocker
			continue
		}

		if err := client.post(ctx, "/player", map[string]string{"name": next}); err != nil {
			return err
		}
		holder = next
	}

	// Throw into the endzone for the score.
	x = 10 + rng.Float64()*20
	if err := client.post(ctx, "/location", map[string]float64{"x": x, "y": 100}); err != nil {
		return err
	}
	scorer := pickOther(rng, names, holder)
	return client.post(ctx, "/player", map[string]string{"name": scorer})
}

// lineup draws n distinct players.
func lineup(rng *rand.Rand, players []model.Player, n int) []model.Player {
	idx := rng.Perm(len(players))
	out := make([]model.Player, 0, n)
	for _, i := range idx[:n] {
		out = append(out, players[i])
	}
	return out
}

// pickOther draws a name different from current.
func pickOther(rng *rand.Rand, names []string, current string) string {
	for {
		n := names[rng.Intn(len(names))]
		if n != current {
			return n
		}
	}
}

// advance moves the disc upfield with some lateral drift, staying inside
// the central playing area.
func advance(rng *rand.Rand, x, y float64) (float64, float64) {
	nx := x + (rng.Float64()-0.5)*16
	ny := y + 4 + rng.Float64()*10
	if nx < 2 {
		nx = 2
	}
	if nx > 38 {
		nx = 38
	}
	if ny > 88 {
		ny = 88
	}
	return nx, ny
}
