package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/breakside/internal/simulate"
	"github.com/okian/breakside/pkg/logger"
)

// Default configuration constants.
const (
	defaultPoints     = 9
	defaultTimeout    = 10 * time.Second
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the tracker service")
		points  = flag.Int("points", defaultPoints, "Number of points to play")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "Random seed for the scripted match")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &simulate.Config{
		BaseURL: *baseURL,
		Points:  *points,
		Seed:    *seed,
		Timeout: *timeout,
	}
	if err := simulate.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
