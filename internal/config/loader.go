package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if BREAKSIDE_CONFIG is set
//  3. env (prefix BREAKSIDE_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("BREAKSIDE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: BREAKSIDE_ADDR, BREAKSIDE_ROSTER_PATH, ...
	// Map env keys like BREAKSIDE_LINEUP_SIZE -> lineup_size (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("BREAKSIDE_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "breakside_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LineupSize <= 0:
		return fmt.Errorf("%w: lineup_size must be positive", ErrInvalidConfig)
	case c.FieldLength <= 0 || c.FieldWidth <= 0 || c.EndzoneDepth <= 0:
		return fmt.Errorf("%w: field geometry must be positive", ErrInvalidConfig)
	case c.EndzoneDepth*2 >= c.FieldLength:
		return fmt.Errorf("%w: endzones cannot cover the whole field", ErrInvalidConfig)
	case c.SnapshotQueueSize <= 0:
		return fmt.Errorf("%w: snapshot_queue_size must be positive", ErrInvalidConfig)
	case c.PublisherCount <= 0:
		return fmt.Errorf("%w: publisher_count must be positive", ErrInvalidConfig)
	}
	return nil
}
