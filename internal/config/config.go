// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load() layers defaults, optional file, and env vars.
// - External errors must be wrapped via this package's sentinel errors.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RosterPath points at the YAML roster file.
	RosterPath string `koanf:"roster_path"`

	// Tournament, Opponent, and Weather label the fixture on snapshots.
	// Free-form and optional.
	Tournament string `koanf:"tournament"`
	Opponent   string `koanf:"opponent"`
	Weather    string `koanf:"weather"`

	// LineupSize sets how many players take the line each point.
	LineupSize int `koanf:"lineup_size"`

	// FieldLength, FieldWidth, EndzoneDepth describe field geometry in
	// field units (yards).
	FieldLength  float64 `koanf:"field_length"`
	FieldWidth   float64 `koanf:"field_width"`
	EndzoneDepth float64 `koanf:"endzone_depth"`

	// SnapshotQueueSize bounds the in-memory snapshot queue.
	SnapshotQueueSize int `koanf:"snapshot_queue_size"`

	// PublisherCount sets the number of snapshot publisher workers.
	PublisherCount int `koanf:"publisher_count"`

	// ArchivePath enables the SQLite snapshot archive when non-empty.
	ArchivePath string `koanf:"archive_path"`

	// RedisAddr enables the Redis live-snapshot sink when non-empty.
	RedisAddr string `koanf:"redis_addr"`

	// TickIntervalMS drives the point-clock display refresh.
	TickIntervalMS int `koanf:"tick_interval_ms"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		RosterPath:        "roster.yaml",
		LineupSize:        7,
		FieldLength:       110,
		FieldWidth:        40,
		EndzoneDepth:      20,
		SnapshotQueueSize: 1024,
		PublisherCount:    2,
		TickIntervalMS:    1000,
	}
}
