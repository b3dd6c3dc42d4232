package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/breakside/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	vars := []string{
		"BREAKSIDE_CONFIG",
		"BREAKSIDE_ADDR",
		"BREAKSIDE_LOG_LEVEL",
		"BREAKSIDE_ROSTER_PATH",
		"BREAKSIDE_LINEUP_SIZE",
		"BREAKSIDE_FIELD_LENGTH",
		"BREAKSIDE_FIELD_WIDTH",
		"BREAKSIDE_ENDZONE_DEPTH",
		"BREAKSIDE_SNAPSHOT_QUEUE_SIZE",
		"BREAKSIDE_PUBLISHER_COUNT",
		"BREAKSIDE_ARCHIVE_PATH",
		"BREAKSIDE_REDIS_ADDR",
		"BREAKSIDE_TICK_INTERVAL_MS",
	}
	for _, v := range vars {
		_ = os.Unsetenv(v)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.LineupSize, convey.ShouldEqual, 7)
				convey.So(cfg.FieldLength, convey.ShouldEqual, 110.0)
				convey.So(cfg.FieldWidth, convey.ShouldEqual, 40.0)
				convey.So(cfg.EndzoneDepth, convey.ShouldEqual, 20.0)
				convey.So(cfg.SnapshotQueueSize, convey.ShouldEqual, 1024)
				convey.So(cfg.PublisherCount, convey.ShouldEqual, 2)
				convey.So(cfg.TickIntervalMS, convey.ShouldEqual, 1000)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("BREAKSIDE_ADDR", ":8080")
			_ = os.Setenv("BREAKSIDE_LINEUP_SIZE", "5")
			_ = os.Setenv("BREAKSIDE_FIELD_LENGTH", "64")
			_ = os.Setenv("BREAKSIDE_ENDZONE_DEPTH", "6")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LineupSize, convey.ShouldEqual, 5)
				convey.So(cfg.FieldLength, convey.ShouldEqual, 64.0)
				convey.So(cfg.EndzoneDepth, convey.ShouldEqual, 6.0)
				convey.So(cfg.FieldWidth, convey.ShouldEqual, 40.0) // untouched default
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
lineup_size: 4
snapshot_queue_size: 256
redis_addr: "localhost:6379"
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("BREAKSIDE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should load from the YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LineupSize, convey.ShouldEqual, 4)
				convey.So(cfg.SnapshotQueueSize, convey.ShouldEqual, 256)
				convey.So(cfg.RedisAddr, convey.ShouldEqual, "localhost:6379")
			})
		})

		convey.Convey("When env vars override the YAML file", func() {
			tmpFile := createTempConfigFile(t, "addr: \":9090\"\n")
			_ = os.Setenv("BREAKSIDE_CONFIG", tmpFile)
			_ = os.Setenv("BREAKSIDE_ADDR", ":7070")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then the env var wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
			})
		})

		convey.Convey("When the config file is missing", func() {
			_ = os.Setenv("BREAKSIDE_CONFIG", "/nonexistent/config.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load()

			convey.Convey("Then loading fails with a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When validation fails", func() {
			convey.Convey("On a non-positive lineup size", func() {
				tmpFile := createTempConfigFile(t, "lineup_size: 0\n")
				_ = os.Setenv("BREAKSIDE_CONFIG", tmpFile)
				defer clearConfigEnvVars()

				_, err := config.Load()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})

			convey.Convey("On endzones covering the whole field", func() {
				tmpFile := createTempConfigFile(t, "field_length: 30\nendzone_depth: 15\n")
				_ = os.Setenv("BREAKSIDE_CONFIG", tmpFile)
				defer clearConfigEnvVars()

				_, err := config.Load()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
