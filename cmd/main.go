package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/breakside/internal/adapters/cache"
	"github.com/okian/breakside/internal/adapters/http/api"
	"github.com/okian/breakside/internal/adapters/mq/worker"
	"github.com/okian/breakside/internal/adapters/repository"
	"github.com/okian/breakside/internal/adapters/ws"
	app "github.com/okian/breakside/internal/app"
	"github.com/okian/breakside/internal/config"
	"github.com/okian/breakside/internal/domain/field"
	"github.com/okian/breakside/internal/domain/model"
	"github.com/okian/breakside/internal/domain/roster"
	"github.com/okian/breakside/pkg/logger"
	"github.com/okian/breakside/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	team, err := roster.Load(cfg.RosterPath)
	if err != nil {
		log.Error(ctx, "failed to load roster", logger.String("path", cfg.RosterPath), logger.Error(err))
		return
	}

	// Snapshot sinks: optional SQLite archive, optional Redis live cache.
	var sinks []worker.Sink
	if cfg.ArchivePath != "" {
		store, err := repository.OpenSQLite(cfg.ArchivePath)
		if err != nil {
			log.Error(ctx, "failed to open archive", logger.String("path", cfg.ArchivePath), logger.Error(err))
			return
		}
		defer func() { _ = store.Close() }()
		sinks = append(sinks, repository.NewArchiveSink(store))
	}
	if cfg.RedisAddr != "" {
		writer := cache.NewWriter(cfg.RedisAddr)
		defer func() { _ = writer.Close() }()
		sinks = append(sinks, writer)
	}

	// Live update hub for websocket clients.
	hub := ws.NewHub()
	go hub.Run(ctx)

	svc := app.New(team,
		app.WithLogger(log),
		app.WithField(field.New(
			field.WithLength(cfg.FieldLength),
			field.WithWidth(cfg.FieldWidth),
			field.WithEndzoneDepth(cfg.EndzoneDepth),
		)),
		app.WithLineupSize(cfg.LineupSize),
		app.WithMatchMeta(model.MatchMeta{
			Tournament: cfg.Tournament,
			Opponent:   cfg.Opponent,
			Weather:    cfg.Weather,
		}),
		app.WithSnapshotQueueSize(cfg.SnapshotQueueSize),
		app.WithPublisherCount(cfg.PublisherCount),
		app.WithSinks(sinks...),
		app.WithBroadcaster(hub),
		app.WithTickInterval(time.Duration(cfg.TickIntervalMS)*time.Millisecond),
	)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc)
	apiServer.Register(ctx, mux)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/live", hub.HandleLive)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}
