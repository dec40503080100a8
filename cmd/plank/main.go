package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	v1 "github.com/plankhq/plank/internal/api/v1"
	"github.com/plankhq/plank/internal/auth"
	"github.com/plankhq/plank/internal/collection"
	"github.com/plankhq/plank/internal/config"
	"github.com/plankhq/plank/internal/room"
	"github.com/plankhq/plank/internal/server"
	"github.com/plankhq/plank/internal/store/memory"
	"github.com/plankhq/plank/internal/store/postgres"
	redisstore "github.com/plankhq/plank/internal/store/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("PLANK_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("PLANK_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Pick the data store: PostgreSQL when configured, in-memory otherwise.
	var store v1.DataStore
	if cfg.Database.Host != "" {
		if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
			return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
		}

		pg, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
		if err != nil {
			return err
		}
		defer pg.Close()
		store = pg
	} else {
		log.Warn().Msg("PLANK_DB_HOST not set; using in-memory store, data is lost on restart")
		store = memory.New()
	}

	// Pick the event bus: Redis when configured, in-process otherwise.
	var bus room.Bus
	if cfg.Redis.Addr != "" {
		pubsub, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer pubsub.Close()
		bus = pubsub
	} else {
		log.Warn().Msg("PLANK_REDIS_ADDR not set; using in-process event bus, events do not cross nodes")
		bus = room.NewLocalBus()
	}

	registry := room.NewRegistry(bus)
	defer registry.Close()

	authSvc := auth.NewService(store.Users(), cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	access := auth.NewAccess(store.Boards(), store.Containers())
	mutator := collection.NewService(store.Cards(), store.Lists(), store.Containers(), access, registry)

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create HTTP server with all routes wired.
	srv := server.New(cfg, store, mutator, authSvc, access, registry)

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
