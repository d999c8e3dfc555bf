// Package main implements the entry point for the SRS API server,
// which schedules spaced-repetition reviews for Korean vocabulary
// learners and tracks their daily study streaks.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/hanbit-app/srs-api/internal/config"
	"github.com/hanbit-app/srs-api/internal/platform/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate", false, "apply pending migrations and exit")
	flag.Parse()

	// A local .env is a development convenience; production injects the
	// environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server.LogLevel)
	if err != nil {
		log.Fatalf("failed to set up logger: %v", err)
	}

	appLogger.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("lapse_policy", cfg.Scheduler.LapsePolicy),
		slog.String("streak_timezone", cfg.Streak.Timezone))

	if err := run(cfg, appLogger, *migrateOnly); err != nil {
		appLogger.Error("server exited with error", slog.String("error", err.Error()))
		log.Fatalf("server exited: %v", err)
	}
}

// run wires the application together and blocks until shutdown.
func run(cfg *config.Config, appLogger *slog.Logger, migrateOnly bool) error {
	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("database setup failed: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	if err := runMigrations(db, appLogger); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}
	if migrateOnly {
		appLogger.Info("migrations applied, exiting")
		return nil
	}

	app, err := newApplication(cfg, db, appLogger)
	if err != nil {
		return fmt.Errorf("application setup failed: %w", err)
	}

	return app.startHTTPServer(context.Background(), app.setupRouter())
}
