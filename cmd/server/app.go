package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/hanbit-app/srs-api/internal/config"
	"github.com/hanbit-app/srs-api/internal/domain/srs"
	"github.com/hanbit-app/srs-api/internal/events"
	"github.com/hanbit-app/srs-api/internal/platform/postgres"
	"github.com/hanbit-app/srs-api/internal/service"
	"github.com/hanbit-app/srs-api/internal/service/streak"
	"github.com/hanbit-app/srs-api/internal/store"
)

// application holds the wired dependencies for one server process.
type application struct {
	config *config.Config
	db     *sql.DB
	logger *slog.Logger

	schedulerService service.SchedulerService
	folderService    service.FolderService
	statsService     service.StatsService
	streakTracker    *streak.Tracker
}

// newApplication builds the dependency graph from the bottom up:
// stores, then domain policies, then services.
func newApplication(cfg *config.Config, db *sql.DB, logger *slog.Logger) (*application, error) {
	cardStore := postgres.NewPostgresCardStore(db, logger)
	folderStore := postgres.NewPostgresFolderStore(db, logger)
	vocabStore := postgres.NewPostgresVocabStore(db, logger)
	streakStore := postgres.NewPostgresStreakStore(db, logger)
	reviewLogStore := postgres.NewPostgresReviewLogStore(db, logger)

	transactor := store.NewSQLTransactor(db, logger)
	emitter := events.NewInMemoryEventEmitter(logger)

	policies := srs.NewSet(srs.NewParams(srs.Config{
		MinEaseFactor:      cfg.Scheduler.MinEaseFactor,
		MaxEaseFactor:      cfg.Scheduler.MaxEaseFactor,
		MinIntervalSeconds: cfg.Scheduler.MinIntervalSeconds,
		Lapse:              srs.LapsePolicy(cfg.Scheduler.LapsePolicy),
	}))

	tz, err := time.LoadLocation(cfg.Streak.Timezone)
	if err != nil {
		logger.Warn("invalid streak timezone, falling back to UTC",
			slog.String("timezone", cfg.Streak.Timezone))
		tz = time.UTC
	}

	tracker, err := streak.NewTracker(streakStore, cfg.Streak.RequiredDaily, tz, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create streak tracker: %w", err)
	}
	if len(cfg.Streak.BonusTiers) > 0 {
		tiers := make([]streak.BonusTier, len(cfg.Streak.BonusTiers))
		for i, t := range cfg.Streak.BonusTiers {
			tiers[i] = streak.BonusTier{Threshold: t.Threshold, Badge: t.Badge}
		}
		tracker = tracker.WithBonusTiers(tiers)
	}

	schedulerService, err := service.NewSchedulerService(
		cardStore, vocabStore, folderStore, reviewLogStore, streakStore,
		policies, tracker, transactor, emitter, logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler service: %w", err)
	}

	folderService, err := service.NewFolderService(
		folderStore, cardStore, vocabStore, transactor, emitter, logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create folder service: %w", err)
	}

	statsService, err := service.NewStatsService(reviewLogStore, tracker, tz, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create stats service: %w", err)
	}

	return &application{
		config:           cfg,
		db:               db,
		logger:           logger,
		schedulerService: schedulerService,
		folderService:    folderService,
		statsService:     statsService,
		streakTracker:    tracker,
	}, nil
}

// cleanup releases resources held by the application during shutdown.
func (app *application) cleanup() {
	app.logger.Info("application cleanup complete")
}
