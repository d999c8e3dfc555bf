package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hanbit-app/srs-api/internal/service/streak"
	"github.com/hanbit-app/srs-api/internal/store"
)

// UserStats is the aggregate study snapshot served by the stats endpoint.
type UserStats struct {
	TotalReviews     int64             `json:"total_reviews"`
	CorrectReviews   int64             `json:"correct_reviews"`
	Accuracy         float64           `json:"accuracy"`
	TotalStudyTimeMs int64             `json:"total_study_time_ms"`
	AvgResponseMs    float64           `json:"avg_response_ms"`
	ReviewsToday     int64             `json:"reviews_today"`
	CurrentStreak    int               `json:"current_streak"`
	BonusTier        *streak.BonusTier `json:"bonus_tier,omitempty"`
}

// StatsService aggregates review history and streak state for reporting.
type StatsService interface {
	// GetStats returns the user's lifetime and same-day review aggregates.
	GetStats(ctx context.Context, userID uuid.UUID, now time.Time) (*UserStats, error)
}

// statsServiceImpl implements the StatsService interface.
type statsServiceImpl struct {
	reviewLogs store.ReviewLogStore
	tracker    *streak.Tracker
	tz         *time.Location
	logger     *slog.Logger
}

// NewStatsService creates a new StatsService. tz is the reference
// timezone for "today"; if nil, UTC is used.
func NewStatsService(
	reviewLogs store.ReviewLogStore,
	tracker *streak.Tracker,
	tz *time.Location,
	log *slog.Logger,
) (StatsService, error) {
	switch {
	case reviewLogs == nil:
		return nil, NewServiceError("new_stats_service", "review log store cannot be nil", nil)
	case tracker == nil:
		return nil, NewServiceError("new_stats_service", "streak tracker cannot be nil", nil)
	}

	if tz == nil {
		tz = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}

	return &statsServiceImpl{
		reviewLogs: reviewLogs,
		tracker:    tracker,
		tz:         tz,
		logger:     log.With(slog.String("component", "stats_service")),
	}, nil
}

// GetStats implements StatsService.GetStats
func (s *statsServiceImpl) GetStats(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) (*UserStats, error) {
	reviewStats, err := s.reviewLogs.StatsByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("get_stats", "failed to aggregate review history", err)
	}

	today, err := s.reviewLogs.CountByUserSince(ctx, userID, streak.DayStart(now, s.tz))
	if err != nil {
		return nil, NewServiceError("get_stats", "failed to count today's reviews", err)
	}

	state, err := s.tracker.Current(ctx, userID, now)
	if err != nil {
		return nil, NewServiceError("get_stats", "failed to load streak state", err)
	}

	return &UserStats{
		TotalReviews:     reviewStats.TotalReviews,
		CorrectReviews:   reviewStats.CorrectReviews,
		Accuracy:         reviewStats.Accuracy(),
		TotalStudyTimeMs: reviewStats.TotalStudyTimeMs,
		AvgResponseMs:    reviewStats.AvgResponseMs,
		ReviewsToday:     today,
		CurrentStreak:    state.CurrentStreak,
		BonusTier:        s.tracker.TierFor(state.CurrentStreak),
	}, nil
}
