package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanbit-app/srs-api/internal/domain"
	"github.com/hanbit-app/srs-api/internal/mocks"
	"github.com/hanbit-app/srs-api/internal/service"
	"github.com/hanbit-app/srs-api/internal/service/streak"
)

func TestGetStats(t *testing.T) {
	t.Parallel()

	logs := mocks.NewReviewLogStore()
	streaks := mocks.NewStreakStore()
	tracker, err := streak.NewTracker(streaks, 2, time.UTC, nil)
	require.NoError(t, err)

	svc, err := service.NewStatsService(logs, tracker, time.UTC, nil)
	require.NoError(t, err)

	userID := uuid.New()
	now := time.Date(2026, 8, 2, 15, 0, 0, 0, time.UTC)
	cardID := uuid.New()

	correct := true
	incorrect := false

	// Two reviews yesterday, one correct.
	yesterday := now.AddDate(0, 0, -1)
	for _, res := range []domain.ReviewResult{
		{Correct: &correct, ResponseTimeMs: 800, StudyTimeMs: 3000},
		{Correct: &incorrect, ResponseTimeMs: 1200, StudyTimeMs: 5000},
	} {
		entry, err := domain.NewReviewLog(userID, cardID, res, 0, 1, yesterday)
		require.NoError(t, err)
		require.NoError(t, logs.Create(context.Background(), entry))
	}

	// One correct review today.
	entry, err := domain.NewReviewLog(
		userID, cardID,
		domain.ReviewResult{Correct: &correct, ResponseTimeMs: 1000, StudyTimeMs: 2000},
		1, 2, now,
	)
	require.NoError(t, err)
	require.NoError(t, logs.Create(context.Background(), entry))

	streaks.Seed(&domain.StreakState{
		UserID:         userID,
		CurrentStreak:  3,
		RequiredDaily:  2,
		DailyQuizCount: 2,
		LastQuizDate:   "2026-08-02",
		UpdatedAt:      now,
	})

	stats, err := svc.GetStats(context.Background(), userID, now)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalReviews)
	assert.Equal(t, int64(2), stats.CorrectReviews)
	assert.InDelta(t, 2.0/3.0, stats.Accuracy, 1e-9)
	assert.Equal(t, int64(10000), stats.TotalStudyTimeMs)
	assert.InDelta(t, 1000.0, stats.AvgResponseMs, 1e-9)
	assert.Equal(t, int64(1), stats.ReviewsToday)
	assert.Equal(t, 3, stats.CurrentStreak)
}

func TestGetStatsEmptyHistory(t *testing.T) {
	t.Parallel()

	logs := mocks.NewReviewLogStore()
	streaks := mocks.NewStreakStore()
	tracker, err := streak.NewTracker(streaks, 1, time.UTC, nil)
	require.NoError(t, err)

	svc, err := service.NewStatsService(logs, tracker, time.UTC, nil)
	require.NoError(t, err)

	stats, err := svc.GetStats(context.Background(), uuid.New(), time.Now())
	require.NoError(t, err)

	assert.Zero(t, stats.TotalReviews)
	assert.Zero(t, stats.Accuracy)
	assert.Zero(t, stats.ReviewsToday)
	assert.Zero(t, stats.CurrentStreak)
}
