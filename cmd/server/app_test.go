package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanbit-app/srs-api/internal/api/middleware"
	"github.com/hanbit-app/srs-api/internal/config"
	"github.com/hanbit-app/srs-api/internal/domain/srs"
	"github.com/hanbit-app/srs-api/internal/mocks"
	"github.com/hanbit-app/srs-api/internal/service"
	"github.com/hanbit-app/srs-api/internal/service/streak"
)

// newTestApplication wires the application against in-memory stores so
// routing and middleware can be exercised without a database.
func newTestApplication(t *testing.T) *application {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	streaks := mocks.NewStreakStore()

	tracker, err := streak.NewTracker(streaks, 1, time.UTC, logger)
	require.NoError(t, err)

	schedulerService, err := service.NewSchedulerService(
		mocks.NewCardStore(), mocks.NewVocabStore(), mocks.NewFolderStore(),
		mocks.NewReviewLogStore(), streaks,
		srs.NewDefaultSet(), tracker, &mocks.Transactor{}, &mocks.EventEmitter{}, logger,
	)
	require.NoError(t, err)

	folderService, err := service.NewFolderService(
		mocks.NewFolderStore(), mocks.NewCardStore(), mocks.NewVocabStore(),
		&mocks.Transactor{}, &mocks.EventEmitter{}, logger,
	)
	require.NoError(t, err)

	statsService, err := service.NewStatsService(mocks.NewReviewLogStore(), tracker, time.UTC, logger)
	require.NoError(t, err)

	return &application{
		config: &config.Config{
			Server:    config.ServerConfig{Port: 8080, LogLevel: "info"},
			Scheduler: config.SchedulerConfig{DueLimit: 50},
		},
		logger:           logger,
		schedulerService: schedulerService,
		folderService:    folderService,
		statsService:     statsService,
		streakTracker:    tracker,
	}
}

func TestRouterHealthEndpoint(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)
	router := app.setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRouterRequiresIdentityHeader(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)
	router := app.setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/reviews/due", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouterServesDueReviewsForIdentifiedUser(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)
	router := app.setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/reviews/due", nil)
	req.Header.Set(middleware.UserIDHeader, uuid.New().String())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestRouterUnknownRoute(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)
	router := app.setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	req.Header.Set(middleware.UserIDHeader, uuid.New().String())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
