package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hanbit-app/srs-api/internal/api/shared"
	"github.com/hanbit-app/srs-api/internal/service"
	"github.com/hanbit-app/srs-api/internal/service/streak"
)

// StatsHandler handles stats and streak HTTP requests
type StatsHandler struct {
	stats   service.StatsService
	tracker *streak.Tracker
	logger  *slog.Logger
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(
	stats service.StatsService,
	tracker *streak.Tracker,
	log *slog.Logger,
) *StatsHandler {
	if stats == nil || tracker == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("stats service and streak tracker cannot be nil for StatsHandler")
	}
	if log == nil {
		log = slog.Default()
	}

	return &StatsHandler{
		stats:   stats,
		tracker: tracker,
		logger:  log.With(slog.String("component", "stats_handler")),
	}
}

// GetStats handles GET /stats requests
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	stats, err := h.stats.GetStats(r.Context(), userID, time.Now().UTC())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// GetStreak handles GET /streak requests
func (h *StatsHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	state, err := h.tracker.Current(r.Context(), userID, time.Now().UTC())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, streakToResponse(state, h.tracker.TierFor(state.CurrentStreak)))
}
