package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hanbit-app/srs-api/internal/api/shared"
	"github.com/hanbit-app/srs-api/internal/domain"
	"github.com/hanbit-app/srs-api/internal/platform/logger"
	"github.com/hanbit-app/srs-api/internal/redact"
	"github.com/hanbit-app/srs-api/internal/service"
)

// defaultDueLimit caps a due-set response when no limit is configured.
const defaultDueLimit = 50

// SchedulerHandler handles review-loop HTTP requests
type SchedulerHandler struct {
	scheduler service.SchedulerService
	dueLimit  int
	logger    *slog.Logger
}

// NewSchedulerHandler creates a new SchedulerHandler. dueLimit is the
// configured ceiling on one due-set response; zero falls back to the
// built-in default.
func NewSchedulerHandler(scheduler service.SchedulerService, dueLimit int, log *slog.Logger) *SchedulerHandler {
	if scheduler == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("scheduler service cannot be nil for SchedulerHandler")
	}
	if dueLimit <= 0 {
		dueLimit = defaultDueLimit
	}
	if log == nil {
		log = slog.Default()
	}

	return &SchedulerHandler{
		scheduler: scheduler,
		dueLimit:  dueLimit,
		logger:    log.With(slog.String("component", "scheduler_handler")),
	}
}

// SubmitReviewRequest represents the request body for submitting a review
type SubmitReviewRequest struct {
	Quality        *int  `json:"quality,omitempty" validate:"omitempty,min=0,max=5"`
	Correct        *bool `json:"correct,omitempty"`
	ResponseTimeMs int64 `json:"response_time_ms" validate:"min=0"`
	StudyTimeMs    int64 `json:"study_time_ms" validate:"min=0"`
}

// GetDueReviews handles GET /reviews/due requests
// It returns the authenticated user's cards due now, most overdue first.
func (h *SchedulerHandler) GetDueReviews(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	limit := h.dueLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		// The configured ceiling wins over a larger client ask.
		if parsed > h.dueLimit {
			parsed = h.dueLimit
		}
		limit = parsed
	}

	reviews, err := h.scheduler.GetDueReviews(r.Context(), userID, time.Now().UTC(), limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := make([]DueReviewResponse, len(reviews))
	for i, review := range reviews {
		response[i] = DueReviewResponse{
			Card:  cardToResponse(review.Card),
			Vocab: vocabToResponse(review.Vocab),
		}
	}

	log.Debug("due reviews served",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(response)))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// SubmitReview handles POST /cards/{id}/review requests
// It applies a review result to the card and returns the updated schedule.
func (h *SchedulerHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID format")
		return
	}

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req SubmitReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("card_id", cardID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	result := domain.ReviewResult{
		Quality:        req.Quality,
		Correct:        req.Correct,
		ResponseTimeMs: req.ResponseTimeMs,
		StudyTimeMs:    req.StudyTimeMs,
	}

	outcome, err := h.scheduler.SubmitReview(r.Context(), userID, cardID, result, time.Now().UTC())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := ReviewOutcomeResponse{
		Card:            cardToResponse(outcome.Card),
		Streak:          streakToResponse(outcome.Streak, outcome.BonusTier),
		StreakExtended:  outcome.StreakExtended,
		TierUnlocked:    outcome.TierUnlocked,
		CardMastered:    outcome.CardMastered,
		FolderCompleted: outcome.FolderCompleted,
	}

	log.Debug("review processed",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("stage", outcome.Card.Stage))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}
