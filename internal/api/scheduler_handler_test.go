package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanbit-app/srs-api/internal/api"
	"github.com/hanbit-app/srs-api/internal/domain"
	"github.com/hanbit-app/srs-api/internal/domain/srs"
	"github.com/hanbit-app/srs-api/internal/mocks"
	"github.com/hanbit-app/srs-api/internal/service"
	"github.com/hanbit-app/srs-api/internal/service/streak"
)

type schedulerHandlerFixture struct {
	handler *api.SchedulerHandler
	cards   *mocks.CardStore
	vocab   *mocks.VocabStore
	folders *mocks.FolderStore
	logs    *mocks.ReviewLogStore
	streaks *mocks.StreakStore
	emitter *mocks.EventEmitter
	userID  uuid.UUID
}

func newSchedulerHandlerFixture(t *testing.T) *schedulerHandlerFixture {
	t.Helper()

	f := &schedulerHandlerFixture{
		cards:   mocks.NewCardStore(),
		vocab:   mocks.NewVocabStore(),
		folders: mocks.NewFolderStore(),
		logs:    mocks.NewReviewLogStore(),
		streaks: mocks.NewStreakStore(),
		emitter: &mocks.EventEmitter{},
		userID:  uuid.New(),
	}
	f.cards.Folders = f.folders

	tracker, err := streak.NewTracker(f.streaks, 1, time.UTC, nil)
	require.NoError(t, err)

	svc, err := service.NewSchedulerService(
		f.cards, f.vocab, f.folders, f.logs, f.streaks,
		srs.NewDefaultSet(), tracker, &mocks.Transactor{}, f.emitter, nil,
	)
	require.NoError(t, err)

	f.handler = api.NewSchedulerHandler(svc, 0, nil)
	return f
}

func (f *schedulerHandlerFixture) seedDueCard(t *testing.T, curve domain.CurveType) *domain.Card {
	t.Helper()

	item := &domain.VocabItem{ID: uuid.New(), Lemma: "바다", CreatedAt: time.Now().UTC()}
	f.vocab.Seed(item)

	folder, err := domain.NewFolder(f.userID, "Chapter 1", curve, domain.FolderKindScheduled, nil)
	require.NoError(t, err)
	f.folders.Seed(folder)

	card, err := domain.NewCard(f.userID, item.ID, folder.ID, curve)
	require.NoError(t, err)
	f.cards.Seed(card)
	return card
}

func TestGetDueReviewsReturnsCards(t *testing.T) {
	t.Parallel()

	f := newSchedulerHandlerFixture(t)
	card := f.seedDueCard(t, domain.CurveLong)

	req := authedRequest(t, http.MethodGet, "/reviews/due", nil, f.userID)
	rec := httptest.NewRecorder()

	f.handler.GetDueReviews(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)

	cardPayload, ok := resp[0]["card"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, card.ID.String(), cardPayload["id"])

	vocabPayload, ok := resp[0]["vocab"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "바다", vocabPayload["lemma"])
}

func TestGetDueReviewsHonorsConfiguredLimit(t *testing.T) {
	t.Parallel()

	f := newSchedulerHandlerFixture(t)
	for i := 0; i < 3; i++ {
		f.seedDueCard(t, domain.CurveLong)
	}

	svc, err := service.NewSchedulerService(
		f.cards, f.vocab, f.folders, f.logs, f.streaks,
		srs.NewDefaultSet(), mustTracker(t, f.streaks), &mocks.Transactor{}, f.emitter, nil,
	)
	require.NoError(t, err)
	handler := api.NewSchedulerHandler(svc, 2, nil)

	// No explicit limit: the configured ceiling applies.
	req := authedRequest(t, http.MethodGet, "/reviews/due", nil, f.userID)
	rec := httptest.NewRecorder()
	handler.GetDueReviews(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)

	// A larger client ask is clamped to the ceiling.
	req = authedRequest(t, http.MethodGet, "/reviews/due?limit=100", nil, f.userID)
	rec = httptest.NewRecorder()
	handler.GetDueReviews(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func mustTracker(t *testing.T, streaks *mocks.StreakStore) *streak.Tracker {
	t.Helper()

	tracker, err := streak.NewTracker(streaks, 1, time.UTC, nil)
	require.NoError(t, err)
	return tracker
}

func TestGetDueReviewsRejectsBadLimit(t *testing.T) {
	t.Parallel()

	f := newSchedulerHandlerFixture(t)
	req := authedRequest(t, http.MethodGet, "/reviews/due?limit=zero", nil, f.userID)
	rec := httptest.NewRecorder()

	f.handler.GetDueReviews(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitReviewSuccess(t *testing.T) {
	t.Parallel()

	f := newSchedulerHandlerFixture(t)
	card := f.seedDueCard(t, domain.CurveLong)

	body := map[string]any{"correct": true, "response_time_ms": 1200, "study_time_ms": 5000}
	req := authedRequest(t, http.MethodPost, "/cards/"+card.ID.String()+"/review", body, f.userID)
	req = withURLParam(req, "id", card.ID.String())
	rec := httptest.NewRecorder()

	f.handler.SubmitReview(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	cardPayload, ok := resp["card"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), cardPayload["stage"])
	assert.Equal(t, true, resp["streak_extended"])
}

func TestSubmitReviewWithoutOutcomeRejected(t *testing.T) {
	t.Parallel()

	f := newSchedulerHandlerFixture(t)
	card := f.seedDueCard(t, domain.CurveLong)

	body := map[string]any{"response_time_ms": 1200, "study_time_ms": 5000}
	req := authedRequest(t, http.MethodPost, "/cards/"+card.ID.String()+"/review", body, f.userID)
	req = withURLParam(req, "id", card.ID.String())
	rec := httptest.NewRecorder()

	f.handler.SubmitReview(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitReviewQualityOutOfRange(t *testing.T) {
	t.Parallel()

	f := newSchedulerHandlerFixture(t)
	card := f.seedDueCard(t, domain.CurveLong)

	body := map[string]any{"quality": 9, "response_time_ms": 100, "study_time_ms": 100}
	req := authedRequest(t, http.MethodPost, "/cards/"+card.ID.String()+"/review", body, f.userID)
	req = withURLParam(req, "id", card.ID.String())
	rec := httptest.NewRecorder()

	f.handler.SubmitReview(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitReviewUnknownCard(t *testing.T) {
	t.Parallel()

	f := newSchedulerHandlerFixture(t)
	missing := uuid.New()

	body := map[string]any{"correct": false, "response_time_ms": 100, "study_time_ms": 100}
	req := authedRequest(t, http.MethodPost, "/cards/"+missing.String()+"/review", body, f.userID)
	req = withURLParam(req, "id", missing.String())
	rec := httptest.NewRecorder()

	f.handler.SubmitReview(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitReviewForeignCardForbidden(t *testing.T) {
	t.Parallel()

	f := newSchedulerHandlerFixture(t)
	card := f.seedDueCard(t, domain.CurveLong)

	body := map[string]any{"correct": true, "response_time_ms": 100, "study_time_ms": 100}
	req := authedRequest(t, http.MethodPost, "/cards/"+card.ID.String()+"/review", body, uuid.New())
	req = withURLParam(req, "id", card.ID.String())
	rec := httptest.NewRecorder()

	f.handler.SubmitReview(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
