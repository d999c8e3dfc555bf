package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanbit-app/srs-api/internal/api"
	"github.com/hanbit-app/srs-api/internal/api/shared"
	"github.com/hanbit-app/srs-api/internal/domain"
	"github.com/hanbit-app/srs-api/internal/mocks"
	"github.com/hanbit-app/srs-api/internal/service"
)

type folderHandlerFixture struct {
	handler *api.FolderHandler
	folders *mocks.FolderStore
	cards   *mocks.CardStore
	vocab   *mocks.VocabStore
	emitter *mocks.EventEmitter
	userID  uuid.UUID
}

func newFolderHandlerFixture(t *testing.T) *folderHandlerFixture {
	t.Helper()

	f := &folderHandlerFixture{
		folders: mocks.NewFolderStore(),
		cards:   mocks.NewCardStore(),
		vocab:   mocks.NewVocabStore(),
		emitter: &mocks.EventEmitter{},
		userID:  uuid.New(),
	}

	svc, err := service.NewFolderService(
		f.folders, f.cards, f.vocab, &mocks.Transactor{}, f.emitter, nil,
	)
	require.NoError(t, err)

	f.handler = api.NewFolderHandler(svc, nil)
	return f
}

// authedRequest builds a request carrying the user ID the identity
// middleware would have put in the context.
func authedRequest(t *testing.T, method, target string, body any, userID uuid.UUID) *http.Request {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

// withURLParam attaches a chi route parameter to the request context.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCreateFolderSuccess(t *testing.T) {
	t.Parallel()

	f := newFolderHandlerFixture(t)
	body := map[string]any{
		"name":                "Chapter 3",
		"learning_curve_type": "long",
	}
	req := authedRequest(t, http.MethodPost, "/folders", body, f.userID)
	rec := httptest.NewRecorder()

	f.handler.CreateFolder(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Chapter 3", resp["name"])
	assert.Equal(t, "long", resp["learning_curve_type"])
	assert.Equal(t, "scheduled", resp["kind"])
}

func TestCreateFolderRejectsUnknownCurve(t *testing.T) {
	t.Parallel()

	f := newFolderHandlerFixture(t)
	body := map[string]any{
		"name":                "Chapter 3",
		"learning_curve_type": "exponential",
	}
	req := authedRequest(t, http.MethodPost, "/folders", body, f.userID)
	rec := httptest.NewRecorder()

	f.handler.CreateFolder(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateFolderRequiresIdentity(t *testing.T) {
	t.Parallel()

	f := newFolderHandlerFixture(t)
	body := map[string]any{"name": "x", "learning_curve_type": "long"}
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/folders", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	f.handler.CreateFolder(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAddItemsSuccess(t *testing.T) {
	t.Parallel()

	f := newFolderHandlerFixture(t)
	folder, err := domain.NewFolder(f.userID, "Chapter 1", domain.CurveShort, domain.FolderKindScheduled, nil)
	require.NoError(t, err)
	f.folders.Seed(folder)

	item := &domain.VocabItem{ID: uuid.New(), Lemma: "학교", CreatedAt: time.Now().UTC()}
	f.vocab.Seed(item)

	body := map[string]any{"vocab_ids": []string{item.ID.String()}}
	req := authedRequest(t, http.MethodPost, "/folders/"+folder.ID.String()+"/items", body, f.userID)
	req = withURLParam(req, "id", folder.ID.String())
	rec := httptest.NewRecorder()

	f.handler.AddItems(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "short", resp[0]["learning_curve_type"])
	assert.Equal(t, item.ID.String(), resp[0]["vocab_id"])
}

func TestAddItemsUnknownVocabFailsWholeBatch(t *testing.T) {
	t.Parallel()

	f := newFolderHandlerFixture(t)
	folder, err := domain.NewFolder(f.userID, "Chapter 1", domain.CurveShort, domain.FolderKindScheduled, nil)
	require.NoError(t, err)
	f.folders.Seed(folder)

	body := map[string]any{"vocab_ids": []string{uuid.New().String()}}
	req := authedRequest(t, http.MethodPost, "/folders/"+folder.ID.String()+"/items", body, f.userID)
	req = withURLParam(req, "id", folder.ID.String())
	rec := httptest.NewRecorder()

	f.handler.AddItems(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddItemsForeignFolderForbidden(t *testing.T) {
	t.Parallel()

	f := newFolderHandlerFixture(t)
	otherUser := uuid.New()
	folder, err := domain.NewFolder(otherUser, "Not yours", domain.CurveLong, domain.FolderKindScheduled, nil)
	require.NoError(t, err)
	f.folders.Seed(folder)

	item := &domain.VocabItem{ID: uuid.New(), Lemma: "물", CreatedAt: time.Now().UTC()}
	f.vocab.Seed(item)

	body := map[string]any{"vocab_ids": []string{item.ID.String()}}
	req := authedRequest(t, http.MethodPost, "/folders/"+folder.ID.String()+"/items", body, f.userID)
	req = withURLParam(req, "id", folder.ID.String())
	rec := httptest.NewRecorder()

	f.handler.AddItems(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRestartFolderInvalidID(t *testing.T) {
	t.Parallel()

	f := newFolderHandlerFixture(t)
	req := authedRequest(t, http.MethodPost, "/folders/not-a-uuid/restart", nil, f.userID)
	req = withURLParam(req, "id", "not-a-uuid")
	rec := httptest.NewRecorder()

	f.handler.RestartFolder(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRestartFolderNotCompletedIsNoOp(t *testing.T) {
	t.Parallel()

	f := newFolderHandlerFixture(t)
	folder, err := domain.NewFolder(f.userID, "Chapter 1", domain.CurveLong, domain.FolderKindScheduled, nil)
	require.NoError(t, err)
	f.folders.Seed(folder)

	req := authedRequest(t, http.MethodPost, fmt.Sprintf("/folders/%s/restart", folder.ID), nil, f.userID)
	req = withURLParam(req, "id", folder.ID.String())
	rec := httptest.NewRecorder()

	f.handler.RestartFolder(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, f.emitter.TypesEmitted())
}

func TestDeleteFolderSuccess(t *testing.T) {
	t.Parallel()

	f := newFolderHandlerFixture(t)
	folder, err := domain.NewFolder(f.userID, "Old chapter", domain.CurveFree, domain.FolderKindManual, nil)
	require.NoError(t, err)
	f.folders.Seed(folder)

	req := authedRequest(t, http.MethodDelete, fmt.Sprintf("/folders/%s", folder.ID), nil, f.userID)
	req = withURLParam(req, "id", folder.ID.String())
	rec := httptest.NewRecorder()

	f.handler.DeleteFolder(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err = f.folders.GetByID(context.Background(), folder.ID)
	assert.Error(t, err)
}

func TestDeleteFolderNotFound(t *testing.T) {
	t.Parallel()

	f := newFolderHandlerFixture(t)
	missing := uuid.New()
	req := authedRequest(t, http.MethodDelete, fmt.Sprintf("/folders/%s", missing), nil, f.userID)
	req = withURLParam(req, "id", missing.String())
	rec := httptest.NewRecorder()

	f.handler.DeleteFolder(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardReturnsSummaries(t *testing.T) {
	t.Parallel()

	f := newFolderHandlerFixture(t)
	folder, err := domain.NewFolder(f.userID, "Chapter 1", domain.CurveLong, domain.FolderKindScheduled, nil)
	require.NoError(t, err)
	f.folders.Seed(folder)

	req := authedRequest(t, http.MethodGet, "/folders/dashboard", nil, f.userID)
	rec := httptest.NewRecorder()

	f.handler.Dashboard(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, float64(0), resp[0]["total_cards"])
}
