package shared_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanbit-app/srs-api/internal/api/shared"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	shared.RespondWithJSON(rec, req, http.StatusCreated, map[string]string{"lemma": "사과"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"lemma":"사과"}`, rec.Body.String())
}

func TestRespondWithErrorIncludesTraceID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := shared.SetTraceID(req.Context())
	traceID := shared.GetTraceID(ctx)
	require.NotEmpty(t, traceID)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	shared.RespondWithError(rec, req, http.StatusNotFound, "Card not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Card not found")
	assert.Contains(t, rec.Body.String(), traceID)
}

func TestDecodeJSONRejectsMalformedBody(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))

	var target struct {
		Name string `json:"name"`
	}
	err := shared.DecodeJSON(req, &target)
	assert.Error(t, err)
}

func TestValidateRequestUsesStructTags(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `validate:"required"`
	}

	assert.Error(t, shared.ValidateRequest(payload{}))
	assert.NoError(t, shared.ValidateRequest(payload{Name: "ok"}))
}

func TestTraceIDRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := shared.SetTraceID(context.Background())
	assert.Len(t, shared.GetTraceID(ctx), shared.TraceIDLength*2)

	require.Empty(t, shared.GetTraceID(context.Background()))
}
