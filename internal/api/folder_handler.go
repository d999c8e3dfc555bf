package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hanbit-app/srs-api/internal/api/shared"
	"github.com/hanbit-app/srs-api/internal/domain"
	"github.com/hanbit-app/srs-api/internal/platform/logger"
	"github.com/hanbit-app/srs-api/internal/redact"
	"github.com/hanbit-app/srs-api/internal/service"
)

// FolderHandler handles folder-related HTTP requests
type FolderHandler struct {
	folders service.FolderService
	logger  *slog.Logger
}

// NewFolderHandler creates a new FolderHandler
func NewFolderHandler(folders service.FolderService, log *slog.Logger) *FolderHandler {
	if folders == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("folder service cannot be nil for FolderHandler")
	}
	if log == nil {
		log = slog.Default()
	}

	return &FolderHandler{
		folders: folders,
		logger:  log.With(slog.String("component", "folder_handler")),
	}
}

// CreateFolderRequest represents the request body for creating a folder
type CreateFolderRequest struct {
	Name      string  `json:"name" validate:"required,max=120"`
	ParentID  *string `json:"parent_id,omitempty" validate:"omitempty,uuid"`
	CurveType string  `json:"learning_curve_type" validate:"required,oneof=long short free"`
	Kind      string  `json:"kind,omitempty" validate:"omitempty,oneof=scheduled manual"`
}

// AddItemsRequest represents the request body for adding vocab items to a folder
type AddItemsRequest struct {
	VocabIDs []string `json:"vocab_ids" validate:"required,min=1,dive,uuid"`
}

// CreateFolder handles POST /folders requests
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateFolderRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	var parentID *uuid.UUID
	if req.ParentID != nil {
		parsed, err := uuid.Parse(*req.ParentID)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid parent folder ID")
			return
		}
		parentID = &parsed
	}

	kind := domain.FolderKindScheduled
	if req.Kind != "" {
		kind = domain.FolderKind(req.Kind)
	}

	folder, err := h.folders.CreateFolder(
		r.Context(), userID, req.Name, parentID,
		domain.CurveType(req.CurveType), kind,
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, folderToResponse(folder))
}

// AddItems handles POST /folders/{id}/items requests
func (h *FolderHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	folderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid folder ID format")
		return
	}

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req AddItemsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	vocabIDs := make([]uuid.UUID, len(req.VocabIDs))
	for i, raw := range req.VocabIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid vocab item ID")
			return
		}
		vocabIDs[i] = id
	}

	cards, err := h.folders.AddItems(r.Context(), userID, folderID, vocabIDs)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := make([]CardResponse, len(cards))
	for i, card := range cards {
		response[i] = cardToResponse(card)
	}

	log.Debug("items added",
		slog.String("folder_id", folderID.String()),
		slog.Int("count", len(response)))
	shared.RespondWithJSON(w, r, http.StatusCreated, response)
}

// RestartFolder handles POST /folders/{id}/restart requests
func (h *FolderHandler) RestartFolder(w http.ResponseWriter, r *http.Request) {
	folderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid folder ID format")
		return
	}

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	folder, err := h.folders.RestartFolder(r.Context(), userID, folderID, time.Now().UTC())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, folderToResponse(folder))
}

// DeleteFolder handles DELETE /folders/{id} requests
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	folderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid folder ID format")
		return
	}

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	if err := h.folders.DeleteFolder(r.Context(), userID, folderID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Dashboard handles GET /folders/dashboard requests
func (h *FolderHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	summaries, err := h.folders.Dashboard(r.Context(), userID, time.Now().UTC())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := make([]FolderSummaryResponse, len(summaries))
	for i, summary := range summaries {
		response[i] = summaryToResponse(summary)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}
