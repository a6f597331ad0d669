package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
	"github.com/hsm-gustavo/book-muse-backend/internal/service"
	"github.com/hsm-gustavo/book-muse-backend/internal/transport/http/middleware"
	"github.com/hsm-gustavo/book-muse-backend/pkg/validator"
)

type ReadingStatusHandler struct {
	statusService *service.ReadingStatusService
	log           *zap.Logger
}

func NewReadingStatusHandler(statusService *service.ReadingStatusService, log *zap.Logger) *ReadingStatusHandler {
	return &ReadingStatusHandler{statusService: statusService, log: log}
}

func (h *ReadingStatusHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.UpsertReadingStatusInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateReadingStatus(input.OpenLibraryID, string(input.Status)); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	status, err := h.statusService.Upsert(r.Context(), userID, input)
	if err != nil {
		h.statusError(w, "upsert reading status", err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *ReadingStatusHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	filter := domain.ReadingStatus(r.URL.Query().Get("status"))

	statuses, err := h.statusService.List(r.Context(), userID, filter)
	if err != nil {
		h.statusError(w, "list reading statuses", err)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

func (h *ReadingStatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	status, err := h.statusService.Get(r.Context(), userID, r.PathValue("openLibraryId"))
	if err != nil {
		h.statusError(w, "get reading status", err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *ReadingStatusHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.statusService.Delete(r.Context(), userID, r.PathValue("openLibraryId")); err != nil {
		h.statusError(w, "delete reading status", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReadingStatusHandler) statusError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidReadingStatus):
		writeError(w, http.StatusBadRequest, "INVALID_STATUS", "Status must be one of want_to_read, reading, read")
	case errors.Is(err, service.ErrReadingStatusNotFound):
		writeError(w, http.StatusNotFound, "READING_STATUS_NOT_FOUND", "Reading status not found")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	default:
		internalError(w, h.log, op, err)
	}
}
