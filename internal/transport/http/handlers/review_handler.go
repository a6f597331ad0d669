package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/hsm-gustavo/book-muse-backend/internal/service"
	"github.com/hsm-gustavo/book-muse-backend/internal/transport/http/middleware"
	"github.com/hsm-gustavo/book-muse-backend/pkg/validator"
)

type ReviewHandler struct {
	reviewService *service.ReviewService
	log           *zap.Logger
}

func NewReviewHandler(reviewService *service.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, log: log}
}

// createReviewRequest keeps rating nullable so a missing rating is told
// apart from a zero one.
type createReviewRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Rating        *float64 `json:"rating"`
	OpenLibraryID string   `json:"openLibraryId"`
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateCreateReview(req.Title, req.Description, req.Rating, req.OpenLibraryID); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	review, err := h.reviewService.Create(r.Context(), userID, service.CreateReviewInput{
		Title:         req.Title,
		Description:   req.Description,
		Rating:        *req.Rating,
		OpenLibraryID: req.OpenLibraryID,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		} else {
			internalError(w, h.log, "create review", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := pathID(w, r, "id", "review")
	if !ok {
		return
	}

	review, err := h.reviewService.Get(r.Context(), reviewID, middleware.ViewerID(r.Context()))
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			writeError(w, http.StatusNotFound, "REVIEW_NOT_FOUND", "Review not found")
		} else {
			internalError(w, h.log, "get review", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, review)
}

func (h *ReviewHandler) ListByBook(w http.ResponseWriter, r *http.Request) {
	q, ok := pageQuery(w, r)
	if !ok {
		return
	}

	page, err := h.reviewService.ListByBook(r.Context(), r.PathValue("openLibraryId"), q)
	if err != nil {
		if !pageError(w, err) {
			internalError(w, h.log, "list book reviews", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *ReviewHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId", "user")
	if !ok {
		return
	}
	q, ok := pageQuery(w, r)
	if !ok {
		return
	}

	page, err := h.reviewService.ListByUser(r.Context(), userID, q)
	if err != nil {
		if !pageError(w, err) {
			internalError(w, h.log, "list user reviews", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	reviewID, ok := pathID(w, r, "id", "review")
	if !ok {
		return
	}

	var input service.UpdateReviewInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateUpdateReview(input.Title, input.Description, input.Rating); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	review, err := h.reviewService.Update(r.Context(), userID, reviewID, input)
	if err != nil {
		if errors.Is(err, service.ErrNotReviewOwner) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "You can only edit your own review.")
		} else {
			internalError(w, h.log, "update review", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, review)
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	reviewID, ok := pathID(w, r, "id", "review")
	if !ok {
		return
	}

	if err := h.reviewService.Delete(r.Context(), userID, reviewID); err != nil {
		if errors.Is(err, service.ErrNotReviewOwner) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "You can only delete your own review.")
		} else {
			internalError(w, h.log, "delete review", err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ReviewHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	reviewID, ok := pathID(w, r, "id", "review")
	if !ok {
		return
	}

	if err := h.reviewService.Like(r.Context(), userID, reviewID); err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			writeError(w, http.StatusNotFound, "REVIEW_NOT_FOUND", "Review not found")
		case errors.Is(err, service.ErrAlreadyLiked):
			writeError(w, http.StatusConflict, "ALREADY_LIKED", "You already liked this review")
		default:
			internalError(w, h.log, "like review", err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ReviewHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	reviewID, ok := pathID(w, r, "id", "review")
	if !ok {
		return
	}

	if err := h.reviewService.Unlike(r.Context(), userID, reviewID); err != nil {
		if errors.Is(err, service.ErrLikeNotFound) {
			writeError(w, http.StatusNotFound, "LIKE_NOT_FOUND", "You have not liked this review")
		} else {
			internalError(w, h.log, "unlike review", err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
