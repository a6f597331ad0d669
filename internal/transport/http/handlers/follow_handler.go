package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
	"github.com/hsm-gustavo/book-muse-backend/internal/service"
	"github.com/hsm-gustavo/book-muse-backend/internal/transport/http/middleware"
	"github.com/hsm-gustavo/book-muse-backend/pkg/pagination"
)

type followLister func(ctx context.Context, userID uuid.UUID, q pagination.Query) (pagination.Page[domain.UserSummary], error)

type FollowHandler struct {
	followService *service.FollowService
	log           *zap.Logger
}

func NewFollowHandler(followService *service.FollowService, log *zap.Logger) *FollowHandler {
	return &FollowHandler{followService: followService, log: log}
}

func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	targetID, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}

	follow, err := h.followService.Follow(r.Context(), userID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCannotFollowSelf):
			writeError(w, http.StatusBadRequest, "CANNOT_FOLLOW_SELF", "You cannot follow yourself")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		case errors.Is(err, service.ErrAlreadyFollowing):
			writeError(w, http.StatusConflict, "ALREADY_FOLLOWING", "You already follow this user")
		default:
			internalError(w, h.log, "follow", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, follow)
}

func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	targetID, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}

	if err := h.followService.Unfollow(r.Context(), userID, targetID); err != nil {
		if errors.Is(err, service.ErrNotFollowing) {
			writeError(w, http.StatusNotFound, "NOT_FOLLOWING", "You do not follow this user")
		} else {
			internalError(w, h.log, "unfollow", err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *FollowHandler) Followers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "followers", h.followService.Followers)
}

func (h *FollowHandler) Following(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "following", h.followService.Following)
}

func (h *FollowHandler) Counts(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}

	counts, err := h.followService.Counts(r.Context(), userID)
	if err != nil {
		internalError(w, h.log, "follow counts", err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (h *FollowHandler) list(w http.ResponseWriter, r *http.Request, op string, fetch followLister) {
	userID, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}
	q, ok := pageQuery(w, r)
	if !ok {
		return
	}

	page, err := fetch(r.Context(), userID, q)
	if err != nil {
		if !pageError(w, err) {
			internalError(w, h.log, op, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, page)
}
