package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/hsm-gustavo/book-muse-backend/internal/service"
	"github.com/hsm-gustavo/book-muse-backend/internal/transport/http/middleware"
	"github.com/hsm-gustavo/book-muse-backend/pkg/validator"
)

// multipart framing allowance on top of the image itself
const uploadOverhead = 64 << 10

type UserHandler struct {
	userService *service.UserService
	log         *zap.Logger
}

func NewUserHandler(userService *service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateCreateUser(input.Name, input.Email, input.Password); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	user, err := h.userService.Create(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "EMAIL_TAKEN", "Email is already registered")
		} else {
			internalError(w, h.log, "create user", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		internalError(w, h.log, "list users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	profile, err := h.userService.FullProfile(r.Context(), userID, &userID)
	if err != nil {
		h.userError(w, "get me", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	q, ok := pageQuery(w, r)
	if !ok {
		return
	}

	page, err := h.userService.Search(r.Context(), r.URL.Query().Get("q"), q)
	if err != nil {
		if !pageError(w, err) {
			internalError(w, h.log, "search users", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), id)
	if err != nil {
		h.userError(w, "get user", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) FullProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}

	profile, err := h.userService.FullProfile(r.Context(), id, middleware.ViewerID(r.Context()))
	if err != nil {
		h.userError(w, "full profile", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.UpdateUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateUpdateUser(input.Name); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	user, err := h.userService.Update(r.Context(), userID, input)
	if err != nil {
		h.userError(w, "update user", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateProfilePicture(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, service.MaxImageSize+uploadOverhead)
	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, "IMAGE_TOO_LARGE", "Image too large, max size is 2MB")
			return
		}
		writeError(w, http.StatusBadRequest, "FILE_REQUIRED", "A file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxImageSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FILE", "Could not read uploaded file")
		return
	}

	user, err := h.userService.UpdateProfilePicture(r.Context(), userID, service.ImageUpload{
		ContentType: http.DetectContentType(data),
		Data:        data,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidImageType):
			writeError(w, http.StatusBadRequest, "INVALID_IMAGE_TYPE", "Invalid image type, only JPEG, PNG or WebP allowed")
		case errors.Is(err, service.ErrImageTooLarge):
			writeError(w, http.StatusBadRequest, "IMAGE_TOO_LARGE", "Image too large, max size is 2MB")
		default:
			h.userError(w, "update profile picture", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.userService.Delete(r.Context(), userID); err != nil {
		h.userError(w, "delete user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) userError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, service.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return
	}
	internalError(w, h.log, op, err)
}
