package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/hsm-gustavo/book-muse-backend/internal/repository"
	"github.com/hsm-gustavo/book-muse-backend/pkg/pagination"
)

// pathID parses a uuid path value, writing a 400 when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func pageQuery(w http.ResponseWriter, r *http.Request) (pagination.Query, bool) {
	q, err := pagination.ParseQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_LIMIT", "Limit must be an integer between 1 and 100")
		return q, false
	}
	return q, true
}

// pageError reports whether err was a malformed cursor and answers it.
func pageError(w http.ResponseWriter, err error) bool {
	if errors.Is(err, repository.ErrInvalidCursor) {
		writeError(w, http.StatusBadRequest, "INVALID_CURSOR", "Invalid cursor")
		return true
	}
	return false
}
