package repository

import (
	"errors"

	"github.com/google/uuid"

	"github.com/hsm-gustavo/book-muse-backend/pkg/pagination"
)

var ErrInvalidCursor = errors.New("cursor must be a valid id")

// CursorID parses the cursor of q. It returns nil for the first page.
func CursorID(q pagination.Query) (*uuid.UUID, error) {
	if q.Cursor == "" {
		return nil, nil
	}
	id, err := uuid.Parse(q.Cursor)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	return &id, nil
}
