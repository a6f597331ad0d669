// Package memory holds map-backed repositories with the same ordering, cursor
// and constraint behaviour as the postgres ones. Service and handler tests
// run against them.
package memory

import (
	"bytes"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
	"github.com/hsm-gustavo/book-muse-backend/internal/repository"
	"github.com/hsm-gustavo/book-muse-backend/pkg/pagination"
)

type followKey struct {
	follower uuid.UUID
	followed uuid.UUID
}

type likeKey struct {
	user   uuid.UUID
	review uuid.UUID
}

type statusKey struct {
	user uuid.UUID
	olid string
}

// Store is the shared state behind every repository in this package, so that
// joins and cascading deletes see one consistent dataset.
type Store struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]domain.User
	tokens   map[string]domain.RefreshToken
	follows  map[followKey]domain.UserFollow
	reviews  map[uuid.UUID]domain.Review
	likes    map[likeKey]domain.ReviewLike
	statuses map[statusKey]domain.UserBookStatus
}

func NewStore() *Store {
	return &Store{
		users:    make(map[uuid.UUID]domain.User),
		tokens:   make(map[string]domain.RefreshToken),
		follows:  make(map[followKey]domain.UserFollow),
		reviews:  make(map[uuid.UUID]domain.Review),
		likes:    make(map[likeKey]domain.ReviewLike),
		statuses: make(map[statusKey]domain.UserBookStatus),
	}
}

// newerFirst orders by (createdAt DESC, id DESC).
func newerFirst(at time.Time, id uuid.UUID, otherAt time.Time, otherID uuid.UUID) bool {
	if !at.Equal(otherAt) {
		return at.After(otherAt)
	}
	return bytes.Compare(id[:], otherID[:]) > 0
}

func uuidLess(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

// window returns up to q.Take() rows strictly after the row whose key equals
// the cursor. rows must already be sorted. An unknown cursor yields nothing.
func window[T any](rows []T, q pagination.Query, key func(T) uuid.UUID) ([]T, error) {
	cursor, err := repository.CursorID(q)
	if err != nil {
		return nil, err
	}

	start := 0
	if cursor != nil {
		start = -1
		for i, row := range rows {
			if key(row) == *cursor {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return nil, nil
		}
	}

	rows = rows[start:]
	if len(rows) > q.Take() {
		rows = rows[:q.Take()]
	}
	out := make([]T, len(rows))
	copy(out, rows)
	return out, nil
}
