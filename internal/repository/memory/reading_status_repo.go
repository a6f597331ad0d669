package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
	"github.com/hsm-gustavo/book-muse-backend/internal/repository"
)

type ReadingStatusRepo struct {
	s *Store
}

func NewReadingStatusRepo(s *Store) *ReadingStatusRepo {
	return &ReadingStatusRepo{s: s}
}

func (r *ReadingStatusRepo) Upsert(_ context.Context, status *domain.UserBookStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[status.UserID]; !ok {
		return repository.ErrNotFound
	}
	k := statusKey{user: status.UserID, olid: status.OpenLibraryID}
	if existing, ok := r.s.statuses[k]; ok {
		status.ID = existing.ID
	}
	r.s.statuses[k] = *status
	return nil
}

func (r *ReadingStatusRepo) Get(_ context.Context, userID uuid.UUID, openLibraryID string) (*domain.UserBookStatus, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	s, ok := r.s.statuses[statusKey{user: userID, olid: openLibraryID}]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *ReadingStatusRepo) Delete(_ context.Context, userID uuid.UUID, openLibraryID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	k := statusKey{user: userID, olid: openLibraryID}
	if _, ok := r.s.statuses[k]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.statuses, k)
	return nil
}

func (r *ReadingStatusRepo) List(_ context.Context, userID uuid.UUID, status domain.ReadingStatus) ([]domain.UserBookStatus, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.UserBookStatus
	for k, s := range r.s.statuses {
		if k.user == userID && (status == "" || s.Status == status) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *ReadingStatusRepo) CountByStatus(_ context.Context, userID uuid.UUID, status domain.ReadingStatus) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for k, s := range r.s.statuses {
		if k.user == userID && s.Status == status {
			n++
		}
	}
	return n, nil
}
