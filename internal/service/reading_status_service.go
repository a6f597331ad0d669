package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
	"github.com/hsm-gustavo/book-muse-backend/internal/repository"
)

var (
	ErrReadingStatusNotFound = errors.New("reading status not found")
	ErrInvalidReadingStatus  = errors.New("status must be one of want_to_read, reading, read")
)

type ReadingStatusService struct {
	statusRepo repository.ReadingStatusRepository
	now        func() time.Time
}

func NewReadingStatusService(statusRepo repository.ReadingStatusRepository) *ReadingStatusService {
	return &ReadingStatusService{statusRepo: statusRepo, now: time.Now}
}

type UpsertReadingStatusInput struct {
	OpenLibraryID string               `json:"openLibraryId"`
	Status        domain.ReadingStatus `json:"status"`
}

func (s *ReadingStatusService) Upsert(ctx context.Context, userID uuid.UUID, input UpsertReadingStatusInput) (*domain.UserBookStatus, error) {
	if !input.Status.Valid() {
		return nil, ErrInvalidReadingStatus
	}

	status := &domain.UserBookStatus{
		ID:            uuid.New(),
		UserID:        userID,
		OpenLibraryID: input.OpenLibraryID,
		Status:        input.Status,
		UpdatedAt:     s.now(),
	}
	if err := s.statusRepo.Upsert(ctx, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("saving reading status: %w", err)
	}
	return status, nil
}

func (s *ReadingStatusService) Get(ctx context.Context, userID uuid.UUID, openLibraryID string) (*domain.UserBookStatus, error) {
	status, err := s.statusRepo.Get(ctx, userID, openLibraryID)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return nil, ErrReadingStatusNotFound
	}
	return status, nil
}

// List returns the caller's statuses, newest first. An empty filter lists all.
func (s *ReadingStatusService) List(ctx context.Context, userID uuid.UUID, filter domain.ReadingStatus) ([]domain.UserBookStatus, error) {
	if filter != "" && !filter.Valid() {
		return nil, ErrInvalidReadingStatus
	}

	statuses, err := s.statusRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if statuses == nil {
		statuses = []domain.UserBookStatus{}
	}
	return statuses, nil
}

func (s *ReadingStatusService) Delete(ctx context.Context, userID uuid.UUID, openLibraryID string) error {
	if err := s.statusRepo.Delete(ctx, userID, openLibraryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReadingStatusNotFound
		}
		return fmt.Errorf("deleting reading status: %w", err)
	}
	return nil
}
