package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
	"github.com/hsm-gustavo/book-muse-backend/internal/repository"
	"github.com/hsm-gustavo/book-muse-backend/pkg/pagination"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrNotReviewOwner = errors.New("you can only edit or delete your own review")
	ErrAlreadyLiked   = errors.New("review already liked")
	ErrLikeNotFound   = errors.New("review not liked")
)

type ReviewService struct {
	reviewRepo repository.ReviewRepository
	userRepo   repository.UserRepository
	notifier   Notifier
	now        func() time.Time
}

func NewReviewService(reviewRepo repository.ReviewRepository, userRepo repository.UserRepository) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
		now:        time.Now,
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *ReviewService) SetNotifier(n Notifier) {
	s.notifier = n
}

type CreateReviewInput struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Rating        float64 `json:"rating"`
	OpenLibraryID string  `json:"openLibraryId"`
}

type UpdateReviewInput struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
}

func (s *ReviewService) Create(ctx context.Context, userID uuid.UUID, input CreateReviewInput) (*domain.Review, error) {
	now := s.now()
	review := &domain.Review{
		ID:            uuid.New(),
		Title:         strings.TrimSpace(input.Title),
		Description:   strings.TrimSpace(input.Description),
		Rating:        input.Rating,
		OpenLibraryID: input.OpenLibraryID,
		UserID:        &userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("creating review: %w", err)
	}
	return review, nil
}

// Get returns a review with its author and likes. LikedByMe is only ever true
// when viewerID is set.
func (s *ReviewService) Get(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*domain.ReviewDetail, error) {
	detail, err := s.reviewRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, ErrReviewNotFound
	}

	if viewerID != nil {
		liked, err := s.reviewRepo.HasLiked(ctx, *viewerID, id)
		if err != nil {
			return nil, err
		}
		detail.LikedByMe = liked
	}
	return detail, nil
}

func (s *ReviewService) ListByBook(ctx context.Context, openLibraryID string, q pagination.Query) (pagination.Page[domain.ReviewListItem], error) {
	items, err := s.reviewRepo.ListByBook(ctx, openLibraryID, q)
	if err != nil {
		return pagination.Page[domain.ReviewListItem]{}, err
	}
	return pagination.Window(items, q, reviewKey), nil
}

func (s *ReviewService) ListByUser(ctx context.Context, userID uuid.UUID, q pagination.Query) (pagination.Page[domain.ReviewListItem], error) {
	items, err := s.reviewRepo.ListByUser(ctx, userID, q)
	if err != nil {
		return pagination.Page[domain.ReviewListItem]{}, err
	}
	return pagination.Window(items, q, reviewKey), nil
}

// Update and Delete report a missing review the same way as someone else's,
// so ids of other users' reviews cannot be probed.
func (s *ReviewService) Update(ctx context.Context, userID, reviewID uuid.UUID, input UpdateReviewInput) (*domain.Review, error) {
	review, err := s.owned(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		review.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		review.Description = strings.TrimSpace(*input.Description)
	}
	if input.Rating != nil {
		review.Rating = *input.Rating
	}
	review.UpdatedAt = s.now()

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("updating review: %w", err)
	}
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	if _, err := s.owned(ctx, userID, reviewID); err != nil {
		return err
	}
	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("deleting review: %w", err)
	}
	return nil
}

func (s *ReviewService) Like(ctx context.Context, userID, reviewID uuid.UUID) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review == nil {
		return ErrReviewNotFound
	}

	like := &domain.ReviewLike{UserID: userID, ReviewID: reviewID, CreatedAt: s.now()}
	if err := s.reviewRepo.AddLike(ctx, like); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return ErrAlreadyLiked
		case errors.Is(err, repository.ErrNotFound):
			return ErrReviewNotFound
		}
		return fmt.Errorf("liking review: %w", err)
	}

	if s.notifier != nil && review.UserID != nil && *review.UserID != userID {
		if liker, err := s.userRepo.GetByID(ctx, userID); err == nil && liker != nil {
			s.notifier.NotifyReviewLiked(*review.UserID, reviewID, publicSummary(liker))
		}
	}
	return nil
}

func (s *ReviewService) Unlike(ctx context.Context, userID, reviewID uuid.UUID) error {
	if err := s.reviewRepo.RemoveLike(ctx, userID, reviewID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLikeNotFound
		}
		return fmt.Errorf("unliking review: %w", err)
	}
	return nil
}

func (s *ReviewService) owned(ctx context.Context, userID, reviewID uuid.UUID) (*domain.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil || review.UserID == nil || *review.UserID != userID {
		return nil, ErrNotReviewOwner
	}
	return review, nil
}

func reviewKey(r domain.ReviewListItem) string {
	return r.ID.String()
}
