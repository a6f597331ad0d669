package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
	"github.com/hsm-gustavo/book-muse-backend/internal/repository"
	"github.com/hsm-gustavo/book-muse-backend/pkg/pagination"
)

var (
	ErrCannotFollowSelf = errors.New("you can't follow yourself")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	notifier   Notifier
	now        func() time.Time
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		now:        time.Now,
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *FollowService) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *FollowService) Follow(ctx context.Context, followerID, followedID uuid.UUID) (*domain.UserFollow, error) {
	if followerID == followedID {
		return nil, ErrCannotFollowSelf
	}

	target, err := s.userRepo.GetByID(ctx, followedID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	follow := &domain.UserFollow{
		FollowerID: followerID,
		FollowedID: followedID,
		CreatedAt:  s.now(),
	}
	if err := s.followRepo.Create(ctx, follow); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrAlreadyFollowing
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("creating follow: %w", err)
	}

	if s.notifier != nil {
		if follower, err := s.userRepo.GetByID(ctx, followerID); err == nil && follower != nil {
			s.notifier.NotifyNewFollower(followedID, publicSummary(follower))
		}
	}

	return follow, nil
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, followedID uuid.UUID) error {
	if err := s.followRepo.Delete(ctx, followerID, followedID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFollowing
		}
		return fmt.Errorf("deleting follow: %w", err)
	}
	return nil
}

func (s *FollowService) Followers(ctx context.Context, userID uuid.UUID, q pagination.Query) (pagination.Page[domain.UserSummary], error) {
	entries, err := s.followRepo.ListFollowers(ctx, userID, q)
	if err != nil {
		return pagination.Page[domain.UserSummary]{}, err
	}
	return followPage(entries, q), nil
}

func (s *FollowService) Following(ctx context.Context, userID uuid.UUID, q pagination.Query) (pagination.Page[domain.UserSummary], error) {
	entries, err := s.followRepo.ListFollowing(ctx, userID, q)
	if err != nil {
		return pagination.Page[domain.UserSummary]{}, err
	}
	return followPage(entries, q), nil
}

// Counts is computed on every call; the cached variant lives in ProfileCache.
func (s *FollowService) Counts(ctx context.Context, userID uuid.UUID) (*domain.FollowCounts, error) {
	followers, err := s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.FollowCounts{Followers: followers, Following: following}, nil
}

func followPage(entries []domain.FollowEntry, q pagination.Query) pagination.Page[domain.UserSummary] {
	page := pagination.Window(entries, q, func(e domain.FollowEntry) string { return e.User.ID.String() })
	return pagination.Map(page, func(e domain.FollowEntry) domain.UserSummary { return e.User })
}

func publicSummary(u *domain.User) domain.UserSummary {
	summary := u.Summary()
	summary.Email = ""
	return summary
}
