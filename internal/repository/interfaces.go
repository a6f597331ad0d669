package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
	"github.com/hsm-gustavo/book-muse-backend/pkg/pagination"
)

// Lookups return (nil, nil) when nothing matches. The errors below are only
// returned where a write hits a uniqueness or existence constraint.
var (
	ErrDuplicate = errors.New("record already exists")
	ErrNotFound  = errors.New("record not found")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// Search returns up to q.Take() users matching term on name or email,
	// ordered by id, strictly after the cursor id.
	Search(ctx context.Context, term string, q pagination.Query) ([]domain.UserSummary, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	// Rotate revokes presented and stores replacement for the same user in one
	// atomic step. It returns the stored replacement, or nil when presented is
	// unknown, already revoked or expired at now.
	Rotate(ctx context.Context, presented string, replacement *domain.RefreshToken, now time.Time) (*domain.RefreshToken, error)
	// Revoke marks a token owned by userID as revoked. It reports whether a
	// token was changed.
	Revoke(ctx context.Context, userID uuid.UUID, token string) (bool, error)
}

type FollowRepository interface {
	Create(ctx context.Context, follow *domain.UserFollow) error
	Delete(ctx context.Context, followerID, followedID uuid.UUID) error
	Exists(ctx context.Context, followerID, followedID uuid.UUID) (bool, error)
	CountFollowers(ctx context.Context, userID uuid.UUID) (int, error)
	CountFollowing(ctx context.Context, userID uuid.UUID) (int, error)
	// ListFollowers and ListFollowing order by newest edge first. The cursor
	// is the id of the other user on the last row of the previous page.
	ListFollowers(ctx context.Context, userID uuid.UUID, q pagination.Query) ([]domain.FollowEntry, error)
	ListFollowing(ctx context.Context, userID uuid.UUID, q pagination.Query) ([]domain.FollowEntry, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*domain.ReviewDetail, error)
	// ListByBook and ListByUser order by newest first; the cursor is a review id.
	ListByBook(ctx context.Context, openLibraryID string, q pagination.Query) ([]domain.ReviewListItem, error)
	ListByUser(ctx context.Context, userID uuid.UUID, q pagination.Query) ([]domain.ReviewListItem, error)
	Recent(ctx context.Context, userID uuid.UUID, n int) ([]domain.RecentReview, error)
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddLike(ctx context.Context, like *domain.ReviewLike) error
	RemoveLike(ctx context.Context, userID, reviewID uuid.UUID) error
	HasLiked(ctx context.Context, userID, reviewID uuid.UUID) (bool, error)
}

type ReadingStatusRepository interface {
	Upsert(ctx context.Context, status *domain.UserBookStatus) error
	Get(ctx context.Context, userID uuid.UUID, openLibraryID string) (*domain.UserBookStatus, error)
	Delete(ctx context.Context, userID uuid.UUID, openLibraryID string) error
	// List orders by most recently updated. An empty status lists all.
	List(ctx context.Context, userID uuid.UUID, status domain.ReadingStatus) ([]domain.UserBookStatus, error)
	CountByStatus(ctx context.Context, userID uuid.UUID, status domain.ReadingStatus) (int, error)
}
