package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
)

// Notifier pushes activity events to connected clients.
type Notifier interface {
	NotifyNewFollower(followedID uuid.UUID, follower domain.UserSummary)
	NotifyReviewLiked(authorID, reviewID uuid.UUID, liker domain.UserSummary)
}

// ObjectStore keeps uploaded files. Upload returns the object key and its
// public URL; only keys returned by Upload are ever passed to Delete.
type ObjectStore interface {
	Upload(ctx context.Context, folder, ext, contentType string, body []byte) (key, url string, err error)
	Delete(ctx context.Context, key string) error
}

type WelcomeMailer interface {
	EnqueueWelcome(ctx context.Context, email, name string) error
}
