package domain

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is an opaque, single-use credential. It is revoked exactly once,
// when redeemed or logged out, and never deleted.
type RefreshToken struct {
	ID        uuid.UUID
	Token     string
	UserID    uuid.UUID
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

func (t *RefreshToken) Redeemable(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
