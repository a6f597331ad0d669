package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserFollow struct {
	FollowerID uuid.UUID `json:"followerId"`
	FollowedID uuid.UUID `json:"followedId"`
	CreatedAt  time.Time `json:"createdAt"`
}

type FollowCounts struct {
	Followers int `json:"followers"`
	Following int `json:"following"`
}

// FollowEntry is one row of a followers/following listing: the other user plus
// the time the edge was created, which drives ordering.
type FollowEntry struct {
	User       UserSummary
	FollowedAt time.Time
}
