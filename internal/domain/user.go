package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	PasswordHash   string    `json:"-"`
	ProfilePicture *string   `json:"profilePicture"`
	// PictureKey is the storage key of an uploaded picture. It is nil when the
	// picture was set as a plain URL.
	PictureKey     *string   `json:"-"`
	Role           string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// UserSummary is the public, slim view of a user used in listings.
type UserSummary struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	ProfilePicture *string   `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
	}
}

type UserProfile struct {
	UserSummary
	ReadCount int `json:"readCount"`
}

// ProfileCounts are the derived numbers shown on a profile page.
type ProfileCounts struct {
	FollowersCount int `json:"followersCount"`
	FollowingCount int `json:"followingCount"`
	ReadBooksCount int `json:"readBooksCount"`
}

type FullUserProfile struct {
	UserSummary
	ProfileCounts
	IsFollowing   *bool          `json:"isFollowing,omitempty"`
	RecentReviews []RecentReview `json:"recentReviews"`
}
