package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 0
	MaxRating = 5
)

type Review struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Rating        float64    `json:"rating"`
	OpenLibraryID string     `json:"openLibraryId"`
	UserID        *uuid.UUID `json:"userId"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type ReviewAuthor struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	ProfilePicture *string   `json:"profilePicture"`
}

// ReviewListItem is a review as it appears in book/user listings.
type ReviewListItem struct {
	Review
	Author    *ReviewAuthor `json:"author"`
	LikeCount int           `json:"likeCount"`
}

type ReviewDetail struct {
	Review
	Author    *ReviewAuthor `json:"author"`
	LikeCount int           `json:"likeCount"`
	LikedByMe bool          `json:"likedByMe"`
}

type RecentReview struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Rating      float64   `json:"rating"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ReviewLike struct {
	UserID    uuid.UUID `json:"userId"`
	ReviewID  uuid.UUID `json:"reviewId"`
	CreatedAt time.Time `json:"createdAt"`
}
