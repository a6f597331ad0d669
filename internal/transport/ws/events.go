package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
)

// Event types - Client → Server
const (
	EventTypePing = "ping"
)

// Event types - Server → Client
const (
	EventTypeFollowNew   = "follow.new"
	EventTypeReviewLiked = "review.liked"
	EventTypePong        = "pong"
	EventTypeError       = "error"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

type FollowNewPayload struct {
	Follower domain.UserSummary `json:"follower"`
}

type ReviewLikedPayload struct {
	ReviewID uuid.UUID          `json:"reviewId"`
	LikedBy  domain.UserSummary `json:"likedBy"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}
