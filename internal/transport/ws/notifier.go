package ws

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
)

// HubNotifier implements service.Notifier using the WebSocket Hub.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyNewFollower(followedID uuid.UUID, follower domain.UserSummary) {
	evt, err := NewEvent(EventTypeFollowNew, FollowNewPayload{Follower: follower})
	if err != nil {
		n.hub.log.Error("ws notifier: marshal error", zap.Error(err))
		return
	}
	n.hub.SendToUser(followedID, evt)
}

func (n *HubNotifier) NotifyReviewLiked(authorID, reviewID uuid.UUID, liker domain.UserSummary) {
	evt, err := NewEvent(EventTypeReviewLiked, ReviewLikedPayload{ReviewID: reviewID, LikedBy: liker})
	if err != nil {
		n.hub.log.Error("ws notifier: marshal error", zap.Error(err))
		return
	}
	n.hub.SendToUser(authorID, evt)
}
