package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
	"github.com/hsm-gustavo/book-muse-backend/internal/service"
)

type testEnv struct {
	hub    *Hub
	issuer *service.TokenIssuer
	server *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(zap.NewNop())
	go hub.Run(ctx)

	issuer := service.NewTokenIssuer("ws-secret", "https://api.test", "https://api.test", time.Hour)
	srv := httptest.NewServer(ServeWS(hub, issuer, zap.NewNop()))
	t.Cleanup(srv.Close)

	return &testEnv{hub: hub, issuer: issuer, server: srv}
}

// connect dials as userID and waits for a pong, which guarantees the hub has
// registered the connection.
func (e *testEnv) connect(t *testing.T, userID uuid.UUID) *websocket.Conn {
	t.Helper()

	token, err := e.issuer.IssueAccessToken(userID, "reader@example.com")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(e.server.URL, "http") + "?token=" + token
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })

	require.NoError(t, wsjson.Write(ctx, conn, Event{Type: EventTypePing}))
	pong := readEvent(t, conn)
	require.Equal(t, EventTypePong, pong.Type)

	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var evt Event
	require.NoError(t, wsjson.Read(ctx, conn, &evt))
	return evt
}

func TestServeWS_RejectsMissingOrBadToken(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get(env.server.URL + "?token=not-a-jwt")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHubNotifier_FollowReachesEveryConnection(t *testing.T) {
	env := newTestEnv(t)
	followed := uuid.New()

	phone := env.connect(t, followed)
	laptop := env.connect(t, followed)

	follower := domain.UserSummary{ID: uuid.New(), Name: "Ana"}
	NewHubNotifier(env.hub).NotifyNewFollower(followed, follower)

	for _, conn := range []*websocket.Conn{phone, laptop} {
		evt := readEvent(t, conn)
		assert.Equal(t, EventTypeFollowNew, evt.Type)

		var payload FollowNewPayload
		require.NoError(t, json.Unmarshal(evt.Payload, &payload))
		assert.Equal(t, follower.ID, payload.Follower.ID)
		assert.Equal(t, "Ana", payload.Follower.Name)
	}
}

func TestHubNotifier_ReviewLikedOnlyReachesAuthor(t *testing.T) {
	env := newTestEnv(t)
	author := uuid.New()
	bystander := uuid.New()

	authorConn := env.connect(t, author)
	bystanderConn := env.connect(t, bystander)

	reviewID := uuid.New()
	liker := domain.UserSummary{ID: uuid.New(), Name: "Bruno"}
	NewHubNotifier(env.hub).NotifyReviewLiked(author, reviewID, liker)

	evt := readEvent(t, authorConn)
	assert.Equal(t, EventTypeReviewLiked, evt.Type)
	var payload ReviewLikedPayload
	require.NoError(t, json.Unmarshal(evt.Payload, &payload))
	assert.Equal(t, reviewID, payload.ReviewID)
	assert.Equal(t, liker.ID, payload.LikedBy.ID)

	// The bystander's next frame is the reply to its own ping, not the like.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, wsjson.Write(ctx, bystanderConn, Event{Type: EventTypePing}))
	assert.Equal(t, EventTypePong, readEvent(t, bystanderConn).Type)
}

func TestClient_UnknownEventGetsError(t *testing.T) {
	env := newTestEnv(t)
	conn := env.connect(t, uuid.New())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, wsjson.Write(ctx, conn, Event{Type: "channel.subscribe"}))

	evt := readEvent(t, conn)
	assert.Equal(t, EventTypeError, evt.Type)

	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(evt.Payload, &payload))
	assert.Equal(t, "UNKNOWN_EVENT", payload.Code)
}
