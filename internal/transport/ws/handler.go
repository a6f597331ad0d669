package ws

import (
	"net/http"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/hsm-gustavo/book-muse-backend/internal/service"
)

type TokenParser interface {
	ParseAccessToken(token string) (*service.Claims, error)
}

// ServeWS returns an HTTP handler that upgrades to WebSocket.
// Auth is done via ?token=xxx query param (WebSocket can't send headers).
func ServeWS(hub *Hub, parser TokenParser, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenStr := r.URL.Query().Get("token")
		if tokenStr == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		claims, err := parser.ParseAccessToken(tokenStr)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			log.Warn("ws accept failed", zap.Error(err))
			return
		}

		client := NewClient(hub, conn, userID, log)
		if !hub.join(client) {
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		}

		// The request context lives as long as this handler, so the read
		// loop runs here and the writer in its own goroutine.
		ctx := r.Context()
		go client.WritePump(ctx)
		client.ReadPump(ctx)
	}
}
