package ws

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeWait      = 10 * time.Second
	pingInterval   = 30 * time.Second
	maxMessageSize = 4096
	sendBufSize    = 64
)

// Client represents a single WebSocket connection.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uuid.UUID
	log    *zap.Logger

	send chan []byte
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, log *zap.Logger) *Client {
	conn.SetReadLimit(maxMessageSize)
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		log:    log,
		send:   make(chan []byte, sendBufSize),
	}
}

// ReadPump reads client events until the connection closes.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.leave(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		var event Event
		err := wsjson.Read(ctx, c.conn, &event)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				c.log.Debug("ws read error", zap.String("user_id", c.userID.String()), zap.Error(err))
			}
			return
		}

		c.handleEvent(&event)
	}
}

// WritePump writes queued events to the WebSocket and keeps it alive with pings.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			wctx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(wctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.log.Debug("ws write error", zap.String("user_id", c.userID.String()), zap.Error(err))
				return
			}

		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pctx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) handleEvent(event *Event) {
	switch event.Type {
	case EventTypePing:
		c.hub.reply(c, &Event{Type: EventTypePong, Timestamp: time.Now().Unix()})
	default:
		evt, err := NewEvent(EventTypeError, ErrorPayload{Code: "UNKNOWN_EVENT", Message: "unknown event type: " + event.Type})
		if err != nil {
			return
		}
		c.hub.reply(c, evt)
	}
}
