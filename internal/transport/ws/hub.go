package ws

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Hub tracks the open connections of every user and routes activity events
// to them. A user may be connected from several devices at once.
type Hub struct {
	clients map[uuid.UUID]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	deliver    chan *delivery
	done       chan struct{}

	log *zap.Logger
}

type delivery struct {
	userID uuid.UUID
	// only, when set, restricts the delivery to a single connection.
	only *Client
	data []byte
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan *delivery, 256),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run starts the Hub's main event loop until ctx is cancelled. Call this in a goroutine.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for _, conns := range h.clients {
				for client := range conns {
					close(client.send)
				}
			}
			h.clients = nil
			return

		case client := <-h.register:
			conns, ok := h.clients[client.userID]
			if !ok {
				conns = make(map[*Client]struct{})
				h.clients[client.userID] = conns
			}
			conns[client] = struct{}{}
			h.log.Debug("ws client connected",
				zap.String("user_id", client.userID.String()),
				zap.Int("user_connections", len(conns)))

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.deliver:
			for client := range h.clients[msg.userID] {
				if msg.only != nil && msg.only != client {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// Client buffer full - disconnect
					h.remove(client)
				}
			}
		}
	}
}

// SendToUser queues an event for every connection of userID. Users without
// open connections simply miss it.
func (h *Hub) SendToUser(userID uuid.UUID, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("ws hub: marshal event", zap.String("type", event.Type), zap.Error(err))
		return
	}
	h.enqueue(&delivery{userID: userID, data: data})
}

func (h *Hub) reply(client *Client, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.enqueue(&delivery{userID: client.userID, only: client, data: data})
}

func (h *Hub) enqueue(d *delivery) {
	select {
	case h.deliver <- d:
	case <-h.done:
	}
}

func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	conns, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}
	delete(conns, client)
	close(client.send)
	if len(conns) == 0 {
		delete(h.clients, client.userID)
	}
	h.log.Debug("ws client disconnected", zap.String("user_id", client.userID.String()))
}
