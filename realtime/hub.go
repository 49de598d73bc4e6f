package realtime

import "sync"

// Client is one websocket connection belonging to a user. The handler owns
// the connection; the hub only fans payloads into Send.
type Client struct {
	UserID uint
	Send   chan []byte
}

// Hub routes in-app notifications to connected clients, keyed by user id.
// A user may hold several connections (multiple tabs); all of them receive
// the payload.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[uint]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*Client]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[c.UserID]; ok {
		if _, ok := conns[c]; ok {
			delete(conns, c)
			close(c.Send)
			if len(conns) == 0 {
				delete(h.clients, c.UserID)
			}
		}
	}
}

// Push delivers the payload to every connection of the user and returns how
// many received it. A client with a full send buffer is skipped rather than
// blocking the caller.
func (h *Hub) Push(userID uint, payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for c := range h.clients[userID] {
		select {
		case c.Send <- payload:
			delivered++
		default:
		}
	}
	return delivered
}
