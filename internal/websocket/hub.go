package websocket

import (
	"sync"

	"github.com/careerhub/backend/internal/metrics"
	"github.com/google/uuid"
)

// Message is an event delivered to connected clients.
type Message struct {
	Type     string    `json:"type"`
	JobID    string    `json:"job_id,omitempty"`
	JobTitle string    `json:"job_title,omitempty"`
	Company  string    `json:"company,omitempty"`
	Location string    `json:"location,omitempty"`
	Category string    `json:"category,omitempty"`
	Actor    string    `json:"actor,omitempty"`
	To       uuid.UUID `json:"-"` // empty = broadcast to everyone
}

// Hub maintains the set of active clients and routes messages to them.
// A message with a To field goes only to that user's connections; without
// one it goes to everyone.
type Hub struct {
	clients map[uuid.UUID]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message

	mu sync.RWMutex
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()
			metrics.Default().IncWSConnections()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.userID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.userID)
					}
					metrics.Default().DecWSConnections()
				}
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			if message.To != uuid.Nil {
				h.deliver(message.To, message)
			} else {
				for userID := range h.clients {
					h.deliver(userID, message)
				}
			}
			h.mu.Unlock()
		}
	}
}

// deliver sends to every connection of one user, dropping connections
// whose buffers are full. Callers hold the write lock: a drop mutates
// the clients map and the connection gauge.
func (h *Hub) deliver(userID uuid.UUID, message *Message) {
	clients := h.clients[userID]
	for client := range clients {
		select {
		case client.send <- message:
		default:
			close(client.send)
			delete(clients, client)
			metrics.Default().DecWSConnections()
		}
	}
	if len(clients) == 0 {
		delete(h.clients, userID)
	}
}

// Broadcast queues a message for delivery.
func (h *Hub) Broadcast(msg *Message) {
	h.broadcast <- msg
}

// ClientCount returns the number of active connections for a user.
func (h *Hub) ClientCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// TotalConnections returns the number of active connections across all users.
func (h *Hub) TotalConnections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}
