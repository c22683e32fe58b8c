package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/dom/lightprompt/internal/logger"
	"github.com/google/uuid"
)

// Hub fans chat events out to the clients subscribed to each chat session
type Hub struct {
	sessions   map[uuid.UUID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcast
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	mu         sync.RWMutex
}

type broadcast struct {
	sessionID uuid.UUID
	data      []byte
	except    *Client
}

func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcast, 256),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for _, clients := range h.sessions {
				for client := range clients {
					client.Close()
				}
			}
			h.sessions = make(map[uuid.UUID]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			clients, ok := h.sessions[client.sessionID]
			if !ok {
				clients = make(map[*Client]bool)
				h.sessions[client.sessionID] = clients
			}
			clients[client] = true
			h.mu.Unlock()
			client.sendMessage(MessageTypeSubscribed, SubscribedPayload{SessionID: client.sessionID.String()})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.sessions[client.sessionID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					client.Close()
				}
				if len(clients) == 0 {
					delete(h.sessions, client.sessionID)
				}
			}
			h.mu.Unlock()

		case b := <-h.broadcast:
			h.mu.RLock()
			for client := range h.sessions[b.sessionID] {
				if client == b.except {
					continue
				}
				if !client.trySend(b.data) {
					slog.Warn("dropping slow websocket client",
						"op", "websocket.Hub.Run",
						"sessionId", b.sessionID,
						"userId", client.userID)
					go func(c *Client) {
						select {
						case h.unregister <- c:
						case <-h.done:
						}
					}(client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Stop closes every client and blocks until Run has returned
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

// Register subscribes a client to its session. Safe to call once Run is going.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// PublishMessage sends a newly stored chat message to every subscriber of its session
func (h *Hub) PublishMessage(msg *domain.Message) {
	event, err := NewMessage(MessageTypeMessageCreated, msg)
	if err != nil {
		slog.Error("failed to encode chat message", "op", "websocket.Hub.PublishMessage", logger.Err(err))
		return
	}
	h.publish(msg.SessionID, event, nil)
}

func (h *Hub) publish(sessionID uuid.UUID, event *Message, except *Client) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal event", "op", "websocket.Hub.publish", logger.Err(err))
		return
	}

	select {
	case h.broadcast <- &broadcast{sessionID: sessionID, data: data, except: except}:
	case <-h.done:
	}
}

// ClientCount returns the number of clients watching a session
func (h *Hub) ClientCount(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}
