package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// MessageType represents the type of WebSocket event
type MessageType string

const (
	MessageTypeNewMessage     MessageType = "new_message"
	MessageTypeMessageStatus  MessageType = "message_status"
	MessageTypeNewEndorsement MessageType = "new_endorsement"
	MessageTypeError          MessageType = "error"
)

// WSMessage represents a WebSocket event sent to a client
type WSMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// NewMessagePayload notifies a recipient about an incoming message
type NewMessagePayload struct {
	ID             uint   `json:"id"`
	SenderUsername string `json:"sender_username"`
	Subject        string `json:"subject,omitempty"`
	SentAt         string `json:"sent_at"`
}

// MessageStatusPayload notifies a sender that their message was accepted or rejected
type MessageStatusPayload struct {
	MessageID         uint   `json:"message_id"`
	Status            string `json:"status"`
	RecipientUsername string `json:"recipient_username"`
}

// EndorsementPayload notifies a user about a new endorsement
type EndorsementPayload struct {
	ID               uint   `json:"id"`
	EndorserUsername string `json:"endorser_username"`
	Message          string `json:"message,omitempty"`
}

// Hub maintains the set of active clients and routes events to users
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// User connections: userID -> set of clients
	users map[uint]map[*Client]bool

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Events targeted at a single user
	notify chan *userEvent

	// Mutex for thread-safe operations
	mu sync.RWMutex

	// Logger
	logger *slog.Logger
}

type userEvent struct {
	userID  uint
	message []byte
}

// NewHub creates a new Hub instance
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		users:      make(map[uint]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		notify:     make(chan *userEvent, 256),
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			if h.users[client.userID] == nil {
				h.users[client.userID] = make(map[*Client]bool)
			}
			h.users[client.userID][client] = true
			h.mu.Unlock()
			if h.logger != nil {
				h.logger.Debug("client registered", slog.Uint64("user_id", uint64(client.userID)))
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				if conns, ok := h.users[client.userID]; ok {
					delete(conns, client)
					if len(conns) == 0 {
						delete(h.users, client.userID)
					}
				}
			}
			h.mu.Unlock()
			if h.logger != nil {
				h.logger.Debug("client unregistered", slog.Uint64("user_id", uint64(client.userID)))
			}

		case ev := <-h.notify:
			h.mu.RLock()
			conns := h.users[ev.userID]
			for client := range conns {
				select {
				case client.send <- ev.message:
				default:
					// Client buffer full, skip
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// send marshals the event and queues it for all of the user's connections
func (h *Hub) send(userID uint, msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to marshal event", slog.Any("error", err))
		}
		return
	}

	h.notify <- &userEvent{
		userID:  userID,
		message: data,
	}
}

// NotifyNewMessage notifies the recipient about an incoming message
func (h *Hub) NotifyNewMessage(recipientID uint, payload *NewMessagePayload) {
	h.send(recipientID, WSMessage{
		Type:    MessageTypeNewMessage,
		Payload: payload,
	})
}

// NotifyMessageStatus notifies the sender that their message was accepted or rejected
func (h *Hub) NotifyMessageStatus(senderID uint, payload *MessageStatusPayload) {
	h.send(senderID, WSMessage{
		Type:    MessageTypeMessageStatus,
		Payload: payload,
	})
}

// NotifyEndorsement notifies a user about a new endorsement on their profile
func (h *Hub) NotifyEndorsement(recipientID uint, payload *EndorsementPayload) {
	h.send(recipientID, WSMessage{
		Type:    MessageTypeNewEndorsement,
		Payload: payload,
	})
}
