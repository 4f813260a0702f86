package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Event is the envelope broadcast to subscribed clients whenever a store
// mutates: pin.created, pin.updated, pin.deleted, pin.liked, pin.commented,
// pins.cleared, social.followed, social.unfollowed.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	At      int64       `json:"at"` // epoch ms
}

// MessageToSend defines the structure for sending a message to a specific user.
type MessageToSend struct {
	TargetUsername string
	Payload        []byte
}

// Hub maintains the set of active clients and broadcasts messages.
type Hub struct {
	// Registered clients. Maps username to a set of active client connections.
	Clients map[string]map[*Client]bool

	// Inbound messages fanned out to every connected client.
	Broadcast chan []byte

	// Channel for sending messages to specific users.
	SendDirect chan *MessageToSend

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Mutex to protect concurrent access to the clients map.
	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte, 64),
		SendDirect: make(chan *MessageToSend),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Clients:    make(map[string]map[*Client]bool),
	}
}

// Run starts the hub's processing loop.
func (h *Hub) Run() {
	log.Println("WebSocket Hub started.")
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.Clients[client.Username]; !ok {
				h.Clients[client.Username] = make(map[*Client]bool)
			}
			h.Clients[client.Username][client] = true
			log.Printf("WebSocket Client registered for %s. Total connections for user: %d", client.Username, len(h.Clients[client.Username]))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if userClients, ok := h.Clients[client.Username]; ok {
				if _, clientOk := userClients[client]; clientOk {
					delete(userClients, client)
					if len(userClients) == 0 {
						delete(h.Clients, client.Username)
					}
				}
			}
			h.mu.Unlock()

		case message := <-h.Broadcast:
			h.mu.RLock()
			for _, userClients := range h.Clients {
				for client := range userClients {
					select {
					case client.Send <- message:
					default:
						log.Printf("Broadcast send buffer full for client of %s", client.Username)
					}
				}
			}
			h.mu.RUnlock()

		case directMessage := <-h.SendDirect:
			h.mu.RLock()
			if userClients, ok := h.Clients[directMessage.TargetUsername]; ok {
				for client := range userClients {
					select {
					case client.Send <- directMessage.Payload:
					default:
						log.Printf("Send channel full for client of %s. Message dropped for this client.", client.Username)
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish broadcasts a store-change event to every subscribed client. This
// is the unsubscribe-free side of the pub-sub seam: actors publish, the hub
// fans out, and clients that fell behind simply miss the event.
func (h *Hub) Publish(event string, payload interface{}) {
	data, err := json.Marshal(Event{
		Type:    event,
		Payload: payload,
		At:      time.Now().UnixMilli(),
	})
	if err != nil {
		log.Printf("Hub: failed to encode %s event: %v", event, err)
		return
	}
	select {
	case h.Broadcast <- data:
	case <-time.After(1 * time.Second):
		log.Printf("Timeout queuing %s event. Hub might be busy or blocked.", event)
	}
}

// SendDirectMessage sends a payload to one user's connections only.
func (h *Hub) SendDirectMessage(targetUsername string, payload []byte) {
	message := &MessageToSend{
		TargetUsername: targetUsername,
		Payload:        payload,
	}
	select {
	case h.SendDirect <- message:
	case <-time.After(1 * time.Second):
		log.Printf("Timeout queuing message in hub's SendDirect channel for %s. Hub might be busy or blocked.", targetUsername)
	}
}
