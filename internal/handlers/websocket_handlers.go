package handlers

import (
	"log"
	"net/http"

	ws "github.com/gorilla/websocket"

	"pin-drop/internal/websocket"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin filtering happens at the CORS layer for HTTP routes; the
		// event stream is open to any local client.
		return true
	},
}

// HandleWebSocket upgrades the connection and subscribes the client to
// store-change events.
func (s *Server) HandleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("username")
		if username == "" {
			view, err := s.socialView()
			if err != nil {
				http.Error(w, "Failed to resolve viewer", http.StatusInternalServerError)
				return
			}
			username = view.Me
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for %s: %v", username, err)
			return
		}

		client := &websocket.Client{
			Hub:      s.Hub,
			Username: username,
			Conn:     conn,
			Send:     make(chan []byte, 256),
		}
		client.Hub.Register <- client

		log.Printf("WebSocket client registered for %s", username)

		go client.WritePump()
		go client.ReadPump()
	}
}
