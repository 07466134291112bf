package render

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub pushes template-change events to connected pages so open tabs
// follow an admin switch without reloading.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
}

// NewHub creates an empty hub. checkOrigin relaxes the origin check for
// development setups that serve the admin panel from another port.
func NewHub(allowAllOrigins bool) *Hub {
	h := &Hub{clients: make(map[*websocket.Conn]chan []byte)}
	if allowAllOrigins {
		h.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}
	return h
}

type templateEvent struct {
	Type       string `json:"type"`
	TemplateID string `json:"templateId"`
}

// TemplateChanged broadcasts the new active template id to every
// connected page. Implements the template API's notifier.
func (h *Hub) TemplateChanged(id string) {
	msg, err := json.Marshal(templateEvent{Type: "template-changed", TemplateID: id})
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, send := range h.clients {
		select {
		case send <- msg:
		default:
			// Slow consumer: drop it rather than stall the broadcast.
			close(send)
			delete(h.clients, conn)
		}
	}
}

// ServeWS upgrades the request and keeps the connection subscribed
// until the peer goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("render: websocket upgrade: %v", err)
		return
	}

	send := make(chan []byte, 8)
	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()

	go h.writePump(conn, send)
	h.readPump(conn)
}

func (h *Hub) writePump(conn *websocket.Conn, send chan []byte) {
	for msg := range send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
	conn.Close()
}

// readPump discards inbound messages; it exists to detect the close.
func (h *Hub) readPump(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	if send, ok := h.clients[conn]; ok {
		close(send)
		delete(h.clients, conn)
	}
	h.mu.Unlock()
	conn.Close()
}

// ClientCount reports the number of connected pages.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
