package sink

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"MarketBoard/internal/model"
)

const writeTimeout = 5 * time.Second

// Hub broadcasts each published session view to connected WebSocket clients
// and serves the latest view over plain JSON for one-shot consumers. The
// kiosk browser is the intended client of both.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	latest  []byte
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Kiosk clients load the page from anywhere on the LAN.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]bool),
	}
}

// Publish serializes the view once and pushes it to every connected client.
// Clients that fail a write are dropped.
func (h *Hub) Publish(view model.SessionView) {
	payload, err := json.Marshal(view)
	if err != nil {
		log.Printf("[ERROR] marshal session view: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = payload
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("[WARN] drop websocket client %s: %v", conn.RemoteAddr(), err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// ServeWS upgrades the connection, replays the latest view, and keeps the
// client registered until it disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WARN] websocket upgrade: %v", err)
		return
	}

	// The replay and the registration share the lock Publish writes under:
	// the connection must never have two concurrent writers.
	h.mu.Lock()
	if h.latest != nil {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, h.latest); err != nil {
			h.mu.Unlock()
			conn.Close()
			return
		}
	}
	h.clients[conn] = true
	h.mu.Unlock()
	log.Printf("[INFO] websocket client connected: %s", conn.RemoteAddr())

	// Read loop only to detect disconnect; inbound messages are ignored.
	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if h.clients[conn] {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}

// ServeSession returns the latest published view as JSON, or 204 before the
// first tick.
func (h *Hub) ServeSession(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	latest := h.latest
	h.mu.Unlock()

	if latest == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(latest)
}

// Routes returns the hub's HTTP handler.
func (h *Hub) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.ServeWS)
	mux.HandleFunc("/api/session", h.ServeSession)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}
