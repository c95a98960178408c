package feed

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// CostUpdate is the message fanned out to subscribers whenever a recipe's
// cost is recorded
type CostUpdate struct {
	BusinessID     string    `json:"business_id"`
	RecipeID       string    `json:"recipe_id"`
	RecipeName     string    `json:"recipe_name"`
	TotalCost      float64   `json:"total_cost"`
	CostPerServing float64   `json:"cost_per_serving"`
	Flags          int       `json:"flags"`
	RecordedAt     time.Time `json:"recorded_at"`
}

// Hub tracks cost feed subscribers and broadcasts updates to them
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]bool
}

// subscriber maintains one WebSocket connection with a client
type subscriber struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// NewHub creates an empty feed hub
func NewHub() *Hub {
	return &Hub{subscribers: make(map[*subscriber]bool)}
}

// HandleWebSocket upgrades the request and subscribes the client to cost
// updates
func (h *Hub) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	sub := &subscriber{
		conn: conn,
		send: make(chan []byte, 256),
		hub:  h,
	}
	h.add(sub)

	// Start the read and write pumps
	go sub.writePump()
	go sub.readPump()
}

// Broadcast fans an update out to every subscriber. A slow client drops
// messages rather than block the caller.
func (h *Hub) Broadcast(update CostUpdate) {
	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling cost update: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subscribers {
		select {
		case sub.send <- data:
		default:
			log.Println("WebSocket buffer full, dropping message")
		}
	}
}

// Subscribers returns the number of connected clients
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

func (h *Hub) add(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[sub] = true
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscribers[sub] {
		delete(h.subscribers, sub)
		close(sub.send)
	}
}

// readPump drains the connection and tears the subscription down when the
// client goes away. The feed is one-way; inbound payloads are discarded.
func (s *subscriber) readPump() {
	defer func() {
		s.hub.remove(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(512)
	s.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps queued updates to the connection and keeps it alive with
// pings
func (s *subscriber) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// The channel was closed
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := s.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
