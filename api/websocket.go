package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/seenimoa/quantcore/internal/metrics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is enforced on the REST routes only
	},
}

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// WebSocket message types.
const (
	MsgWelcome             = "welcome"
	MsgCalculationComplete = "calculation_complete"
	MsgSubscribed          = "subscribed"
	MsgPong                = "pong"
)

// WSMessage is a message sent over WebSocket connections.
type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// CalculationEvent is the payload of a calculation_complete message.
type CalculationEvent struct {
	Kind      string  `json:"kind"`
	RequestID string  `json:"request_id,omitempty"`
	Points    int     `json:"points,omitempty"`
	Value     float64 `json:"value,omitempty"`
}

// ── Hub ──

// WSHub manages WebSocket connections and message broadcasting.
type WSHub struct {
	mu         sync.RWMutex
	clients    map[*WSClient]bool
	broadcast  chan WSMessage
	register   chan *WSClient
	unregister chan *WSClient
	quit       chan struct{}
	stopOnce   sync.Once
}

// WSClient represents a single WebSocket connection.
type WSClient struct {
	ID   string
	hub  *WSHub
	send chan WSMessage
}

// NewWSHub creates a new WebSocket hub.
func NewWSHub() *WSHub {
	return &WSHub{
		clients:    make(map[*WSClient]bool),
		broadcast:  make(chan WSMessage, 256),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
		quit:       make(chan struct{}),
	}
}

// NewWSClient creates a client with a fresh id and a buffered send queue.
func NewWSClient(hub *WSHub) *WSClient {
	return &WSClient{
		ID:   uuid.NewString(),
		hub:  hub,
		send: make(chan WSMessage, 256),
	}
}

// Run starts the hub event loop. It returns after Stop.
func (h *WSHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.WebSocketClients.Inc()
		case client := <-h.unregister:
			h.remove(client)
		case msg := <-h.broadcast:
			var slow []*WSClient
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()
			// Slow clients are disconnected
			for _, client := range slow {
				h.remove(client)
			}
		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
				metrics.WebSocketClients.Dec()
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *WSHub) remove(client *WSClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		metrics.WebSocketClients.Dec()
	}
}

// Stop terminates Run and closes every client connection.
func (h *WSHub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

// Broadcast sends a message to all connected WebSocket clients.
func (h *WSHub) Broadcast(msg WSMessage) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	select {
	case h.broadcast <- msg:
	default:
		// Drop message if broadcast channel is full
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Register adds a client to the hub.
func (h *WSHub) Register(client *WSClient) {
	select {
	case h.register <- client:
	case <-h.quit:
		close(client.send)
	}
}

// Unregister removes a client from the hub.
func (h *WSHub) Unregister(client *WSClient) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// ── Connection handling ──

// handleWebSocket upgrades HTTP connections to WebSocket. Clients receive a
// welcome message carrying their id, then every calculation_complete event.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := NewWSClient(s.wsHub)
	client.send <- WSMessage{
		Type:      MsgWelcome,
		Data:      map[string]string{"client_id": client.ID},
		Timestamp: time.Now().UTC(),
	}
	s.wsHub.Register(client)
	s.logger.Debug("websocket client connected", zap.String("client_id", client.ID))

	// Start reader and writer goroutines
	go s.wsWritePump(conn, client)
	go s.wsReadPump(conn, client)
}

// wsReadPump pumps messages from the WebSocket connection to the hub.
func (s *Server) wsReadPump(conn *websocket.Conn, client *WSClient) {
	defer func() {
		client.hub.Unregister(client)
		conn.Close()
		s.logger.Debug("websocket client disconnected", zap.String("client_id", client.ID))
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read error", zap.String("client_id", client.ID), zap.Error(err))
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		var reply WSMessage
		switch msg.Type {
		case "subscribe":
			reply = WSMessage{Type: MsgSubscribed, Data: msg.Data}
		case "ping":
			reply = WSMessage{Type: MsgPong}
		default:
			continue
		}
		reply.Timestamp = time.Now().UTC()
		select {
		case client.send <- reply:
		default:
		}
	}
}

// wsWritePump pumps messages from the hub to the WebSocket connection.
func (s *Server) wsWritePump(conn *websocket.Conn, client *WSClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// notify broadcasts a calculation_complete event.
func (s *Server) notify(r *http.Request, ev CalculationEvent) {
	ev.RequestID = requestID(r)
	s.wsHub.Broadcast(WSMessage{Type: MsgCalculationComplete, Data: ev})
}
