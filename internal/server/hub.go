package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Spectators never send
	// anything meaningful; this just bounds keepalive traffic.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The feed is read-only, so any origin may watch.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Frame is one message pushed to spectators.
type Frame struct {
	Type    string      `json:"type"` // "snapshot" or "cascade"
	MatchID string      `json:"match_id"`
	Data    interface{} `json:"data,omitempty"`
}

// Client is one spectator connection.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	matchID string
}

// Hub fans match frames out to the spectators watching each match. All map
// mutations happen in the Run loop; the mutex only covers reads from other
// goroutines.
type Hub struct {
	mu      sync.RWMutex
	matches map[string]map[*Client]bool

	broadcast  chan *Frame
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	logger     zerolog.Logger
}

// NewHub creates a hub. Call Run on its own goroutine before serving.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		matches:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Frame, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.With().Str("component", "ws_hub").Logger(),
	}
}

// Run processes registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case frame := <-h.broadcast:
			h.broadcastFrame(frame)
		}
	}
}

// Broadcast queues a frame for every spectator of the match. Frames are
// dropped when the hub cannot keep up; spectators resynchronize on the next
// snapshot.
func (h *Hub) Broadcast(matchID, frameType string, data interface{}) {
	frame := &Frame{Type: frameType, MatchID: matchID, Data: data}
	select {
	case h.broadcast <- frame:
	default:
		h.logger.Debug().Str("match_id", matchID).Str("type", frameType).Msg("Broadcast queue full, frame dropped")
	}
}

// ServeWS upgrades the request and attaches the spectator to a match feed.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, matchID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &Client{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, 256),
		matchID: matchID,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// ClientCount reports how many spectators watch a match.
func (h *Hub) ClientCount(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.matches[matchID])
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	if h.matches[client.matchID] == nil {
		h.matches[client.matchID] = make(map[*Client]bool)
	}
	h.matches[client.matchID][client] = true
	watchers := len(h.matches[client.matchID])
	h.mu.Unlock()

	h.logger.Debug().
		Str("match_id", client.matchID).
		Int("watchers", watchers).
		Msg("Spectator joined")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	clients, ok := h.matches[client.matchID]
	if ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)
			if len(clients) == 0 {
				delete(h.matches, client.matchID)
			}
		}
	}
	h.mu.Unlock()
}

func (h *Hub) broadcastFrame(frame *Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error().Err(err).Str("type", frame.Type).Msg("Failed to marshal frame")
		return
	}

	h.mu.Lock()
	clients := h.matches[frame.MatchID]
	var stale []*Client
	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Slow consumer; cut it loose rather than stall the loop.
			stale = append(stale, client)
		}
	}
	h.mu.Unlock()

	for _, client := range stale {
		h.unregisterClient(client)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for matchID, clients := range h.matches {
		for client := range clients {
			close(client.send)
		}
		delete(h.matches, matchID)
	}
}

// readPump discards spectator input and keeps the pong deadline fresh.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug().Err(err).Str("match_id", c.matchID).Msg("Spectator read error")
			}
			return
		}
	}
}

// writePump pushes queued frames and pings to the spectator.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
