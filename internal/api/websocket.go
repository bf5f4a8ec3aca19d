package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"skypop/internal/sim"
)

const (
	// MaxWSConnectionsTotal caps concurrent WebSocket connections.
	MaxWSConnectionsTotal = 200

	// MaxWSConnectionsPerIP caps connections per IP.
	MaxWSConnectionsPerIP = 5

	// hudBroadcastInterval is how often the HUD snapshot goes out.
	hudBroadcastInterval = 100 * time.Millisecond
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if IsAllowedOrigin(origin) {
			return true
		}
		log.Printf("api: websocket rejected, origin %s", origin)
		RecordConnectionRejected("origin")
		return false
	},
}

// IsAllowedOrigin checks an Origin header against the allow list.
// Empty origins (non-browser clients) are accepted.
func IsAllowedOrigin(origin string) bool {
	if origin == "" {
		return true
	}
	return strings.HasPrefix(origin, "http://localhost") ||
		strings.HasPrefix(origin, "http://127.0.0.1")
}

type wsClient struct {
	conn *websocket.Conn
	ip   string
}

// WebSocketHub manages the presentation-side connections: it pushes HUD
// snapshots and the discrete event stream out and accepts input commands
// (anchor, fire, stop, reset) in. The simulation never waits on it.
type WebSocketHub struct {
	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	mu         sync.RWMutex

	wsLimiter *WebSocketRateLimiter
}

// NewWebSocketHub creates a hub with connection limiting.
func NewWebSocketHub() *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		wsLimiter:  NewWebSocketRateLimiter(MaxWSConnectionsPerIP),
	}
}

// Run processes register/unregister/broadcast traffic. Call in a goroutine.
func (h *WebSocketHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			h.mu.Unlock()
			log.Printf("api: client connected from %s (%d total)", client.ip, h.ClientCount())
			UpdateWSConnections(h.ClientCount())

		case conn := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[conn]; ok {
				h.wsLimiter.Release(client.ip)
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()
			UpdateWSConnections(h.ClientCount())

		case message := <-h.broadcast:
			h.mu.RLock()
			var dead []*websocket.Conn
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					dead = append(dead, conn)
				}
			}
			h.mu.RUnlock()
			for _, conn := range dead {
				h.mu.Lock()
				if client, ok := h.clients[conn]; ok {
					h.wsLimiter.Release(client.ip)
					delete(h.clients, conn)
					conn.Close()
				}
				h.mu.Unlock()
			}
			IncrementWSMessages()
		}
	}
}

// Broadcast queues a message for all clients; drops under backpressure.
func (h *WebSocketHub) Broadcast(event string, data interface{}) {
	msg := map[string]interface{}{
		"event": event,
		"data":  data,
	}
	jsonBytes, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- jsonBytes:
	default:
	}
}

// ClientCount returns the number of connected clients.
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// StartBroadcastLoops starts the periodic HUD push and the event stream
// forwarder.
func (h *WebSocketHub) StartBroadcastLoops(engine EngineInterface, events <-chan sim.Event) {
	go func() {
		ticker := time.NewTicker(hudBroadcastInterval)
		defer ticker.Stop()
		for range ticker.C {
			if h.ClientCount() == 0 {
				continue
			}
			snap := engine.Snapshot()
			h.Broadcast("hud:state", snap)
			UpdateSimGauges(len(snap.Entities), len(snap.Projectiles), snap.Score)
		}
	}()

	go func() {
		for ev := range events {
			RecordSessionEvent(ev.Type.String())
			if ev.Type == sim.EventTypeTick {
				continue // tick events are replay bookkeeping, not HUD feedback
			}
			h.Broadcast("session:"+ev.Type.String(), json.RawMessage(ev.Payload))
		}
	}()
}

// HandleWebSocket upgrades a connection and pumps its input commands into
// the engine.
func (h *WebSocketHub) HandleWebSocket(engine EngineInterface, w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if h.ClientCount() >= MaxWSConnectionsTotal {
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}
	if !h.wsLimiter.Allow(ip) {
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("api: websocket upgrade error: %v", err)
		h.wsLimiter.Release(ip)
		return
	}

	h.register <- &wsClient{conn: conn, ip: ip}

	go func() {
		defer func() {
			h.unregister <- conn
		}()
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var msg struct {
				Command string  `json:"command"`
				X       float64 `json:"x"`
				Y       float64 `json:"y"`
			}
			if err := json.Unmarshal(message, &msg); err != nil {
				continue
			}
			switch msg.Command {
			case "anchor":
				engine.SelectAnchor(msg.X, msg.Y)
			case "fire":
				engine.Fire()
			case "stop":
				engine.EndSession()
			case "reset":
				engine.ResetSession()
			}
		}
	}()
}
