// Package websocket pushes view-state change events to connected UIs.
package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The UI is served from a different origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event is one change notification. Type names the state that changed
// ("filters", "columns", "selection", "feed", "job"); Data is its new value.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*client]bool
	Broadcast  chan []byte
	register   chan *client
	unregister chan *client
	quit       chan struct{}
	stopOnce   sync.Once
	log        *zap.Logger
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func NewHub() *Hub {
	return NewHubWithLogger(nil)
}

func NewHubWithLogger(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*client]bool),
		Broadcast:  make(chan []byte, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		quit:       make(chan struct{}),
		log:        log,
	}
}

// Run serves the hub until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case message := <-h.Broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Slow client; drop it rather than stall everyone else.
					delete(h.clients, c)
					close(c.send)
				}
			}
		case <-h.quit:
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return
		}
	}
}

// Stop ends Run and disconnects every client. Later calls do nothing.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

// BroadcastJSON encodes v and queues it for every client. It never blocks
// the caller: when the queue is full the message is dropped.
func (h *Hub) BroadcastJSON(v any) {
	message, err := json.Marshal(v)
	if err != nil {
		h.log.Warn("Could not encode websocket message", zap.Error(err))
		return
	}
	select {
	case h.Broadcast <- message:
	default:
		h.log.Warn("Websocket broadcast queue full, dropping message")
	}
}

// Publish broadcasts a typed change event.
func (h *Hub) Publish(eventType string, data any) {
	h.BroadcastJSON(Event{Type: eventType, Data: data})
}

// ServeWs upgrades the request and registers the connection with the hub.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Info("Websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.quit:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump only exists to process control frames and notice disconnects.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.quit:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
