package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"MarketMonitor/internal/model"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 4
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans dashboards out to connected WebSocket clients.
// A client that falls behind by more than a few dashboards is dropped.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Serve upgrades the request and streams dashboards until the client goes away.
// initial, when set, is sent right after the upgrade.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, initial *model.Dashboard) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	if initial != nil {
		if msg, err := json.Marshal(initial); err == nil {
			c.send <- msg
		}
	}
	if !h.add(c) {
		conn.Close()
		return
	}
	log.Debug().Str("remote", r.RemoteAddr).Msg("websocket client connected")

	go c.writeLoop()
	// Reads only detect the peer closing the connection.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(c)
	log.Debug().Str("remote", r.RemoteAddr).Msg("websocket client disconnected")
}

func (c *client) writeLoop() {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Debug().Err(err).Msg("websocket write")
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish sends d to every connected client.
func (h *Hub) Publish(_ context.Context, d *model.Dashboard) error {
	msg, err := json.Marshal(d)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			log.Warn().Msg("websocket client too slow, dropping")
			delete(h.clients, c)
			close(c.send)
		}
	}
	return nil
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
