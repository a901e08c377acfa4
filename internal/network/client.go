package network

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

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

// Client represents an active observer connection. Observers are
// read-only: the only inbound message is a session filter.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// sessionFilter restricts broadcasts to one session when set.
	// Guarded by filterMu: ReadPump writes it, WritePump reads it.
	filterMu      sync.Mutex
	sessionFilter string
}

// NewClient creates a new WebSocket observer client.
func NewClient(hub *Hub, conn *websocket.Conn, sendBuffer int) *Client {
	if sendBuffer <= 0 {
		sendBuffer = 256
	}
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// observerCommand is the only inbound message shape observers may send.
type observerCommand struct {
	Type      string `json:"type"` // "SUBSCRIBE"
	SessionID string `json:"session_id"`
}

// ReadPump pumps messages from the websocket connection to the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("Observer read error: " + err.Error())
			}
			break
		}

		var cmd observerCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.hub.logger.Warn("Failed to parse observer command: " + err.Error())
			continue
		}

		if cmd.Type == "SUBSCRIBE" {
			c.filterMu.Lock()
			c.sessionFilter = cmd.SessionID
			c.filterMu.Unlock()
		}
	}
}

// wantsMessage reports whether the raw broadcast matches the client's
// session filter. An empty filter means all sessions.
func (c *Client) wantsMessage(message []byte) bool {
	c.filterMu.Lock()
	filter := c.sessionFilter
	c.filterMu.Unlock()

	if filter == "" {
		return true
	}
	var probe struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(message, &probe); err != nil {
		return true
	}
	return probe.SessionID == filter
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
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
			if !c.wantsMessage(message) {
				continue
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				queued := <-c.send
				if !c.wantsMessage(queued) {
					continue
				}
				w.Write([]byte{'\n'})
				w.Write(queued)
			}

			if err := w.Close(); err != nil {
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
