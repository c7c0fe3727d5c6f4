package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// clients only send small control frames
	maxFrameBytes = 512
	sendBuffer    = 256
)

// EventPong answers an application-level {"type":"ping"} from a client
const EventPong = "pong"

// Client is one socket of a signed-in user. The hub owns send and closes it
// on unregister; replies go through replies, which only the read side writes.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	userID  uint64
	send    chan []byte
	replies chan []byte
}

// NewClient wraps an upgraded connection
func NewClient(hub *Hub, conn *websocket.Conn, userID uint64) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		userID:  userID,
		send:    make(chan []byte, sendBuffer),
		replies: make(chan []byte, 4),
	}
}

// Serve registers c with its hub and runs both pumps in the background
func (c *Client) Serve() {
	c.hub.Register(c)
	go c.WritePump()
	go c.ReadPump()
}

// ReadPump keeps the read deadline fresh and answers client pings.
// Anything else a client sends is dropped; the socket is push-only.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		var frame struct {
			Type string `json:"type"`
		}
		if json.Unmarshal(data, &frame) != nil || frame.Type != "ping" {
			continue
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		pong, _ := json.Marshal(Event{Type: EventPong, Payload: time.Now().Unix()})
		select {
		case c.replies <- pong:
		default:
		}
	}
}

// WritePump is the only writer on conn. It exits when the hub closes send
// or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	write := func(kind int, data []byte) bool {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		return c.conn.WriteMessage(kind, data) == nil
	}

	for {
		var ok bool
		select {
		case msg, open := <-c.send:
			if !open {
				write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			ok = write(websocket.TextMessage, msg)
		case msg := <-c.replies:
			ok = write(websocket.TextMessage, msg)
		case <-ticker.C:
			ok = write(websocket.PingMessage, nil)
		}
		if !ok {
			return
		}
	}
}
