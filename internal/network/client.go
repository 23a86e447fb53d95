package network

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/polarnight-games/outpost31/internal/engine"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 1024
	// Minimum gap between commands from one connection.
	commandCooldown = 200 * time.Millisecond
)

// ClientCommand is an incoming frame from the frontend.
type ClientCommand struct {
	Type    string          `json:"type"` // "ACTION", "ADVANCE", "SNAPSHOT"
	ActorID string          `json:"actor_id,omitempty"`
	Action  *engine.Action  `json:"action,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// commandResult is what a command sends back on the issuing connection.
// Broadcastable consequences travel via the hub, this is only the ack.
type commandResult struct {
	Type  string      `json:"type"` // "ACK", "ERROR", "SNAPSHOT"
	Error string      `json:"error,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

// Client holds one WebSocket connection.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	lastCommand time.Time
}

// NewClient creates a WebSocket client bound to the hub.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// ReadPump pumps commands from the websocket connection into the engine.
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
				c.hub.logger.Error("websocket read failed", "error", err)
			}
			break
		}

		var cmd ClientCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.reply(commandResult{Type: "ERROR", Error: "malformed command"})
			continue
		}
		c.handleCommand(cmd)
	}
}

func (c *Client) handleCommand(cmd ClientCommand) {
	if time.Since(c.lastCommand) < commandCooldown {
		c.reply(commandResult{Type: "ERROR", Error: "rate limit exceeded"})
		return
	}
	c.lastCommand = time.Now()

	switch cmd.Type {
	case "ACTION":
		if cmd.Action == nil || cmd.ActorID == "" {
			c.reply(commandResult{Type: "ERROR", Error: "ACTION needs actor_id and action"})
			return
		}
		if err := c.hub.ApplyAction(cmd.ActorID, *cmd.Action); err != nil {
			c.reply(commandResult{Type: "ERROR", Error: err.Error()})
			return
		}
		c.reply(commandResult{Type: "ACK"})

	case "ADVANCE":
		if err := c.hub.AdvanceTurn(); err != nil {
			c.reply(commandResult{Type: "ERROR", Error: err.Error()})
			return
		}
		c.reply(commandResult{Type: "ACK"})

	case "SNAPSHOT":
		c.reply(commandResult{Type: "SNAPSHOT", Data: c.hub.Snapshot()})

	default:
		c.reply(commandResult{Type: "ERROR", Error: "unknown command type " + cmd.Type})
	}
}

func (c *Client) reply(res commandResult) {
	payload, err := json.Marshal(res)
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
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

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
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
