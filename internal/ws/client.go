package ws

import (
	"github.com/gorilla/websocket"
)

// sendBuffer bounds per-connection backlog. A client that cannot drain
// its buffer is dropped rather than allowed to stall its room.
const sendBuffer = 16

// Client is one websocket connection attached to a room.
type Client struct {
	id   string
	room string
	conn *websocket.Conn
	send chan any
}

func newClient(id, room string, conn *websocket.Conn) *Client {
	return &Client{
		id:   id,
		room: room,
		conn: conn,
		send: make(chan any, sendBuffer),
	}
}

func (c *Client) ID() string { return c.id }

// writePump drains the send channel onto the wire, preserving
// per-connection ordering. It exits when the channel is closed by the
// gateway or the peer goes away.
func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// inbound is the client-to-server message envelope. The room is implied
// by the connection's URL, so payloads carry only the event fields.
type inbound struct {
	Type   string `json:"type"`             // "join", "start", "submit_answer"
	Name   string `json:"name,omitempty"`   // join
	Answer string `json:"answer,omitempty"` // submit_answer
}
