// Package ws is the broadcast gateway: it owns every live websocket
// connection, fans outbound room events out to members and feeds inbound
// events into the session layer.
package ws

import (
	"sync"
)

// Gateway tracks connections by ID and by room. It implements
// game.Sender. Delivery is best-effort and ordered per connection; a
// connection whose buffer is full is detached so it can never block a
// room's progress.
type Gateway struct {
	mu    sync.RWMutex
	conns map[string]*Client
	rooms map[string]map[*Client]bool
}

func NewGateway() *Gateway {
	return &Gateway{
		conns: make(map[string]*Client),
		rooms: make(map[string]map[*Client]bool),
	}
}

func (g *Gateway) register(c *Client) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.conns[c.id] = c
	if g.rooms[c.room] == nil {
		g.rooms[c.room] = make(map[*Client]bool)
	}
	g.rooms[c.room][c] = true
}

func (g *Gateway) unregister(c *Client) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.conns[c.id]; !ok {
		return
	}

	g.detachLocked(c)
}

// detachLocked removes the client and closes its send channel, which
// terminates its writePump. Caller holds g.mu for writing.
func (g *Gateway) detachLocked(c *Client) {
	delete(g.conns, c.id)
	if members, ok := g.rooms[c.room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(g.rooms, c.room)
		}
	}
	close(c.send)
}

// ToConn delivers a message to a single connection. Unknown IDs are
// dropped silently: the connection may have gone away between the
// session's decision and this delivery.
func (g *Gateway) ToConn(connID string, msg any) {
	g.mu.Lock()
	defer g.mu.Unlock()

	c, ok := g.conns[connID]
	if !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		g.detachLocked(c)
	}
}

// ToRoom delivers a message to every connection attached to the room,
// skipping excluded connection IDs.
func (g *Gateway) ToRoom(code string, msg any, exclude ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for c := range g.rooms[code] {
		if excluded(c.id, exclude) {
			continue
		}

		select {
		case c.send <- msg:
		default:
			g.detachLocked(c)
		}
	}
}

// RoomSize reports how many connections are attached to a room.
func (g *Gateway) RoomSize(code string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms[code])
}

func excluded(id string, exclude []string) bool {
	for _, e := range exclude {
		if id == e {
			return true
		}
	}
	return false
}
