package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Clients are constructed without a live connection here; delivery only
// touches the send channel, which is what these tests observe.
func attach(g *Gateway, id, room string) *Client {
	c := newClient(id, room, nil)
	g.register(c)
	return c
}

func drain(c *Client) []any {
	var out []any
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return out
			}
			out = append(out, msg)
		default:
			return out
		}
	}
}

func TestGateway_ToConn(t *testing.T) {
	g := NewGateway()
	a := attach(g, "c1", "ROOM01")
	b := attach(g, "c2", "ROOM01")

	g.ToConn("c1", "hello")

	assert.Equal(t, []any{"hello"}, drain(a))
	assert.Empty(t, drain(b))
}

func TestGateway_ToConnUnknownIDIsDropped(t *testing.T) {
	g := NewGateway()

	assert.NotPanics(t, func() {
		g.ToConn("ghost", "hello")
	})
}

func TestGateway_ToRoomFansOutToMembersOnly(t *testing.T) {
	g := NewGateway()
	a := attach(g, "c1", "ROOM01")
	b := attach(g, "c2", "ROOM01")
	other := attach(g, "c3", "ROOM02")

	g.ToRoom("ROOM01", "question")

	assert.Equal(t, []any{"question"}, drain(a))
	assert.Equal(t, []any{"question"}, drain(b))
	assert.Empty(t, drain(other), "other rooms must not receive the event")
}

func TestGateway_ToRoomExcludes(t *testing.T) {
	g := NewGateway()
	a := attach(g, "c1", "ROOM01")
	b := attach(g, "c2", "ROOM01")

	g.ToRoom("ROOM01", "secret", "c1")

	assert.Empty(t, drain(a))
	assert.Equal(t, []any{"secret"}, drain(b))
}

func TestGateway_OrderPreservedPerConnection(t *testing.T) {
	g := NewGateway()
	a := attach(g, "c1", "ROOM01")

	g.ToConn("c1", "first")
	g.ToRoom("ROOM01", "second")
	g.ToConn("c1", "third")

	assert.Equal(t, []any{"first", "second", "third"}, drain(a))
}

func TestGateway_SlowConsumerIsDetached(t *testing.T) {
	g := NewGateway()
	a := attach(g, "c1", "ROOM01")
	b := attach(g, "c2", "ROOM01")

	// Fill c1's buffer without draining it.
	for i := 0; i < sendBuffer; i++ {
		g.ToConn("c1", i)
	}

	// The overflowing delivery drops c1 but still reaches c2.
	g.ToRoom("ROOM01", "overflow")

	assert.Equal(t, 1, g.RoomSize("ROOM01"))
	assert.Equal(t, []any{"overflow"}, drain(b))

	// c1's channel was closed by the detach.
	_, open := <-a.send
	for open {
		_, open = <-a.send
	}
	assert.False(t, open)
}

func TestGateway_UnregisterTwiceIsSafe(t *testing.T) {
	g := NewGateway()
	a := attach(g, "c1", "ROOM01")

	g.unregister(a)
	require.NotPanics(t, func() {
		g.unregister(a)
	})

	assert.Equal(t, 0, g.RoomSize("ROOM01"))
}
