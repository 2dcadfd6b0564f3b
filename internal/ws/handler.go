package ws

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/victornm/livequiz/internal/game"
	"github.com/victornm/livequiz/internal/registry"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades GET /rooms/:code/ws to a websocket attached to that
// room. Each connection gets a server-assigned ID that acts as the
// player key for the whole connection lifetime.
func Handler(g *Gateway, reg *registry.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Param("code")

		sess, err := reg.Get(code)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "room not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "ws: upgrade failed", "room", code, "error", err)
			return
		}

		client := newClient(uuid.NewString(), code, conn)
		g.register(client)

		go client.writePump()
		readPump(c, g, client, sess)
	}
}

// readPump consumes inbound events until the peer disconnects, routing
// each one into the room's session. It runs on the connection's own
// goroutine; the session serializes the actual mutations.
func readPump(c *gin.Context, g *Gateway, client *Client, sess *game.Session) {
	ctx := c.Request.Context()

	defer func() {
		g.unregister(client)
		_ = client.conn.Close()
		sess.Disconnect(ctx, client.id)
	}()

	for {
		var msg inbound
		if err := client.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "join":
			sess.Join(ctx, client.id, msg.Name)
		case "start":
			sess.Start(ctx, client.id)
		case "submit_answer":
			sess.SubmitAnswer(ctx, client.id, msg.Answer)
		default:
			// unknown types are ignored
		}
	}
}
