// Package api exposes the HTTP surface: room creation and lookup,
// standings, and the websocket entry point for the live protocol.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/victornm/livequiz/internal/errors"
	"github.com/victornm/livequiz/internal/leaderboard"
	"github.com/victornm/livequiz/internal/registry"
	"github.com/victornm/livequiz/internal/ws"
)

type Config struct {
	Router      *gin.Engine
	Registry    *registry.Registry
	Leaderboard *leaderboard.Service
	Gateway     *ws.Gateway
}

type API struct {
	reg *registry.Registry
	ls  *leaderboard.Service
}

func New(c Config) *API {
	a := &API{
		reg: c.Registry,
		ls:  c.Leaderboard,
	}

	r := c.Router
	r.POST("/api/rooms", a.CreateRoom)
	r.GET("/api/rooms/:code", a.GetRoom)
	r.GET("/api/rooms/:code/leaderboard", a.GetLeaderboard)
	r.GET("/rooms/:code/ws", ws.Handler(c.Gateway, c.Registry))

	return a
}

type CreateRoomRequest struct {
	QuizID string `json:"quiz_id" binding:"required"`
}

type CreateRoomResponse struct {
	Code string `json:"code"`
}

// CreateRoom allocates a room code for the quiz and returns it to the
// caller; players then join over the room's websocket.
func (a *API) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, errors.New(errors.CodeInvalidArgument, errors.WithMessagef("quiz_id is required")))
		return
	}

	s, err := a.reg.Create(c.Request.Context(), req.QuizID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateRoomResponse{Code: s.Code()})
}

type RoomResponse struct {
	Code    string   `json:"code"`
	State   string   `json:"state"`
	Players []string `json:"players"`
}

// GetRoom reports whether a code resolves to a live room, mirroring the
// original "Room not found!" behavior for dead codes.
func (a *API) GetRoom(c *gin.Context) {
	s, err := a.reg.Get(c.Param("code"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	players := s.Players()
	names := make([]string, 0, len(players))
	for _, p := range players {
		if p.Active {
			names = append(names, p.Name)
		}
	}

	c.JSON(http.StatusOK, RoomResponse{
		Code:    s.Code(),
		State:   string(s.State()),
		Players: names,
	})
}

type LeaderboardResponse struct {
	Room    string             `json:"room"`
	Entries []LeaderboardEntry `json:"entries"`
}

type LeaderboardEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func (a *API) GetLeaderboard(c *gin.Context) {
	l, err := a.ls.GetLeaderboard(c.Request.Context(), leaderboard.GetLeaderboardRequest{
		Room: c.Param("code"),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := LeaderboardResponse{
		Room:    l.Room,
		Entries: make([]LeaderboardEntry, 0, len(l.Entries)),
	}
	for _, e := range l.Entries {
		resp.Entries = append(resp.Entries, LeaderboardEntry{Name: e.Name, Score: e.Score})
	}

	c.JSON(http.StatusOK, resp)
}

func abortWithError(c *gin.Context, err error) {
	e := errors.Convert(err)
	c.AbortWithStatusJSON(e.HTTPStatusCode(), gin.H{
		"code":    e.Code.String(),
		"message": e.Message,
	})
}
