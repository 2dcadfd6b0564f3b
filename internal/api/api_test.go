package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victornm/livequiz/internal/api"
	"github.com/victornm/livequiz/internal/domain"
	"github.com/victornm/livequiz/internal/event"
	"github.com/victornm/livequiz/internal/leaderboard"
	"github.com/victornm/livequiz/internal/quizbank"
	"github.com/victornm/livequiz/internal/registry"
	"github.com/victornm/livequiz/internal/ws"
)

type fixture struct {
	router *gin.Engine
	reg    *registry.Registry
	eb     *event.Bus
}

func makeAPI(t *testing.T) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	bank := quizbank.NewMemoryBank()
	bank.Register("demo", []domain.Question{
		{QuestionID: "q1", Text: "The sky is blue.", Type: domain.TypeTrueFalse, Answer: "true"},
	})

	eb := event.NewBus()
	gw := ws.NewGateway()
	reg := registry.New(registry.Config{
		Bank:     bank,
		Sender:   gw,
		EventBus: eb,
	})
	t.Cleanup(reg.Close)

	rs := miniredis.RunT(t)
	rc := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: []string{rs.Addr()},
	})
	ls := leaderboard.NewService(leaderboard.Config{
		EventBus: eb,
		Redis:    rc,
		Prefix:   "test",
	})

	router := gin.New()
	api.New(api.Config{
		Router:      router,
		Registry:    reg,
		Leaderboard: ls,
		Gateway:     gw,
	})

	return fixture{router: router, reg: reg, eb: eb}
}

func do(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAPI_CreateRoom(t *testing.T) {
	f := makeAPI(t)

	w := do(t, f.router, http.MethodPost, "/api/rooms", `{"quiz_id": "demo"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp api.CreateRoomResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Code, 6)

	_, err := f.reg.Get(resp.Code)
	assert.NoError(t, err, "the returned code should resolve to a live room")
}

func TestAPI_CreateRoomValidation(t *testing.T) {
	f := makeAPI(t)

	tests := map[string]string{
		"empty body":      ``,
		"missing quiz_id": `{}`,
		"blank quiz_id":   `{"quiz_id": ""}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			w := do(t, f.router, http.MethodPost, "/api/rooms", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAPI_CreateRoomUnknownQuiz(t *testing.T) {
	f := makeAPI(t)

	w := do(t, f.router, http.MethodPost, "/api/rooms", `{"quiz_id": "nope"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_GetRoom(t *testing.T) {
	f := makeAPI(t)
	ctx := context.Background()

	s, err := f.reg.Create(ctx, "demo")
	require.NoError(t, err)
	s.Join(ctx, "conn-1", "Alice")

	w := do(t, f.router, http.MethodGet, "/api/rooms/"+s.Code(), "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.RoomResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, s.Code(), resp.Code)
	assert.Equal(t, "lobby", resp.State)
	assert.Equal(t, []string{"Alice"}, resp.Players)
}

func TestAPI_GetRoomNotFound(t *testing.T) {
	f := makeAPI(t)

	w := do(t, f.router, http.MethodGet, "/api/rooms/NOSUCH", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_GetLeaderboard(t *testing.T) {
	f := makeAPI(t)
	ctx := context.Background()

	f.eb.Publish(ctx, domain.EventScoreUpdated{
		Room: "ABC123", Player: "Alice", Awarded: 800, Total: 800, UpdateTime: time.Now(),
	})
	f.eb.Stop()

	w := do(t, f.router, http.MethodGet, "/api/rooms/ABC123/leaderboard", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.LeaderboardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ABC123", resp.Room)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, api.LeaderboardEntry{Name: "Alice", Score: 800}, resp.Entries[0])
}

func TestAPI_GetLeaderboardNotFound(t *testing.T) {
	f := makeAPI(t)

	w := do(t, f.router, http.MethodGet, "/api/rooms/NOSUCH/leaderboard", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
