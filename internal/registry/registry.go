// Package registry owns the process-wide table of live rooms. It is the
// sole routing path from a room code to its session, and the only shared
// mutable structure outside of each session's own state.
package registry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/victornm/livequiz/internal/domain"
	"github.com/victornm/livequiz/internal/errors"
	"github.com/victornm/livequiz/internal/event"
	"github.com/victornm/livequiz/internal/game"
	"github.com/victornm/livequiz/internal/quizbank"
)

type Config struct {
	Bank     quizbank.Bank
	Sender   game.Sender
	EventBus *event.Bus

	// IdleTimeout destroys rooms with no inbound activity for longer
	// than this duration. Zero disables reaping.
	IdleTimeout time.Duration

	HostOnlyStart           bool
	SingleAnswerPerQuestion bool

	// Now overrides the clock, for tests.
	Now func() time.Time
}

type Registry struct {
	bank   quizbank.Bank
	sender game.Sender
	eb     *event.Bus
	now    func() time.Time

	idleTimeout  time.Duration
	hostOnly     bool
	singleAnswer bool

	mu    sync.Mutex
	rooms map[string]*game.Session

	stop chan struct{}
	once sync.Once
}

func New(c Config) *Registry {
	now := c.Now
	if now == nil {
		now = time.Now
	}

	r := &Registry{
		bank:         c.Bank,
		sender:       c.Sender,
		eb:           c.EventBus,
		now:          now,
		idleTimeout:  c.IdleTimeout,
		hostOnly:     c.HostOnlyStart,
		singleAnswer: c.SingleAnswerPerQuestion,
		rooms:        make(map[string]*game.Session),
		stop:         make(chan struct{}),
	}

	if r.idleTimeout > 0 {
		go r.reapLoop()
	}

	return r
}

// Create materializes the quiz's question list, allocates a fresh room
// code and registers a new lobby session under it. The collision check
// and the registration happen under the same lock, so two concurrent
// creates can never share a code.
func (r *Registry) Create(ctx context.Context, quizID string) (*game.Session, error) {
	questions, err := r.bank.QuestionsForQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	code := game.GenerateCode(func(c string) bool {
		_, live := r.rooms[c]
		return live
	})

	s := game.NewSession(game.SessionConfig{
		Code:                    code,
		Questions:               questions,
		Sender:                  r.sender,
		EventBus:                r.eb,
		HostOnlyStart:           r.hostOnly,
		SingleAnswerPerQuestion: r.singleAnswer,
		Now:                     r.now,
	})
	r.rooms[code] = s
	r.mu.Unlock()

	slog.InfoContext(ctx, "registry: room created", "room", code, "quiz", quizID)
	if r.eb != nil {
		r.eb.Publish(ctx, domain.EventRoomCreated{Room: code})
	}

	return s, nil
}

// Get resolves a room code to its live session.
func (r *Registry) Get(code string) (*game.Session, error) {
	r.mu.Lock()
	s, ok := r.rooms[code]
	r.mu.Unlock()

	if !ok {
		return nil, errors.New(errors.CodeNotFound,
			errors.WithMessagef("room not found: %s", code))
	}
	return s, nil
}

// Destroy removes the room from the table; its code becomes reusable.
func (r *Registry) Destroy(ctx context.Context, code string) {
	r.mu.Lock()
	_, ok := r.rooms[code]
	delete(r.rooms, code)
	r.mu.Unlock()

	if !ok {
		return
	}

	slog.InfoContext(ctx, "registry: room destroyed", "room", code)
	if r.eb != nil {
		r.eb.Publish(ctx, domain.EventRoomDestroyed{Room: code})
	}
}

// Len reports the number of live rooms.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

// Close stops the idle reaper. Live rooms are dropped with the process.
func (r *Registry) Close() {
	r.once.Do(func() { close(r.stop) })
}

func (r *Registry) reapLoop() {
	ticker := time.NewTicker(r.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.reap(r.now().Add(-r.idleTimeout))
		case <-r.stop:
			return
		}
	}
}

// reap destroys every room whose last inbound activity predates cutoff.
func (r *Registry) reap(cutoff time.Time) {
	r.mu.Lock()
	var idle []string
	for code, s := range r.rooms {
		if s.LastActive().Before(cutoff) {
			idle = append(idle, code)
		}
	}
	r.mu.Unlock()

	ctx := context.Background()
	for _, code := range idle {
		slog.InfoContext(ctx, "registry: reaping idle room", "room", code)
		r.Destroy(ctx, code)
	}
}
