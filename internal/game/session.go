package game

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/victornm/livequiz/internal/domain"
	"github.com/victornm/livequiz/internal/event"
)

// State is the lifecycle phase of a room.
type State string

const (
	StateLobby    State = "lobby"
	StateRunning  State = "running"
	StateFinished State = "finished"
)

// Rejection codes carried on ErrorMessage.
const (
	errInvalidTransition = "invalid_transition"
	errNotInRoom         = "not_in_room"
	errNotHost           = "not_host"
	errAlreadyAnswered   = "already_answered"
	errBadQuestion       = "unknown_question_type"
)

type SessionConfig struct {
	Code      string
	Questions []domain.Question
	Sender    Sender
	EventBus  *event.Bus

	// HostOnlyStart rejects "start" from anyone but the first joined
	// connection. Off by default: the original protocol lets any player
	// start the quiz.
	HostOnlyStart bool

	// SingleAnswerPerQuestion scores at most one submission per player
	// per question. Off by default: the original protocol re-scores
	// every repeated submission.
	SingleAnswerPerQuestion bool

	// Now is the clock used to stamp questions and measure answer
	// latency. Defaults to time.Now.
	Now func() time.Time
}

// Session is one live room: lobby, roster, question sequence, scores.
//
// All mutation is serialized under a per-session state mutex; events for
// other rooms proceed independently. Outbound messages are collected
// while the state lock is held and delivered under a separate delivery
// lock, so the state lock is never held across a send and batches reach
// the gateway in the order their state changes were applied.
type Session struct {
	code   string
	sender Sender
	eb     *event.Bus
	now    func() time.Time

	hostOnly     bool
	singleAnswer bool

	// sendMu orders outbound batches. Acquired while mu is still held,
	// released after delivery. Lock order: mu before sendMu.
	sendMu sync.Mutex

	mu            sync.Mutex
	state         State
	roster        *roster
	seq           *sequencer
	scores        map[string]int  // conn ID -> accumulated score
	answered      map[string]bool // conn IDs scored for the current question
	hostConnID    string
	questionStart time.Time
	lastActive    time.Time
}

func NewSession(c SessionConfig) *Session {
	now := c.Now
	if now == nil {
		now = time.Now
	}

	return &Session{
		code:         c.Code,
		sender:       c.Sender,
		eb:           c.EventBus,
		now:          now,
		hostOnly:     c.HostOnlyStart,
		singleAnswer: c.SingleAnswerPerQuestion,
		state:        StateLobby,
		roster:       newRoster(),
		seq:          newSequencer(c.Questions),
		scores:       make(map[string]int),
		answered:     make(map[string]bool),
		lastActive:   now(),
	}
}

func (s *Session) Code() string { return s.code }

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Players returns the roster in join order, disconnected entries included.
func (s *Session) Players() []domain.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.All()
}

// LastActive is the time of the most recent inbound event, used by the
// registry's idle reaper.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Join adds the connection to the roster and announces it to the room.
// Joining is accepted in every state; a late joiner to a finished room
// simply observes it. Joining twice updates the display name.
func (s *Session) Join(ctx context.Context, connID, name string) {
	s.mu.Lock()
	s.lastActive = s.now()

	if s.hostConnID == "" {
		s.hostConnID = connID
	}

	p := s.roster.Add(connID, name)

	// A score entry exists iff the player was present during the
	// running phase. Lobby joiners get theirs at start.
	if s.state == StateRunning {
		if _, ok := s.scores[connID]; !ok {
			s.scores[connID] = 0
		}
	}

	s.flush(ctx, []send{
		{msg: PlayerJoinedMessage{Type: "player_joined", Name: p.Name}},
	}, nil)
}

// Start transitions the room from lobby to running, zeroes the scores of
// everyone in the roster and pushes the first question.
func (s *Session) Start(ctx context.Context, connID string) {
	s.mu.Lock()
	s.lastActive = s.now()

	if s.state != StateLobby {
		s.flush(ctx, []send{reject(connID, errInvalidTransition, "the quiz has already started")}, nil)
		return
	}

	if s.hostOnly && connID != s.hostConnID {
		s.flush(ctx, []send{reject(connID, errNotHost, "only the host may start the quiz")}, nil)
		return
	}

	s.state = StateRunning
	for _, p := range s.roster.All() {
		s.scores[p.ConnID] = 0
	}

	var out []send
	var events []event.Event

	if q := s.seq.Current(); q != nil {
		s.questionStart = s.now()
		out = append(out, send{msg: questionMessage(q)})
	} else {
		// Empty question list: the room finishes immediately.
		s.state = StateFinished
		out = append(out, send{msg: QuizFinishedMessage{Type: "quiz_finished", Scores: s.standingsLocked()}})
		events = append(events, domain.EventRoomFinished{Room: s.code, Scores: s.standingsLocked()})
	}

	s.flush(ctx, out, events)
}

// SubmitAnswer scores the submission for the current question and then
// advances the whole room. Advancing on every single answer (rather than
// once all players answered) is the room's intended pacing: the fastest
// player drives the quiz forward.
func (s *Session) SubmitAnswer(ctx context.Context, connID, answer string) {
	s.mu.Lock()
	s.lastActive = s.now()

	if s.state != StateRunning {
		s.flush(ctx, []send{reject(connID, errInvalidTransition, "the quiz is not running")}, nil)
		return
	}

	player, ok := s.roster.Get(connID)
	if !ok {
		s.flush(ctx, []send{reject(connID, errNotInRoom, "join the room before answering")}, nil)
		return
	}

	q := s.seq.Current()
	if q == nil {
		// Running implies a current question; guard anyway.
		s.mu.Unlock()
		return
	}

	if s.singleAnswer && s.answered[connID] {
		s.flush(ctx, []send{reject(connID, errAlreadyAnswered, "answer already recorded for this question")}, nil)
		return
	}

	var out []send
	var events []event.Event

	correct, err := q.Check(answer)
	if err != nil {
		// Data-integrity fault in the question bank. Fail the question
		// deterministically: report it, score nothing, move past it.
		slog.ErrorContext(ctx, "game: question failed integrity check",
			"room", s.code,
			"question", q.QuestionID,
			"error", err,
		)
		out = append(out, reject(connID, errBadQuestion, "this question is malformed and was skipped"))
		out, events = s.advanceLocked(out, events)
		s.flush(ctx, out, events)
		return
	}

	elapsed := s.now().Sub(s.questionStart)
	awarded := Points(correct, elapsed)
	s.scores[connID] += awarded
	s.answered[connID] = true

	out = append(out, send{
		connID: connID,
		msg:    AnswerResultMessage{Type: "answer_result", Correct: correct, Score: awarded},
	})
	events = append(events, domain.EventScoreUpdated{
		Room:       s.code,
		Player:     player.Name,
		Awarded:    awarded,
		Total:      s.scores[connID],
		UpdateTime: s.now(),
	})

	out, events = s.advanceLocked(out, events)

	s.flush(ctx, out, events)
}

// Disconnect marks the player inactive. Advisory only: it never aborts
// in-flight scoring, and the player's accumulated score survives into
// the final standings.
func (s *Session) Disconnect(ctx context.Context, connID string) {
	s.mu.Lock()
	s.lastActive = s.now()

	p, ok := s.roster.Deactivate(connID)
	if !ok {
		s.mu.Unlock()
		return
	}

	s.flush(ctx, []send{
		{msg: PlayerLeftMessage{Type: "player_left", Name: p.Name}},
	}, nil)
}

// advanceLocked moves the sequencer forward and appends the resulting
// broadcast: either the next question or the final standings. Caller
// holds s.mu.
func (s *Session) advanceLocked(out []send, events []event.Event) ([]send, []event.Event) {
	s.answered = make(map[string]bool)

	if q := s.seq.Advance(); q != nil {
		s.questionStart = s.now()
		return append(out, send{msg: questionMessage(q)}), events
	}

	s.state = StateFinished
	standings := s.standingsLocked()
	out = append(out, send{msg: QuizFinishedMessage{Type: "quiz_finished", Scores: standings}})
	events = append(events, domain.EventRoomFinished{Room: s.code, Scores: standings})
	return out, events
}

// standingsLocked builds the final score mapping, keyed by display name.
// Disconnected players are included. Caller holds s.mu.
func (s *Session) standingsLocked() map[string]int {
	standings := make(map[string]int, s.roster.Len())
	for _, p := range s.roster.All() {
		if total, ok := s.scores[p.ConnID]; ok {
			standings[p.Name] = total
		}
	}
	return standings
}

// flush delivers collected messages and publishes collected events.
// Called with the state lock held: it chains into the delivery lock
// before releasing the state lock, so concurrent operations deliver
// their batches in state-change order. Gateway sends are non-blocking
// channel pushes, so holding the delivery lock across them never
// stalls the room. Sends target one connection when connID is set,
// otherwise the whole room.
func (s *Session) flush(ctx context.Context, out []send, events []event.Event) {
	s.sendMu.Lock()
	s.mu.Unlock()
	defer s.sendMu.Unlock()

	for _, o := range out {
		if o.connID != "" {
			s.sender.ToConn(o.connID, o.msg)
		} else {
			s.sender.ToRoom(s.code, o.msg)
		}
	}

	if s.eb == nil {
		return
	}
	for _, e := range events {
		s.eb.Publish(ctx, e)
	}
}

func questionMessage(q *domain.Question) NextQuestionMessage {
	return NextQuestionMessage{
		Type:    "next_question",
		ID:      q.QuestionID,
		Text:    q.Text,
		Options: q.Options,
	}
}

func reject(connID, code, message string) send {
	return send{
		connID: connID,
		msg:    ErrorMessage{Type: "error", Code: code, Message: message},
	}
}
