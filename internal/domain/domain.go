package domain

import (
	"strings"

	"github.com/victornm/livequiz/internal/errors"
)

// QuestionType tags how a question's answer is interpreted.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeTrueFalse      QuestionType = "true_false"
)

// Question is a single quiz question. Questions are owned by the question
// bank and are never mutated once attached to a room.
type Question struct {
	QuestionID string
	Text       string
	Type       QuestionType
	// Options maps option key to option text. Present only for
	// multiple_choice questions.
	Options map[string]string
	// Answer is the correct option key for multiple_choice, or
	// "true"/"false" for true_false.
	Answer string
}

// Check reports whether the submitted value is the correct answer.
// A question type outside the known set is a data-integrity problem in the
// question bank and is reported, never defaulted.
func (q Question) Check(value string) (bool, error) {
	switch q.Type {
	case TypeMultipleChoice:
		return value == q.Answer, nil
	case TypeTrueFalse:
		return strings.EqualFold(value, q.Answer), nil
	default:
		return false, errors.New(errors.CodeInternal,
			errors.WithMessagef("unknown question type %q for question %s", q.Type, q.QuestionID))
	}
}

// Player is one roster entry within a room. ConnID is the transport-assigned
// connection identifier and the true key; Name is player-supplied and not
// guaranteed unique.
type Player struct {
	ConnID string
	Name   string
	// Active is false once the player disconnected. The entry (and its
	// score) is retained for the final standings.
	Active bool
}

// Leaderboard lists players of one room sorted by score descending.
type Leaderboard struct {
	Room    string
	Entries []LeaderboardEntry
}

type LeaderboardEntry struct {
	Name  string
	Score int
}
