// Package quizbank is the read-only question-bank collaborator. The
// authoring workflow lives elsewhere; the live engine only ever asks for
// the ordered question list of a quiz.
package quizbank

import (
	"context"

	"github.com/victornm/livequiz/internal/domain"
	"github.com/victornm/livequiz/internal/errors"
)

type Bank interface {
	// QuestionsForQuiz returns the ordered question list of a quiz.
	QuestionsForQuiz(ctx context.Context, quizID string) ([]domain.Question, error)
}

// MemoryBank is an in-process bank, used in tests and for seeding demo
// quizzes. Safe for concurrent reads after Register calls complete.
type MemoryBank struct {
	quizzes map[string][]domain.Question
}

func NewMemoryBank() *MemoryBank {
	return &MemoryBank{
		quizzes: make(map[string][]domain.Question),
	}
}

// Register attaches an ordered question list to a quiz ID, replacing any
// previous list.
func (b *MemoryBank) Register(quizID string, questions []domain.Question) {
	qs := make([]domain.Question, len(questions))
	copy(qs, questions)
	b.quizzes[quizID] = qs
}

func (b *MemoryBank) QuestionsForQuiz(_ context.Context, quizID string) ([]domain.Question, error) {
	qs, ok := b.quizzes[quizID]
	if !ok {
		return nil, errors.New(errors.CodeNotFound,
			errors.WithMessagef("quiz not found: %s", quizID))
	}

	out := make([]domain.Question, len(qs))
	copy(out, qs)
	return out, nil
}
