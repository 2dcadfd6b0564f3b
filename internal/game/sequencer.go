package game

import "github.com/victornm/livequiz/internal/domain"

// sequencer owns the ordered question list of one room and the current
// position within it. Sequencing is strictly forward-only: one active
// position, no branching, no skipping backwards.
//
// The sequencer does not track time. The session stamps the question
// clock whenever Current or Advance yields a question.
type sequencer struct {
	questions []domain.Question
	pos       int
}

func newSequencer(questions []domain.Question) *sequencer {
	return &sequencer{questions: questions}
}

// Current returns the question at the current position, or nil once the
// sequence is exhausted.
func (s *sequencer) Current() *domain.Question {
	if s.pos >= len(s.questions) {
		return nil
	}
	return &s.questions[s.pos]
}

// Advance moves to the next position and returns the new current
// question, or nil at exhaustion. The position never exceeds the
// question count, so repeated calls at the end stay exhausted.
func (s *sequencer) Advance() *domain.Question {
	if s.pos < len(s.questions) {
		s.pos++
	}
	return s.Current()
}

func (s *sequencer) Reset() {
	s.pos = 0
}

// Index is the current position; equal to the question count iff the
// sequence is exhausted.
func (s *sequencer) Index() int {
	return s.pos
}

func (s *sequencer) Len() int {
	return len(s.questions)
}
