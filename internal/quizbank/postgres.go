package quizbank

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/victornm/livequiz/internal/domain"
	"github.com/victornm/livequiz/internal/errors"
)

// PostgresBank reads quizzes from the authoring database. The engine
// treats the rows as immutable: a quiz is materialized once per room at
// create time.
type PostgresBank struct {
	db *pgxpool.Pool
}

func NewPostgresBank(db *pgxpool.Pool) *PostgresBank {
	return &PostgresBank{db: db}
}

func (b *PostgresBank) QuestionsForQuiz(ctx context.Context, quizID string) ([]domain.Question, error) {
	const qStmt = `
SELECT question_id, question_text, question_type, correct_answer
FROM questions
WHERE quiz_id = $1
ORDER BY position;`

	rows, err := b.db.Query(ctx, qStmt, quizID)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}

	questions, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (domain.Question, error) {
		var q domain.Question
		var typ string
		if err := r.Scan(&q.QuestionID, &q.Text, &typ, &q.Answer); err != nil {
			return domain.Question{}, err
		}
		q.Type = domain.QuestionType(typ)
		return q, nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect questions: %w", err)
	}

	if len(questions) == 0 {
		return nil, errors.New(errors.CodeNotFound,
			errors.WithMessagef("quiz not found: %s", quizID))
	}

	for i := range questions {
		if questions[i].Type != domain.TypeMultipleChoice {
			continue
		}
		opts, err := b.optionsForQuestion(ctx, questions[i].QuestionID)
		if err != nil {
			return nil, err
		}
		questions[i].Options = opts
	}

	return questions, nil
}

func (b *PostgresBank) optionsForQuestion(ctx context.Context, questionID string) (map[string]string, error) {
	const oStmt = `
SELECT option_key, option_text
FROM question_options
WHERE question_id = $1;`

	rows, err := b.db.Query(ctx, oStmt, questionID)
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	defer rows.Close()

	opts := make(map[string]string)
	for rows.Next() {
		var key, text string
		if err := rows.Scan(&key, &text); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		opts[key] = text
	}

	return opts, rows.Err()
}
