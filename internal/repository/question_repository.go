package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opec-platform/opec-backend/internal/apperr"
	"github.com/opec-platform/opec-backend/internal/database"
	"github.com/opec-platform/opec-backend/internal/model"
)

// ErrForeignAnswer is returned when a question edit references an answer of another question.
var ErrForeignAnswer = apperr.New(apperr.ErrValidation, "answer does not belong to the question")

// QuestionRepository handles questions and their answer sets.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// Create inserts a question without answers.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO questions (exam_id, text) VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		q.ExamID, q.Text,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
	return apperr.FromDB(err)
}

// GetByID retrieves a question by id.
func (r *QuestionRepository) GetByID(ctx context.Context, id int) (*model.Question, error) {
	return getQuestion(ctx, r.pool, id)
}

// ListByExam returns the exam's questions ordered by text with their answer counts.
func (r *QuestionRepository) ListByExam(ctx context.Context, examID int) ([]model.QuestionSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.id, q.exam_id, q.text, q.created_at, q.updated_at,
		        (SELECT COUNT(*) FROM answers a WHERE a.question_id = q.id)
		 FROM questions q
		 WHERE q.exam_id = $1
		 ORDER BY q.text ASC, q.id ASC`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []model.QuestionSummary{}
	for rows.Next() {
		var q model.QuestionSummary
		if err := rows.Scan(&q.ID, &q.ExamID, &q.Text, &q.CreatedAt, &q.UpdatedAt, &q.AnswersCount); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// Answers lists a question's answers ordered by text.
func (r *QuestionRepository) Answers(ctx context.Context, questionID int) ([]model.Answer, error) {
	return listAnswers(ctx, r.pool, questionID)
}

// Update replaces the question text and its answer set in one transaction.
// Inputs with an id update that answer, inputs without one are inserted and
// stored answers missing from the input are deleted.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question, answers []model.AnswerInput) ([]model.Answer, error) {
	var out []model.Answer
	err := database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`UPDATE questions SET text = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`,
			q.Text, q.ID).Scan(&q.UpdatedAt); err != nil {
			return apperr.FromDB(err)
		}

		existing, err := listAnswers(ctx, tx, q.ID)
		if err != nil {
			return err
		}
		known := make(map[int]bool, len(existing))
		stale := make(map[int]bool, len(existing))
		for _, a := range existing {
			known[a.ID] = true
			stale[a.ID] = true
		}

		for _, in := range answers {
			if in.ID == nil {
				if _, err := tx.Exec(ctx,
					`INSERT INTO answers (question_id, text, is_correct) VALUES ($1, $2, $3)`,
					q.ID, in.Text, in.IsCorrect); err != nil {
					return err
				}
				continue
			}
			if !known[*in.ID] {
				return ErrForeignAnswer
			}
			delete(stale, *in.ID)
			if _, err := tx.Exec(ctx,
				`UPDATE answers SET text = $1, is_correct = $2 WHERE id = $3`,
				in.Text, in.IsCorrect, *in.ID); err != nil {
				return err
			}
		}

		for id := range stale {
			if _, err := tx.Exec(ctx, `DELETE FROM answers WHERE id = $1`, id); err != nil {
				return err
			}
		}

		out, err = listAnswers(ctx, tx, q.ID)
		return err
	})
	return out, err
}

// Delete removes a question and, by cascade, its answers.
func (r *QuestionRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.ErrNotFound, "question")
	}
	return nil
}

func getQuestion(ctx context.Context, q database.DBTX, id int) (*model.Question, error) {
	qu := &model.Question{}
	err := q.QueryRow(ctx,
		`SELECT id, exam_id, text, created_at, updated_at FROM questions WHERE id = $1`, id,
	).Scan(&qu.ID, &qu.ExamID, &qu.Text, &qu.CreatedAt, &qu.UpdatedAt)
	if err != nil {
		return nil, apperr.FromDB(err)
	}
	return qu, nil
}

func listAnswers(ctx context.Context, q database.DBTX, questionID int) ([]model.Answer, error) {
	rows, err := q.Query(ctx,
		`SELECT id, question_id, text, is_correct FROM answers
		 WHERE question_id = $1
		 ORDER BY text ASC, id ASC`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := []model.Answer{}
	for rows.Next() {
		var a model.Answer
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.Text, &a.IsCorrect); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func countQuestions(ctx context.Context, q database.DBTX, examID int) (int, error) {
	var n int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM questions WHERE exam_id = $1`, examID).Scan(&n)
	return n, err
}
