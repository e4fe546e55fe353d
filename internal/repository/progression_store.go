package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opec-platform/opec-backend/internal/apperr"
	"github.com/opec-platform/opec-backend/internal/database"
	"github.com/opec-platform/opec-backend/internal/model"
	"github.com/opec-platform/opec-backend/internal/progression"
)

// ProgressionStore backs the progression engine with PostgreSQL.
type ProgressionStore struct {
	pool *pgxpool.Pool
}

var _ progression.Store = (*ProgressionStore)(nil)

// NewProgressionStore creates a new ProgressionStore.
func NewProgressionStore(pool *pgxpool.Pool) *ProgressionStore {
	return &ProgressionStore{pool: pool}
}

func (s *ProgressionStore) QuestionCount(ctx context.Context, examID int) (int, error) {
	return countQuestions(ctx, s.pool, examID)
}

func (s *ProgressionStore) UnansweredQuestions(ctx context.Context, competitorID, examID int) ([]model.Question, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT q.id, q.exam_id, q.text, q.created_at, q.updated_at
		 FROM questions q
		 WHERE q.exam_id = $2
		   AND NOT EXISTS (
		       SELECT 1 FROM competitor_answers ca
		       WHERE ca.question_id = q.id AND ca.competitor_id = $1
		   )
		 ORDER BY q.text ASC, q.id ASC`, competitorID, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.ExamID, &q.Text, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *ProgressionStore) Question(ctx context.Context, questionID int) (*model.Question, error) {
	return getQuestion(ctx, s.pool, questionID)
}

func (s *ProgressionStore) Answers(ctx context.Context, questionID int) ([]model.Answer, error) {
	return listAnswers(ctx, s.pool, questionID)
}

func (s *ProgressionStore) TakenExam(ctx context.Context, competitorID, examID int) (*model.TakenExam, error) {
	return getTakenExam(ctx, s.pool, competitorID, examID)
}

func (s *ProgressionStore) InTx(ctx context.Context, fn func(tx progression.StoreTx) error) error {
	return database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&progressionTx{tx: tx})
	})
}

type progressionTx struct {
	tx pgx.Tx
}

// LockAttempt takes a transaction-scoped advisory lock keyed by the pair.
func (t *progressionTx) LockAttempt(ctx context.Context, competitorID, examID int) error {
	_, err := t.tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1::int4, $2::int4)`, competitorID, examID)
	return err
}

func (t *progressionTx) IsAnswered(ctx context.Context, competitorID, questionID int) (bool, error) {
	var ok bool
	err := t.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM competitor_answers WHERE competitor_id = $1 AND question_id = $2)`,
		competitorID, questionID).Scan(&ok)
	return ok, err
}

func (t *progressionTx) RecordAnswer(ctx context.Context, competitorID, questionID, answerID int) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO competitor_answers (competitor_id, question_id, answer_id) VALUES ($1, $2, $3)`,
		competitorID, questionID, answerID)
	return apperr.FromDB(err)
}

func (t *progressionTx) CountUnanswered(ctx context.Context, competitorID, examID int) (int, error) {
	var n int
	err := t.tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM questions q
		 WHERE q.exam_id = $2
		   AND NOT EXISTS (
		       SELECT 1 FROM competitor_answers ca
		       WHERE ca.question_id = q.id AND ca.competitor_id = $1
		   )`, competitorID, examID).Scan(&n)
	return n, err
}

func (t *progressionTx) QuestionCount(ctx context.Context, examID int) (int, error) {
	return countQuestions(ctx, t.tx, examID)
}

func (t *progressionTx) CountCorrect(ctx context.Context, competitorID, examID int) (int, error) {
	var n int
	err := t.tx.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM competitor_answers ca
		 JOIN answers a ON a.id = ca.answer_id
		 JOIN questions q ON q.id = ca.question_id
		 WHERE ca.competitor_id = $1 AND q.exam_id = $2 AND a.is_correct`,
		competitorID, examID).Scan(&n)
	return n, err
}

func (t *progressionTx) CreateTakenExam(ctx context.Context, competitorID, examID int, score float64) (*model.TakenExam, error) {
	te := &model.TakenExam{CompetitorID: competitorID, ExamID: examID}
	err := t.tx.QueryRow(ctx,
		`INSERT INTO taken_exams (competitor_id, exam_id, score) VALUES ($1, $2, $3)
		 RETURNING id, score::float8, date`,
		competitorID, examID, score,
	).Scan(&te.ID, &te.Score, &te.Date)
	if err != nil {
		return nil, apperr.FromDB(err)
	}
	return te, nil
}
