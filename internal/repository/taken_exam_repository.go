package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opec-platform/opec-backend/internal/apperr"
	"github.com/opec-platform/opec-backend/internal/database"
	"github.com/opec-platform/opec-backend/internal/model"
)

// TakenExamRepository reads finalized attempts.
type TakenExamRepository struct {
	pool *pgxpool.Pool
}

// NewTakenExamRepository creates a new TakenExamRepository.
func NewTakenExamRepository(pool *pgxpool.Pool) *TakenExamRepository {
	return &TakenExamRepository{pool: pool}
}

// Get returns the competitor's TakenExam for the exam.
func (r *TakenExamRepository) Get(ctx context.Context, competitorID, examID int) (*model.TakenExam, error) {
	return getTakenExam(ctx, r.pool, competitorID, examID)
}

// ListByCompetitor returns the competitor's finished exams ordered by exam name.
func (r *TakenExamRepository) ListByCompetitor(ctx context.Context, competitorID int) ([]model.TakenExamEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.id, t.competitor_id, t.exam_id, t.score::float8, t.date, e.name, s.name
		 FROM taken_exams t
		 JOIN exams e ON e.id = t.exam_id
		 JOIN subjects s ON s.id = e.subject_id
		 WHERE t.competitor_id = $1
		 ORDER BY e.name ASC, t.id ASC`, competitorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.TakenExamEntry{}
	for rows.Next() {
		var t model.TakenExamEntry
		if err := rows.Scan(&t.ID, &t.CompetitorID, &t.ExamID, &t.Score, &t.Date,
			&t.ExamName, &t.SubjectName); err != nil {
			return nil, err
		}
		entries = append(entries, t)
	}
	return entries, rows.Err()
}

// ListByExam returns an exam's results, most recent first.
func (r *TakenExamRepository) ListByExam(ctx context.Context, examID int) ([]model.ExamResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.id, t.competitor_id, t.exam_id, t.score::float8, t.date, u.username
		 FROM taken_exams t
		 JOIN users u ON u.id = t.competitor_id
		 WHERE t.exam_id = $1
		 ORDER BY t.date DESC, t.id DESC`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []model.ExamResult{}
	for rows.Next() {
		var res model.ExamResult
		if err := rows.Scan(&res.ID, &res.CompetitorID, &res.ExamID, &res.Score, &res.Date,
			&res.Username); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// Summary counts an exam's results and averages their scores to two decimals.
func (r *TakenExamRepository) Summary(ctx context.Context, examID int) (*model.ExamResultsSummary, error) {
	s := &model.ExamResultsSummary{}
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), ROUND(AVG(score), 2)::float8 FROM taken_exams WHERE exam_id = $1`, examID,
	).Scan(&s.TotalTaken, &s.AverageScore)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func getTakenExam(ctx context.Context, q database.DBTX, competitorID, examID int) (*model.TakenExam, error) {
	t := &model.TakenExam{}
	err := q.QueryRow(ctx,
		`SELECT id, competitor_id, exam_id, score::float8, date
		 FROM taken_exams WHERE competitor_id = $1 AND exam_id = $2`,
		competitorID, examID,
	).Scan(&t.ID, &t.CompetitorID, &t.ExamID, &t.Score, &t.Date)
	if err != nil {
		return nil, apperr.FromDB(err)
	}
	return t, nil
}
