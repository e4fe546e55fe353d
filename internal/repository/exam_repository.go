package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opec-platform/opec-backend/internal/apperr"
	"github.com/opec-platform/opec-backend/internal/model"
)

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

// GetByID retrieves an exam by id.
func (r *ExamRepository) GetByID(ctx context.Context, id int) (*model.Exam, error) {
	e := &model.Exam{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, owner_id, name, subject_id, created_at, updated_at
		 FROM exams WHERE id = $1`, id,
	).Scan(&e.ID, &e.OwnerID, &e.Name, &e.SubjectID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, apperr.FromDB(err)
	}
	return e, nil
}

// ListByOwner returns an evaluator's exams ordered by name with question and taken counts.
func (r *ExamRepository) ListByOwner(ctx context.Context, ownerID int) ([]model.ExamSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.owner_id, e.name, e.subject_id, e.created_at, e.updated_at, s.name,
		        (SELECT COUNT(*) FROM questions q WHERE q.exam_id = e.id),
		        (SELECT COUNT(*) FROM taken_exams t WHERE t.exam_id = e.id)
		 FROM exams e
		 JOIN subjects s ON s.id = e.subject_id
		 WHERE e.owner_id = $1
		 ORDER BY e.name ASC, e.id ASC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exams := []model.ExamSummary{}
	for rows.Next() {
		var e model.ExamSummary
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Name, &e.SubjectID, &e.CreatedAt, &e.UpdatedAt,
			&e.SubjectName, &e.QuestionsCount, &e.TakenCount); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// ListEligible returns the exams a competitor may start: the subject is one
// of its interests, the exam has at least one question and the competitor
// has not taken it yet. Ordered by name.
func (r *ExamRepository) ListEligible(ctx context.Context, competitorID int) ([]model.EligibleExam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.owner_id, e.name, e.subject_id, e.created_at, e.updated_at, s.name, qc.total
		 FROM exams e
		 JOIN subjects s ON s.id = e.subject_id
		 JOIN competitor_interests ci ON ci.subject_id = e.subject_id AND ci.competitor_id = $1
		 JOIN LATERAL (SELECT COUNT(*) AS total FROM questions q WHERE q.exam_id = e.id) qc ON qc.total > 0
		 WHERE NOT EXISTS (
		     SELECT 1 FROM taken_exams t WHERE t.exam_id = e.id AND t.competitor_id = $1
		 )
		 ORDER BY e.name ASC, e.id ASC`, competitorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exams := []model.EligibleExam{}
	for rows.Next() {
		var e model.EligibleExam
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Name, &e.SubjectID, &e.CreatedAt, &e.UpdatedAt,
			&e.SubjectName, &e.QuestionsCount); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// Create inserts a new exam.
func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO exams (owner_id, name, subject_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		e.OwnerID, e.Name, e.SubjectID,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	return apperr.FromDB(err)
}

// Update changes an exam's name and subject.
func (r *ExamRepository) Update(ctx context.Context, e *model.Exam) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE exams SET name = $1, subject_id = $2, updated_at = NOW()
		 WHERE id = $3
		 RETURNING updated_at`,
		e.Name, e.SubjectID, e.ID,
	).Scan(&e.UpdatedAt)
	return apperr.FromDB(err)
}

// Delete removes an exam. Questions, answers and taken exams cascade.
func (r *ExamRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM exams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.ErrNotFound, "exam")
	}
	return nil
}

// QuestionCount returns how many questions the exam has.
func (r *ExamRepository) QuestionCount(ctx context.Context, examID int) (int, error) {
	return countQuestions(ctx, r.pool, examID)
}
