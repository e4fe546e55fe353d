package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opec-platform/opec-backend/internal/apperr"
	"github.com/opec-platform/opec-backend/internal/database"
	"github.com/opec-platform/opec-backend/internal/model"
)

// ErrUnknownSubject is returned when an interest references a missing subject.
var ErrUnknownSubject = apperr.New(apperr.ErrValidation, "unknown subject in interests")

// UserRepository handles evaluator and competitor accounts.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, username, email, phone, university, university_id, password_hash, role, created_at`

func scanUser(row pgx.Row) (model.Account, error) {
	var p model.Profile
	var role model.Role
	if err := row.Scan(&p.ID, &p.Username, &p.Email, &p.Phone, &p.University,
		&p.UniversityID, &p.PasswordHash, &role, &p.CreatedAt); err != nil {
		return nil, apperr.FromDB(err)
	}
	return model.NewAccount(p, role), nil
}

// CreateEvaluator inserts an evaluator account and fills in its id.
func (r *UserRepository) CreateEvaluator(ctx context.Context, e *model.Evaluator) error {
	return insertUser(ctx, r.pool, &e.Profile, model.RoleEvaluator)
}

// CreateCompetitor inserts a competitor and its interests in one transaction.
func (r *UserRepository) CreateCompetitor(ctx context.Context, c *model.Competitor, interests []int) error {
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := insertUser(ctx, tx, &c.Profile, model.RoleCompetitor); err != nil {
			return err
		}
		if err := insertInterests(ctx, tx, c.ID, interests); err != nil {
			return err
		}
		subjects, err := listInterests(ctx, tx, c.ID)
		if err != nil {
			return err
		}
		c.Interests = subjects
		return nil
	})
}

func insertUser(ctx context.Context, q database.DBTX, p *model.Profile, role model.Role) error {
	err := q.QueryRow(ctx,
		`INSERT INTO users (username, email, phone, university, university_id, password_hash, role)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		p.Username, p.Email, p.Phone, p.University, p.UniversityID, p.PasswordHash, role,
	).Scan(&p.ID, &p.CreatedAt)
	return apperr.FromDB(err)
}

// insertInterests links subjects to a competitor. Every id must name an existing subject.
func insertInterests(ctx context.Context, q database.DBTX, competitorID int, subjectIDs []int) error {
	want := len(distinct(subjectIDs))
	if want == 0 {
		return nil
	}
	tag, err := q.Exec(ctx,
		`INSERT INTO competitor_interests (competitor_id, subject_id)
		 SELECT $1, id FROM subjects WHERE id = ANY($2)`,
		competitorID, subjectIDs)
	if err != nil {
		return apperr.FromDB(err)
	}
	if int(tag.RowsAffected()) != want {
		return ErrUnknownSubject
	}
	return nil
}

func listInterests(ctx context.Context, q database.DBTX, competitorID int) ([]model.Subject, error) {
	rows, err := q.Query(ctx,
		`SELECT s.id, s.name, s.slug, s.created_at, s.updated_at
		 FROM competitor_interests ci
		 JOIN subjects s ON s.id = ci.subject_id
		 WHERE ci.competitor_id = $1
		 ORDER BY s.name ASC`, competitorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subjects := []model.Subject{}
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.Slug, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func distinct(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// GetByUsername returns the account with the given username, including its password hash.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.Account, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

// GetByID returns the account. Competitors come with their interests.
func (r *UserRepository) GetByID(ctx context.Context, id int) (model.Account, error) {
	acc, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if c, ok := acc.(*model.Competitor); ok {
		if c.Interests, err = listInterests(ctx, r.pool, c.ID); err != nil {
			return nil, fmt.Errorf("list interests: %w", err)
		}
	}
	return acc, nil
}

// Interests lists the competitor's interest subjects ordered by name.
func (r *UserRepository) Interests(ctx context.Context, competitorID int) ([]model.Subject, error) {
	return listInterests(ctx, r.pool, competitorID)
}

// ReplaceInterests swaps the competitor's whole interest set atomically.
func (r *UserRepository) ReplaceInterests(ctx context.Context, competitorID int, subjectIDs []int) ([]model.Subject, error) {
	var subjects []model.Subject
	err := database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM competitor_interests WHERE competitor_id = $1`, competitorID); err != nil {
			return err
		}
		if err := insertInterests(ctx, tx, competitorID, subjectIDs); err != nil {
			return err
		}
		var err error
		subjects, err = listInterests(ctx, tx, competitorID)
		return err
	})
	return subjects, err
}

// IsInterested reports whether subjectID is one of the competitor's interests.
func (r *UserRepository) IsInterested(ctx context.Context, competitorID, subjectID int) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM competitor_interests WHERE competitor_id = $1 AND subject_id = $2)`,
		competitorID, subjectID).Scan(&ok)
	return ok, err
}
