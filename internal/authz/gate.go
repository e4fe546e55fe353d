// Package authz hands out capability handles for exam access.
//
// An *OwnedExam proves the caller owns the exam; an *Attempt proves a
// competitor may answer it. Handle fields are unexported, so the only way to
// obtain one is through a Gate check.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/opec-platform/opec-backend/internal/apperr"
	"github.com/opec-platform/opec-backend/internal/model"
)

var (
	// ErrNotExamOwner is returned when an evaluator touches another evaluator's exam.
	ErrNotExamOwner = apperr.New(apperr.ErrPermission, "not the exam owner")

	// ErrNotEligible is returned when the exam's subject is not an interest
	// of the competitor or the exam has no questions.
	ErrNotEligible = apperr.New(apperr.ErrPermission, "exam not eligible")

	// ErrExamAlreadyTaken is the kind of *AlreadyTakenError.
	ErrExamAlreadyTaken = apperr.New(apperr.ErrConflict, "exam already taken")
)

// AlreadyTakenError carries the existing record of a finished exam.
type AlreadyTakenError struct {
	TakenExam model.TakenExam
}

func (e *AlreadyTakenError) Error() string {
	return fmt.Sprintf("exam %d already taken by competitor %d", e.TakenExam.ExamID, e.TakenExam.CompetitorID)
}

func (e *AlreadyTakenError) Unwrap() error { return ErrExamAlreadyTaken }

// ExamLookup is satisfied by *repository.ExamRepository.
type ExamLookup interface {
	GetByID(ctx context.Context, id int) (*model.Exam, error)
	QuestionCount(ctx context.Context, examID int) (int, error)
}

// QuestionLookup is satisfied by *repository.QuestionRepository.
type QuestionLookup interface {
	GetByID(ctx context.Context, id int) (*model.Question, error)
}

// InterestLookup is satisfied by *repository.UserRepository.
type InterestLookup interface {
	IsInterested(ctx context.Context, competitorID, subjectID int) (bool, error)
}

// TakenExamLookup is satisfied by *repository.TakenExamRepository.
type TakenExamLookup interface {
	Get(ctx context.Context, competitorID, examID int) (*model.TakenExam, error)
}

// Gate checks ownership and eligibility.
type Gate struct {
	exams     ExamLookup
	questions QuestionLookup
	interests InterestLookup
	taken     TakenExamLookup
}

func NewGate(exams ExamLookup, questions QuestionLookup, interests InterestLookup, taken TakenExamLookup) *Gate {
	return &Gate{exams: exams, questions: questions, interests: interests, taken: taken}
}

// OwnedExam is an exam the holder is allowed to modify.
type OwnedExam struct {
	exam model.Exam
}

func (o *OwnedExam) ID() int          { return o.exam.ID }
func (o *OwnedExam) Exam() model.Exam { return o.exam }

// OwnedQuestion is a question of an OwnedExam.
type OwnedQuestion struct {
	exam     *OwnedExam
	question model.Question
}

func (o *OwnedQuestion) ID() int                  { return o.question.ID }
func (o *OwnedQuestion) Exam() *OwnedExam         { return o.exam }
func (o *OwnedQuestion) Question() model.Question { return o.question }

// Attempt entitles a competitor to answer an exam. It satisfies progression.Attempt.
type Attempt struct {
	competitorID int
	exam         model.Exam
}

func (a *Attempt) CompetitorID() int { return a.competitorID }
func (a *Attempt) ExamID() int       { return a.exam.ID }
func (a *Attempt) Exam() model.Exam  { return a.exam }

// OwnExam returns the exam if evaluatorID owns it.
func (g *Gate) OwnExam(ctx context.Context, evaluatorID, examID int) (*OwnedExam, error) {
	exam, err := g.exams.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam.OwnerID != evaluatorID {
		return nil, ErrNotExamOwner
	}
	return &OwnedExam{exam: *exam}, nil
}

// OwnQuestion returns the question if it belongs to the owned exam.
// A question of another exam is reported as not found.
func (g *Gate) OwnQuestion(ctx context.Context, exam *OwnedExam, questionID int) (*OwnedQuestion, error) {
	q, err := g.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if q.ExamID != exam.ID() {
		return nil, apperr.New(apperr.ErrNotFound, "question not in exam")
	}
	return &OwnedQuestion{exam: exam, question: *q}, nil
}

// AuthorizeAttempt checks that the competitor may answer the exam: its
// subject is an interest, it has questions and it has not been taken yet.
// A finished exam yields an *AlreadyTakenError.
func (g *Gate) AuthorizeAttempt(ctx context.Context, competitorID, examID int) (*Attempt, error) {
	exam, err := g.exams.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}

	interested, err := g.interests.IsInterested(ctx, competitorID, exam.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("check interest: %w", err)
	}
	if !interested {
		return nil, ErrNotEligible
	}

	total, err := g.exams.QuestionCount(ctx, exam.ID)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	if total == 0 {
		return nil, ErrNotEligible
	}

	te, err := g.taken.Get(ctx, competitorID, exam.ID)
	switch {
	case err == nil:
		return nil, &AlreadyTakenError{TakenExam: *te}
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, fmt.Errorf("load taken exam: %w", err)
	}

	return &Attempt{competitorID: competitorID, exam: *exam}, nil
}
