package progression

import (
	"context"

	"github.com/opec-platform/opec-backend/internal/model"
)

// Attempt identifies a competitor working through an exam. Callers obtain one
// from the authorization gate, which has already checked eligibility.
type Attempt interface {
	CompetitorID() int
	ExamID() int
}

// Store is the read side the engine needs plus a way to open a transaction.
//
// Lookups of missing rows return an error wrapping apperr.ErrNotFound.
type Store interface {
	QuestionCount(ctx context.Context, examID int) (int, error)
	// UnansweredQuestions lists the exam's questions the competitor has not
	// answered, ordered by text then id.
	UnansweredQuestions(ctx context.Context, competitorID, examID int) ([]model.Question, error)
	Question(ctx context.Context, questionID int) (*model.Question, error)
	// Answers lists a question's answers ordered by text.
	Answers(ctx context.Context, questionID int) ([]model.Answer, error)
	TakenExam(ctx context.Context, competitorID, examID int) (*model.TakenExam, error)

	// InTx runs fn in one transaction, committing only when fn returns nil.
	InTx(ctx context.Context, fn func(tx StoreTx) error) error
}

// StoreTx is the write side used during Submit.
//
// RecordAnswer and CreateTakenExam return an error wrapping apperr.ErrConflict
// when the (competitor, question) or (competitor, exam) pair already exists.
type StoreTx interface {
	// LockAttempt serializes transactions on the same (competitor, exam) pair
	// until the transaction ends.
	LockAttempt(ctx context.Context, competitorID, examID int) error
	IsAnswered(ctx context.Context, competitorID, questionID int) (bool, error)
	RecordAnswer(ctx context.Context, competitorID, questionID, answerID int) error
	CountUnanswered(ctx context.Context, competitorID, examID int) (int, error)
	QuestionCount(ctx context.Context, examID int) (int, error)
	CountCorrect(ctx context.Context, competitorID, examID int) (int, error)
	CreateTakenExam(ctx context.Context, competitorID, examID int, score float64) (*model.TakenExam, error)
}
