package progression

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/opec-platform/opec-backend/internal/apperr"
	"github.com/opec-platform/opec-backend/internal/model"
)

// Step is the question a competitor should answer next.
type Step struct {
	Question   model.Question
	Answers    []model.Answer
	Total      int
	Unanswered int
	Progress   int
}

// Finalization is the outcome of the submission that completed an attempt.
type Finalization struct {
	TakenExam model.TakenExam
	Outcome   Outcome
	// AlreadyFinalized is set when a concurrent submission finalized the
	// attempt first and this one observed its record.
	AlreadyFinalized bool
}

// Notice is the message shown to the competitor after finalization.
func (f *Finalization) Notice(examName string) string {
	score := FormatScore(f.TakenExam.Score)
	if f.Outcome == OutcomeNeedsImprovement {
		return fmt.Sprintf("Better luck next time! Your score for the exam %s was %s.", examName, score)
	}
	return fmt.Sprintf("Congratulations! You completed the exam %s with success! You scored %s points.", examName, score)
}

// Result of Submit. Exactly one of Next and Finalized is set.
type Result struct {
	Next      *Step
	Finalized *Finalization
	// Conflicted reports that the transaction lost a race and the result was re-read.
	Conflicted bool
}

// Engine implements current-question lookup and answer submission.
type Engine struct {
	store Store
	log   zerolog.Logger
}

// NewEngine creates an Engine backed by store.
func NewEngine(store Store, log zerolog.Logger) *Engine {
	return &Engine{
		store: store,
		log:   log.With().Str("component", "progression_engine").Logger(),
	}
}

// CurrentQuestion returns the first unanswered question by text. It does not
// write anything, so repeated calls return the same question.
func (e *Engine) CurrentQuestion(ctx context.Context, att Attempt) (*Step, error) {
	total, err := e.store.QuestionCount(ctx, att.ExamID())
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	if total == 0 {
		return nil, ErrEmptyExam
	}

	pending, err := e.store.UnansweredQuestions(ctx, att.CompetitorID(), att.ExamID())
	if err != nil {
		return nil, fmt.Errorf("list unanswered questions: %w", err)
	}
	if len(pending) == 0 {
		return nil, ErrNoQuestionRemaining
	}

	q := pending[0]
	answers, err := e.store.Answers(ctx, q.ID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}

	return &Step{
		Question:   q,
		Answers:    answers,
		Total:      total,
		Unanswered: len(pending),
		Progress:   Progress(total, len(pending)),
	}, nil
}

// Submit records answerID as the competitor's answer to questionID. When that
// leaves no question unanswered the attempt is scored and finalized in the
// same transaction.
func (e *Engine) Submit(ctx context.Context, att Attempt, questionID, answerID int) (*Result, error) {
	if err := e.checkDomain(ctx, att, questionID, answerID); err != nil {
		return nil, err
	}

	var fin *Finalization
	err := e.store.InTx(ctx, func(tx StoreTx) error {
		if err := tx.LockAttempt(ctx, att.CompetitorID(), att.ExamID()); err != nil {
			return fmt.Errorf("lock attempt: %w", err)
		}

		answered, err := tx.IsAnswered(ctx, att.CompetitorID(), questionID)
		if err != nil {
			return fmt.Errorf("check answered: %w", err)
		}
		if answered {
			return ErrAlreadyAnswered
		}

		if err := tx.RecordAnswer(ctx, att.CompetitorID(), questionID, answerID); err != nil {
			return fmt.Errorf("record answer: %w", err)
		}

		remaining, err := tx.CountUnanswered(ctx, att.CompetitorID(), att.ExamID())
		if err != nil {
			return fmt.Errorf("count unanswered: %w", err)
		}
		if remaining > 0 {
			return nil
		}

		fin, err = finalize(ctx, tx, att)
		return err
	})
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) || errors.Is(err, ErrAlreadyAnswered) {
			return e.reread(ctx, att, err)
		}
		return nil, err
	}

	if fin != nil {
		e.log.Info().
			Int("competitor_id", att.CompetitorID()).
			Int("exam_id", att.ExamID()).
			Float64("score", fin.TakenExam.Score).
			Str("outcome", string(fin.Outcome)).
			Msg("Attempt finalized")
		return &Result{Finalized: fin}, nil
	}

	step, err := e.CurrentQuestion(ctx, att)
	if errors.Is(err, ErrNoQuestionRemaining) {
		// A concurrent submission answered the last question after this commit.
		return e.reread(ctx, att, err)
	}
	if err != nil {
		return nil, err
	}
	return &Result{Next: step}, nil
}

// checkDomain rejects question and answer ids outside the attempt before any write.
func (e *Engine) checkDomain(ctx context.Context, att Attempt, questionID, answerID int) error {
	q, err := e.store.Question(ctx, questionID)
	if errors.Is(err, apperr.ErrNotFound) {
		return ErrQuestionNotInExam
	}
	if err != nil {
		return fmt.Errorf("load question: %w", err)
	}
	if q.ExamID != att.ExamID() {
		return ErrQuestionNotInExam
	}

	answers, err := e.store.Answers(ctx, questionID)
	if err != nil {
		return fmt.Errorf("list answers: %w", err)
	}
	for _, a := range answers {
		if a.ID == answerID {
			return nil
		}
	}
	return ErrAnswerNotInQuestion
}

// finalize scores the attempt and writes its TakenExam.
func finalize(ctx context.Context, tx StoreTx, att Attempt) (*Finalization, error) {
	total, err := tx.QuestionCount(ctx, att.ExamID())
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	if total == 0 {
		return nil, ErrEmptyExam
	}

	correct, err := tx.CountCorrect(ctx, att.CompetitorID(), att.ExamID())
	if err != nil {
		return nil, fmt.Errorf("count correct answers: %w", err)
	}

	score := Score(correct, total)
	te, err := tx.CreateTakenExam(ctx, att.CompetitorID(), att.ExamID(), score)
	if err != nil {
		return nil, fmt.Errorf("create taken exam: %w", err)
	}

	return &Finalization{TakenExam: *te, Outcome: Classify(score)}, nil
}

// reread resolves a submission that lost a race. If the attempt is finalized
// the existing record is returned. Otherwise a conflict yields the current
// step and any other cause is returned unchanged.
func (e *Engine) reread(ctx context.Context, att Attempt, cause error) (*Result, error) {
	e.log.Warn().
		Err(cause).
		Int("competitor_id", att.CompetitorID()).
		Int("exam_id", att.ExamID()).
		Msg("Submission conflicted, re-reading attempt state")

	te, err := e.store.TakenExam(ctx, att.CompetitorID(), att.ExamID())
	switch {
	case err == nil:
		return &Result{
			Finalized: &Finalization{
				TakenExam:        *te,
				Outcome:          Classify(te.Score),
				AlreadyFinalized: true,
			},
			Conflicted: true,
		}, nil
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, fmt.Errorf("load taken exam: %w", err)
	}

	if !errors.Is(cause, apperr.ErrConflict) {
		return nil, cause
	}

	step, err := e.CurrentQuestion(ctx, att)
	if err != nil {
		return nil, err
	}
	return &Result{Next: step, Conflicted: true}, nil
}
