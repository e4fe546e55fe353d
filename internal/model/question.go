package model

import (
	"errors"
	"time"
)

// Limits on the answer set of a single question.
const (
	MinAnswers = 2
	MaxAnswers = 10
)

// Answer-set validation errors.
var (
	ErrTooFewAnswers   = errors.New("a question needs at least 2 answers")
	ErrTooManyAnswers  = errors.New("a question accepts at most 10 answers")
	ErrNoCorrectAnswer = errors.New("mark at least one answer as correct")
)

// Question belongs to exactly one exam.
type Question struct {
	ID        int       `json:"id"`
	ExamID    int       `json:"exam_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuestionSummary is a question row on the evaluator's exam page.
type QuestionSummary struct {
	Question
	AnswersCount int `json:"answers_count"`
}

// Answer is one option of a question.
type Answer struct {
	ID         int    `json:"id"`
	QuestionID int    `json:"question_id"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct"`
}

// AnswerOption is an answer as shown to a competitor, without its correctness.
type AnswerOption struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Options strips correctness from answers, keeping their order.
func Options(answers []Answer) []AnswerOption {
	opts := make([]AnswerOption, len(answers))
	for i, a := range answers {
		opts[i] = AnswerOption{ID: a.ID, Text: a.Text}
	}
	return opts
}

// AddQuestionRequest is the payload for adding a question to an exam.
type AddQuestionRequest struct {
	Text string `json:"text" binding:"required,min=1,max=2000"`
}

// AnswerInput is one answer in a question edit. A nil ID creates a new answer.
type AnswerInput struct {
	ID        *int   `json:"id" binding:"omitempty,gt=0"`
	Text      string `json:"text" binding:"required,min=1,max=255"`
	IsCorrect bool   `json:"is_correct"`
}

// UpdateQuestionRequest replaces a question's text and its whole answer set.
type UpdateQuestionRequest struct {
	Text    string        `json:"text" binding:"required,min=1,max=2000"`
	Answers []AnswerInput `json:"answers" binding:"required,min=2,max=10,has_correct,dive"`
}

// HasCorrectAnswer reports whether at least one input is marked correct.
func HasCorrectAnswer(answers []AnswerInput) bool {
	for _, a := range answers {
		if a.IsCorrect {
			return true
		}
	}
	return false
}

// ValidateAnswerSet enforces the question-edit invariant: 2 to 10 answers, one or more correct.
func ValidateAnswerSet(answers []AnswerInput) error {
	switch {
	case len(answers) < MinAnswers:
		return ErrTooFewAnswers
	case len(answers) > MaxAnswers:
		return ErrTooManyAnswers
	case !HasCorrectAnswer(answers):
		return ErrNoCorrectAnswer
	}
	return nil
}
