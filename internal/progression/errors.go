package progression

import "github.com/opec-platform/opec-backend/internal/apperr"

var (
	// ErrNoQuestionRemaining is returned by CurrentQuestion once every question is answered.
	ErrNoQuestionRemaining = apperr.New(apperr.ErrNotFound, "no question remaining")

	// ErrQuestionNotInExam rejects a submission for a question outside the attempted exam.
	ErrQuestionNotInExam = apperr.New(apperr.ErrValidation, "question does not belong to the exam")

	// ErrAnswerNotInQuestion rejects an answer outside the question's answer set.
	ErrAnswerNotInQuestion = apperr.New(apperr.ErrValidation, "answer does not belong to the question")

	// ErrAlreadyAnswered means the competitor already answered the question.
	ErrAlreadyAnswered = apperr.New(apperr.ErrPrecondition, "question already answered")

	// ErrEmptyExam means the exam has no questions. The authorization gate never lets one through.
	ErrEmptyExam = apperr.New(apperr.ErrPrecondition, "exam has no questions")
)
