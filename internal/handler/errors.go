package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/opec-platform/opec-backend/internal/apperr"
	"github.com/opec-platform/opec-backend/internal/authz"
	"github.com/opec-platform/opec-backend/internal/model"
	"github.com/opec-platform/opec-backend/internal/progression"
	"github.com/opec-platform/opec-backend/internal/repository"
	"github.com/opec-platform/opec-backend/internal/response"
	"github.com/opec-platform/opec-backend/internal/service"
)

// failFromError maps a service error to its HTTP status and error code.
// Unrecognized errors are attached to the context for the request logger
// and answered with 500.
func failFromError(c *gin.Context, err error) {
	var taken *authz.AlreadyTakenError
	if errors.As(err, &taken) {
		response.FailWithData(c, http.StatusConflict, response.ErrExamAlreadyTaken, gin.H{"taken_exam": taken.TakenExam})
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)

	case errors.Is(err, service.ErrUsernameTaken):
		response.FailWithFields(c, http.StatusConflict, response.ErrUsernameTaken,
			map[string]string{"username": response.GetMessage(response.ErrUsernameTaken)})

	case errors.Is(err, authz.ErrNotExamOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotExamOwner)
	case errors.Is(err, authz.ErrNotEligible):
		response.Fail(c, http.StatusForbidden, response.ErrExamNotEligible)

	case errors.Is(err, progression.ErrAlreadyAnswered):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrQuestionAlreadyAnswered)
	case errors.Is(err, progression.ErrEmptyExam):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrNoQuestions)
	case errors.Is(err, progression.ErrNoQuestionRemaining):
		response.Fail(c, http.StatusNotFound, response.ErrNoQuestionRemaining)

	case errors.Is(err, apperr.ErrValidation):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, validationFields(err))
	case errors.Is(err, apperr.ErrPermission):
		response.Fail(c, http.StatusForbidden, response.ErrPermissionDenied)
	case errors.Is(err, apperr.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, apperr.ErrConflict):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, apperr.ErrPrecondition):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrPreconditionFailed)

	default:
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// validationFields names the offending field for domain validation errors.
func validationFields(err error) map[string]string {
	switch {
	case errors.Is(err, progression.ErrQuestionNotInExam):
		return map[string]string{"question_id": "Question does not belong to this exam."}
	case errors.Is(err, progression.ErrAnswerNotInQuestion):
		return map[string]string{"answer_id": "Select a valid choice. That choice is not one of the available choices."}
	case errors.Is(err, repository.ErrForeignAnswer):
		return map[string]string{"answers": "An answer id does not belong to this question."}
	case errors.Is(err, repository.ErrUnknownSubject):
		return map[string]string{"interests": "Select a valid subject."}
	}
	for _, answerErr := range []error{model.ErrTooFewAnswers, model.ErrTooManyAnswers, model.ErrNoCorrectAnswer} {
		if errors.Is(err, answerErr) {
			return map[string]string{"answers": answerErr.Error()}
		}
	}
	return map[string]string{"detail": err.Error()}
}

// paramID parses a positive integer path parameter. On failure it writes a
// 400 response and returns false.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}
