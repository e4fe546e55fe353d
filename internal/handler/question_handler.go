package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opec-platform/opec-backend/internal/authz"
	"github.com/opec-platform/opec-backend/internal/model"
	"github.com/opec-platform/opec-backend/internal/response"
	"github.com/opec-platform/opec-backend/internal/service"
	"github.com/opec-platform/opec-backend/internal/validator"
)

// QuestionHandler handles questions of an evaluator's exam.
type QuestionHandler struct {
	gate            *authz.Gate
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(gate *authz.Gate, questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		gate:            gate,
		questionService: questionService,
	}
}

func (h *QuestionHandler) ownedQuestion(c *gin.Context) (*authz.OwnedQuestion, bool) {
	exam, ok := ownedExam(c, h.gate)
	if !ok {
		return nil, false
	}
	questionID, ok := paramID(c, "question_id")
	if !ok {
		return nil, false
	}

	owned, err := h.gate.OwnQuestion(c.Request.Context(), exam, questionID)
	if err != nil {
		failFromError(c, err)
		return nil, false
	}
	return owned, true
}

// AddQuestion godoc
// POST /api/v1/evaluator/exams/:id/questions
// Adds a question without answers. Answers are supplied by UpdateQuestion.
func (h *QuestionHandler) AddQuestion(c *gin.Context) {
	exam, ok := ownedExam(c, h.gate)
	if !ok {
		return
	}

	var req model.AddQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	q, err := h.questionService.Add(c.Request.Context(), exam, &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"question": q})
}

// GetQuestion godoc
// GET /api/v1/evaluator/exams/:id/questions/:question_id
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	q, ok := h.ownedQuestion(c)
	if !ok {
		return
	}

	detail, err := h.questionService.Detail(c.Request.Context(), q)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// UpdateQuestion godoc
// PUT /api/v1/evaluator/exams/:id/questions/:question_id
// Replaces the question text and its answer set in one transaction.
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	q, ok := h.ownedQuestion(c)
	if !ok {
		return
	}

	var req model.UpdateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	detail, err := h.questionService.Update(c.Request.Context(), q, &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// DeleteQuestion godoc
// DELETE /api/v1/evaluator/exams/:id/questions/:question_id
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	q, ok := h.ownedQuestion(c)
	if !ok {
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), q); err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
