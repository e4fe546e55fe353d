package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opec-platform/opec-backend/internal/authz"
	"github.com/opec-platform/opec-backend/internal/middleware"
	"github.com/opec-platform/opec-backend/internal/model"
	"github.com/opec-platform/opec-backend/internal/response"
	"github.com/opec-platform/opec-backend/internal/service"
	"github.com/opec-platform/opec-backend/internal/validator"
)

// ExamHandler handles the evaluator's exam authoring endpoints.
type ExamHandler struct {
	gate        *authz.Gate
	examService *service.ExamService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(gate *authz.Gate, examService *service.ExamService) *ExamHandler {
	return &ExamHandler{
		gate:        gate,
		examService: examService,
	}
}

// ownedExam resolves the :id parameter to an exam owned by the caller.
// On failure the response is already written.
func ownedExam(c *gin.Context, gate *authz.Gate) (*authz.OwnedExam, bool) {
	claims := middleware.GetClaims(c)
	examID, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	owned, err := gate.OwnExam(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		failFromError(c, err)
		return nil, false
	}
	return owned, true
}

// ListExams godoc
// GET /api/v1/evaluator/exams
// Lists the evaluator's exams with question and result counts.
func (h *ExamHandler) ListExams(c *gin.Context) {
	claims := middleware.GetClaims(c)

	exams, err := h.examService.ListOwned(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exams": exams})
}

// CreateExam godoc
// POST /api/v1/evaluator/exams
func (h *ExamHandler) CreateExam(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, err := h.examService.Create(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"exam": exam})
}

// GetExam godoc
// GET /api/v1/evaluator/exams/:id
// Returns the exam with its questions ordered by text.
func (h *ExamHandler) GetExam(c *gin.Context) {
	owned, ok := ownedExam(c, h.gate)
	if !ok {
		return
	}

	detail, err := h.examService.Detail(c.Request.Context(), owned)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// UpdateExam godoc
// PUT /api/v1/evaluator/exams/:id
func (h *ExamHandler) UpdateExam(c *gin.Context) {
	owned, ok := ownedExam(c, h.gate)
	if !ok {
		return
	}

	var req model.UpdateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, err := h.examService.Update(c.Request.Context(), owned, &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exam": exam})
}

// DeleteExam godoc
// DELETE /api/v1/evaluator/exams/:id
// Deletes the exam together with its questions, answers and results.
func (h *ExamHandler) DeleteExam(c *gin.Context) {
	owned, ok := ownedExam(c, h.gate)
	if !ok {
		return
	}

	if err := h.examService.Delete(c.Request.Context(), owned); err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// GetResults godoc
// GET /api/v1/evaluator/exams/:id/results
// Returns the exam's results, newest first, with the count and average score.
func (h *ExamHandler) GetResults(c *gin.Context) {
	owned, ok := ownedExam(c, h.gate)
	if !ok {
		return
	}

	results, err := h.examService.Results(c.Request.Context(), owned)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, results)
}
