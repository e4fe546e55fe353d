package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opec-platform/opec-backend/internal/middleware"
	"github.com/opec-platform/opec-backend/internal/model"
	"github.com/opec-platform/opec-backend/internal/response"
	"github.com/opec-platform/opec-backend/internal/service"
	"github.com/opec-platform/opec-backend/internal/validator"
)

// CompetitorHandler serves the competitor's exam listings, interests and the
// exam-taking flow. Routes are mounted behind RequireRole(competitor).
type CompetitorHandler struct {
	accountService    *service.AccountService
	examService       *service.ExamService
	examTakingService *service.ExamTakingService
}

func NewCompetitorHandler(
	accountService *service.AccountService,
	examService *service.ExamService,
	examTakingService *service.ExamTakingService,
) *CompetitorHandler {
	return &CompetitorHandler{
		accountService:    accountService,
		examService:       examService,
		examTakingService: examTakingService,
	}
}

// ListExams godoc
// GET /api/v1/competitor/exams
// Lists exams in the competitor's interests that have questions and were not taken yet.
func (h *CompetitorHandler) ListExams(c *gin.Context) {
	claims := middleware.GetClaims(c)

	exams, err := h.examService.ListEligible(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exams": exams})
}

// GetInterests godoc
// GET /api/v1/competitor/interests
func (h *CompetitorHandler) GetInterests(c *gin.Context) {
	claims := middleware.GetClaims(c)

	interests, err := h.accountService.Interests(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"interests": interests})
}

// UpdateInterests godoc
// PUT /api/v1/competitor/interests
// Replaces the competitor's interest set.
func (h *CompetitorHandler) UpdateInterests(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.UpdateInterestsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	interests, err := h.accountService.ReplaceInterests(c.Request.Context(), claims.UserID, req.Interests)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"interests": interests})
}

// ListTaken godoc
// GET /api/v1/competitor/taken
func (h *CompetitorHandler) ListTaken(c *gin.Context) {
	claims := middleware.GetClaims(c)

	taken, err := h.examService.ListTaken(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"taken_exams": taken})
}

// CurrentQuestion godoc
// GET /api/v1/competitor/exams/:exam_id/question
// Returns the first unanswered question of the exam with its progress.
func (h *CompetitorHandler) CurrentQuestion(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := paramID(c, "exam_id")
	if !ok {
		return
	}

	q, err := h.examTakingService.Current(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, q)
}

// SubmitAnswer godoc
// POST /api/v1/competitor/exams/:exam_id/answer
// Records the answer and returns either the next question or the final result.
func (h *CompetitorHandler) SubmitAnswer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := paramID(c, "exam_id")
	if !ok {
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	out, err := h.examTakingService.Submit(c.Request.Context(), claims.UserID, claims.Username, examID, &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}
