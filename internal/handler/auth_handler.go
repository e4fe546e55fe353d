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

// AuthHandler handles signup, login and session endpoints.
type AuthHandler struct {
	authService    *service.AuthService
	accountService *service.AccountService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, accountService *service.AccountService) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		accountService: accountService,
	}
}

// EvaluatorSignUp godoc
// POST /api/v1/auth/evaluator/signup
// Creates an evaluator account and logs it in.
func (h *AuthHandler) EvaluatorSignUp(c *gin.Context) {
	var req model.SignUpRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	evaluator, err := h.accountService.SignUpEvaluator(c.Request.Context(), &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	h.issue(c, http.StatusCreated, evaluator)
}

// CompetitorSignUp godoc
// POST /api/v1/auth/competitor/signup
// Creates a competitor account with its subject interests and logs it in.
func (h *AuthHandler) CompetitorSignUp(c *gin.Context) {
	var req model.CompetitorSignUpRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	competitor, err := h.accountService.SignUpCompetitor(c.Request.Context(), &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	h.issue(c, http.StatusCreated, competitor)
}

func (h *AuthHandler) issue(c *gin.Context, status int, acc model.Account) {
	token, err := h.authService.IssueToken(c.Request.Context(), acc)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, status, gin.H{
		"token":   token,
		"role":    acc.Role(),
		"account": acc,
	})
}

// Login godoc
// POST /api/v1/auth/login
// Authenticates either role by username and password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, acc, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":   token,
		"role":    acc.Role(),
		"account": acc,
	})
}

// Logout godoc
// POST /api/v1/auth/logout
// Revokes the session behind the presented token.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	acc, err := h.accountService.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"role":    acc.Role(),
		"account": acc,
	})
}
