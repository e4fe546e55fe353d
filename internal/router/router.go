package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/opec-platform/opec-backend/internal/config"
	"github.com/opec-platform/opec-backend/internal/handler"
	"github.com/opec-platform/opec-backend/internal/metrics"
	"github.com/opec-platform/opec-backend/internal/middleware"
	"github.com/opec-platform/opec-backend/internal/model"
	"github.com/opec-platform/opec-backend/internal/response"
	"github.com/opec-platform/opec-backend/internal/service"
)

// subjectsMaxAge is how long clients may cache the subject catalog.
const subjectsMaxAge = 5 * time.Minute

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Subject    *handler.SubjectHandler
	Competitor *handler.CompetitorHandler
	Exam       *handler.ExamHandler
	Question   *handler.QuestionHandler
	WS         *handler.WSHandler
	System     *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
	m *metrics.Metrics,
	authLimiter *middleware.RateLimiter,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so the request log and every envelope carry it.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))

	if cfg.MetricsEnabled {
		router.Use(m.Middleware())
		router.GET("/metrics", m.Handler())
	}

	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality:   middleware.DefaultBrotliConfig.Quality,
		MinLength: middleware.DefaultBrotliConfig.MinLength,
		Skipper: func(c *gin.Context) bool {
			return c.Request.URL.Path == "/metrics"
		},
	}))

	router.GET("/health", handlers.System.Health)

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	publicAPI := router.Group("/api/v1")
	{
		publicAPI.GET("/subjects", middleware.PublicCache(subjectsMaxAge), handlers.Subject.List)
	}

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		limited := authLimiter.Middleware()
		auth.POST("/evaluator/signup", limited, handlers.Auth.EvaluatorSignUp)
		auth.POST("/competitor/signup", limited, handlers.Auth.CompetitorSignUp)
		auth.POST("/login", limited, handlers.Auth.Login)

		// Authenticated session routes
		session := auth.Group("")
		session.Use(
			middleware.RequireJWT(authService),
			middleware.CheckSession(authService),
			middleware.NoStore(),
		)
		session.POST("/logout", handlers.Auth.Logout)
		session.GET("/me", handlers.Auth.Me)
	}

	// ─── 2. Competitor Group (JWT + Role) ──────────────────────────────
	competitorAPI := router.Group("/api/v1/competitor")
	competitorAPI.Use(
		middleware.RequireJWT(authService),
		middleware.CheckSession(authService),
		middleware.RequireRole(model.RoleCompetitor),
		middleware.NoStore(),
	)
	{
		competitorAPI.GET("/exams", handlers.Competitor.ListExams)
		competitorAPI.GET("/interests", handlers.Competitor.GetInterests)
		competitorAPI.PUT("/interests", handlers.Competitor.UpdateInterests)
		competitorAPI.GET("/taken", handlers.Competitor.ListTaken)
		competitorAPI.GET("/exams/:exam_id/question", handlers.Competitor.CurrentQuestion)
		competitorAPI.POST("/exams/:exam_id/answer", handlers.Competitor.SubmitAnswer)
	}

	// ─── 3. Evaluator Group (JWT + Role) ───────────────────────────────
	evaluatorAPI := router.Group("/api/v1/evaluator")
	evaluatorAPI.Use(
		middleware.RequireJWT(authService),
		middleware.CheckSession(authService),
		middleware.RequireRole(model.RoleEvaluator),
		middleware.NoStore(),
	)
	{
		evaluatorAPI.GET("/exams", handlers.Exam.ListExams)
		evaluatorAPI.POST("/exams", handlers.Exam.CreateExam)
		evaluatorAPI.GET("/exams/:id", handlers.Exam.GetExam)
		evaluatorAPI.PUT("/exams/:id", handlers.Exam.UpdateExam)
		evaluatorAPI.DELETE("/exams/:id", handlers.Exam.DeleteExam)
		evaluatorAPI.GET("/exams/:id/results", handlers.Exam.GetResults)

		evaluatorAPI.POST("/exams/:id/questions", handlers.Question.AddQuestion)
		evaluatorAPI.GET("/exams/:id/questions/:question_id", handlers.Question.GetQuestion)
		evaluatorAPI.PUT("/exams/:id/questions/:question_id", handlers.Question.UpdateQuestion)
		evaluatorAPI.DELETE("/exams/:id/questions/:question_id", handlers.Question.DeleteQuestion)
	}

	// ─── 4. WebSocket Group (Evaluator WS Auth) ────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(
		middleware.RequireWSAuth(authService),
		middleware.CheckSession(authService),
		middleware.RequireRole(model.RoleEvaluator),
	)
	{
		ws.GET("/evaluator/exams/:id/results", handlers.WS.ResultStream)
	}

	return router
}
