package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/opec-platform/opec-backend/internal/authz"
	"github.com/opec-platform/opec-backend/internal/config"
	"github.com/opec-platform/opec-backend/internal/database"
	"github.com/opec-platform/opec-backend/internal/handler"
	"github.com/opec-platform/opec-backend/internal/logger"
	"github.com/opec-platform/opec-backend/internal/metrics"
	"github.com/opec-platform/opec-backend/internal/middleware"
	"github.com/opec-platform/opec-backend/internal/progression"
	"github.com/opec-platform/opec-backend/internal/repository"
	"github.com/opec-platform/opec-backend/internal/router"
	"github.com/opec-platform/opec-backend/internal/service"
	"github.com/opec-platform/opec-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting OPEC Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	subjectRepo := repository.NewSubjectRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	takenRepo := repository.NewTakenExamRepository(pool)
	progressionStore := repository.NewProgressionStore(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	m := metrics.New()
	gate := authz.NewGate(examRepo, questionRepo, userRepo, takenRepo)
	engine := progression.NewEngine(progressionStore, log)
	resultFeed := service.NewResultFeed(rdb, log)

	authService := service.NewAuthService(cfg, userRepo, service.NewRedisSessionStore(rdb), log)
	accountService := service.NewAccountService(userRepo, authService, log)
	subjectService := service.NewSubjectService(subjectRepo, log)
	examService := service.NewExamService(examRepo, questionRepo, takenRepo, log)
	questionService := service.NewQuestionService(questionRepo, log)
	examTakingService := service.NewExamTakingService(gate, engine, m, resultFeed, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, accountService),
		Subject:    handler.NewSubjectHandler(subjectService),
		Competitor: handler.NewCompetitorHandler(accountService, examService, examTakingService),
		Exam:       handler.NewExamHandler(gate, examService),
		Question:   handler.NewQuestionHandler(gate, questionService),
		WS:         handler.NewWSHandler(gate, resultFeed, log, cfg.AllowedOrigins),
		System: handler.NewSystemHandler(map[string]handler.Check{
			"postgres": pool.Ping,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}, log),
	}

	// ─── Auth Rate Limiter ────────────────────────────────────────────
	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimit, time.Minute)
	go authLimiter.RunCleanup(ctx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg, m, authLimiter, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	// Hijacked WebSocket connections are not tracked by Shutdown; cancelling
	// ctx stops the rate limiter cleanup and the process exit closes the rest.
	cancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
