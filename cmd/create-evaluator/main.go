package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin/binding"
	"golang.org/x/term"

	"github.com/opec-platform/opec-backend/internal/config"
	"github.com/opec-platform/opec-backend/internal/database"
	"github.com/opec-platform/opec-backend/internal/logger"
	"github.com/opec-platform/opec-backend/internal/model"
	"github.com/opec-platform/opec-backend/internal/repository"
	"github.com/opec-platform/opec-backend/internal/service"
	"github.com/opec-platform/opec-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Services ───────────────────────────────────────────
	// Sessions are only needed to issue tokens, which this tool never does.
	userRepo := repository.NewUserRepository(pool)
	authService := service.NewAuthService(cfg, userRepo, nil, log)
	accountService := service.NewAccountService(userRepo, authService, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)
	prompt := func(label string) string {
		fmt.Printf("Enter %s: ", label)
		line, _ := reader.ReadString('\n')
		return strings.TrimSpace(line)
	}

	fmt.Println("=== Create New Evaluator ===")

	req := model.SignUpRequest{
		Username:     prompt("Username"),
		Email:        prompt("Email"),
		Phone:        prompt("Phone"),
		University:   prompt("University"),
		UniversityID: prompt("University ID"),
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // Newline after password input
	if err != nil {
		fmt.Println("Error reading password")
		os.Exit(1)
	}
	req.Password = string(bytePassword)
	req.PasswordConfirm = req.Password

	if err := binding.Validator.ValidateStruct(&req); err != nil {
		fields := validator.TranslateErrors(err)
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("Error: %s: %s\n", k, fields[k])
		}
		os.Exit(1)
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	evaluator, err := accountService.SignUpEvaluator(ctx, &req)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create evaluator")
	}

	fmt.Printf("\nSuccess! Evaluator '%s' (%s) created with ID: %d\n", evaluator.Username, evaluator.Email, evaluator.ID)
}
