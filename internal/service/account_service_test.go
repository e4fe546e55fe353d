package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/opec-platform/opec-backend/internal/apperr"
	"github.com/opec-platform/opec-backend/internal/model"
)

func signUpRequest(username string) model.SignUpRequest {
	return model.SignUpRequest{
		Username:        username,
		Email:           username + "@uni.example",
		Phone:           "5551234",
		University:      "State University",
		UniversityID:    "S-1",
		Password:        "long-enough-pass",
		PasswordConfirm: "long-enough-pass",
	}
}

func TestSignUpCompetitorStoresHashAndInterests(t *testing.T) {
	accounts := newFakeAccounts()
	auth := NewAuthService(testConfig(), accounts, newFakeSessions(), zerolog.Nop())
	svc := NewAccountService(accounts, auth, zerolog.Nop())

	c, err := svc.SignUpCompetitor(context.Background(), &model.CompetitorSignUpRequest{
		SignUpRequest: signUpRequest("ana"),
		Interests:     []int{1, 3},
	})
	if err != nil {
		t.Fatalf("SignUpCompetitor: %v", err)
	}
	if c.ID == 0 || len(c.Interests) != 2 {
		t.Fatalf("competitor = %+v", c)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte("long-enough-pass")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestSignUpUsernameTaken(t *testing.T) {
	accounts := newFakeAccounts()
	auth := NewAuthService(testConfig(), accounts, newFakeSessions(), zerolog.Nop())
	svc := NewAccountService(accounts, auth, zerolog.Nop())
	ctx := context.Background()

	req := signUpRequest("ana")
	if _, err := svc.SignUpEvaluator(ctx, &req); err != nil {
		t.Fatal(err)
	}
	_, err := svc.SignUpEvaluator(ctx, &req)
	if !errors.Is(err, ErrUsernameTaken) || !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("err = %v, want ErrUsernameTaken", err)
	}
}
