package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/opec-platform/opec-backend/internal/apperr"
	"github.com/opec-platform/opec-backend/internal/model"
)

// ErrUsernameTaken is returned by signups when the username exists.
var ErrUsernameTaken = apperr.New(apperr.ErrConflict, "username already taken")

const usernameConstraint = "users_username_key"

// AccountStore is satisfied by *repository.UserRepository.
type AccountStore interface {
	CreateEvaluator(ctx context.Context, e *model.Evaluator) error
	CreateCompetitor(ctx context.Context, c *model.Competitor, interests []int) error
	GetByID(ctx context.Context, id int) (model.Account, error)
	Interests(ctx context.Context, competitorID int) ([]model.Subject, error)
	ReplaceInterests(ctx context.Context, competitorID int, subjectIDs []int) ([]model.Subject, error)
}

// PasswordHasher is satisfied by *AuthService.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// AccountService handles signup and competitor interests.
type AccountService struct {
	store  AccountStore
	hasher PasswordHasher
	log    zerolog.Logger
}

func NewAccountService(store AccountStore, hasher PasswordHasher, log zerolog.Logger) *AccountService {
	return &AccountService{
		store:  store,
		hasher: hasher,
		log:    log.With().Str("component", "account_service").Logger(),
	}
}

func (s *AccountService) profile(req *model.SignUpRequest) (model.Profile, error) {
	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return model.Profile{}, fmt.Errorf("hash password: %w", err)
	}
	return model.Profile{
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		University:   req.University,
		UniversityID: req.UniversityID,
		PasswordHash: hash,
	}, nil
}

// SignUpEvaluator creates an evaluator account.
func (s *AccountService) SignUpEvaluator(ctx context.Context, req *model.SignUpRequest) (*model.Evaluator, error) {
	p, err := s.profile(req)
	if err != nil {
		return nil, err
	}

	e := &model.Evaluator{Profile: p}
	if err := s.store.CreateEvaluator(ctx, e); err != nil {
		return nil, usernameConflict(err)
	}
	s.log.Info().Int("user_id", e.ID).Msg("Evaluator signed up")
	return e, nil
}

// SignUpCompetitor creates a competitor account with its interests.
func (s *AccountService) SignUpCompetitor(ctx context.Context, req *model.CompetitorSignUpRequest) (*model.Competitor, error) {
	p, err := s.profile(&req.SignUpRequest)
	if err != nil {
		return nil, err
	}

	c := &model.Competitor{Profile: p}
	if err := s.store.CreateCompetitor(ctx, c, req.Interests); err != nil {
		return nil, usernameConflict(err)
	}
	s.log.Info().Int("user_id", c.ID).Int("interests", len(c.Interests)).Msg("Competitor signed up")
	return c, nil
}

func usernameConflict(err error) error {
	if apperr.IsUniqueViolation(err, usernameConstraint) {
		return ErrUsernameTaken
	}
	return err
}

// Get returns the account.
func (s *AccountService) Get(ctx context.Context, id int) (model.Account, error) {
	return s.store.GetByID(ctx, id)
}

// Interests returns the competitor's interests ordered by name.
func (s *AccountService) Interests(ctx context.Context, competitorID int) ([]model.Subject, error) {
	return s.store.Interests(ctx, competitorID)
}

// ReplaceInterests swaps the competitor's interest set.
func (s *AccountService) ReplaceInterests(ctx context.Context, competitorID int, subjectIDs []int) ([]model.Subject, error) {
	subjects, err := s.store.ReplaceInterests(ctx, competitorID, subjectIDs)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int("user_id", competitorID).Int("interests", len(subjects)).Msg("Interests updated")
	return subjects, nil
}
