package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/opec-platform/opec-backend/internal/apperr"
	"github.com/opec-platform/opec-backend/internal/config"
	"github.com/opec-platform/opec-backend/internal/model"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionInvalidated = errors.New("session invalidated")
)

// Claims extends JWT standard claims with the account identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int        `json:"user_id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

// SessionStore tracks live token ids so logout can revoke a token before it expires.
type SessionStore interface {
	Save(ctx context.Context, userID int, jti string, ttl time.Duration) error
	Exists(ctx context.Context, userID int, jti string) (bool, error)
	Delete(ctx context.Context, userID int, jti string) error
}

// CredentialLookup is satisfied by *repository.UserRepository.
type CredentialLookup interface {
	GetByUsername(ctx context.Context, username string) (model.Account, error)
}

// AuthService handles passwords, JWTs and sessions.
type AuthService struct {
	cfg      *config.Config
	users    CredentialLookup
	sessions SessionStore
	log      zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, users CredentialLookup, sessions SessionStore, log zerolog.Logger) *AuthService {
	return &AuthService{
		cfg:      cfg,
		users:    users,
		sessions: sessions,
		log:      log.With().Str("component", "auth_service").Logger(),
	}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Login verifies the credentials and issues a token for the account.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, model.Account, error) {
	acc, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, apperr.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("load account: %w", err)
	}

	if err := s.CheckPassword(acc.AccountProfile().PasswordHash, password); err != nil {
		return "", nil, err
	}

	token, err := s.IssueToken(ctx, acc)
	if err != nil {
		return "", nil, err
	}
	s.log.Info().Int("user_id", acc.AccountProfile().ID).Str("role", string(acc.Role())).Msg("Login")
	return token, acc, nil
}

// IssueToken signs a JWT for the account and registers its session in Redis
// with the same lifetime.
func (s *AuthService) IssueToken(ctx context.Context, acc model.Account) (string, error) {
	p := acc.AccountProfile()
	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.Itoa(p.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		UserID:   p.ID,
		Username: p.Username,
		Role:     acc.Role(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	if err := s.sessions.Save(ctx, p.ID, jti, s.cfg.JWTExpiry); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || !claims.Role.Valid() {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ValidateSession checks that the token was not revoked by a logout.
func (s *AuthService) ValidateSession(ctx context.Context, claims *Claims) error {
	ok, err := s.sessions.Exists(ctx, claims.UserID, claims.ID)
	if err != nil {
		return fmt.Errorf("check session: %w", err)
	}
	if !ok {
		return ErrSessionInvalidated
	}
	return nil
}

// Logout revokes the token's session.
func (s *AuthService) Logout(ctx context.Context, claims *Claims) error {
	return s.sessions.Delete(ctx, claims.UserID, claims.ID)
}
