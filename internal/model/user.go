package model

import "time"

// Role is fixed when the account signs up.
type Role string

const (
	RoleEvaluator  Role = "evaluator"
	RoleCompetitor Role = "competitor"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleEvaluator || r == RoleCompetitor
}

// Profile holds the fields every account has regardless of role.
type Profile struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	University   string    `json:"university"`
	UniversityID string    `json:"university_id"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Account is either an *Evaluator or a *Competitor.
type Account interface {
	AccountProfile() *Profile
	Role() Role
}

// Evaluator authors exams.
type Evaluator struct {
	Profile
}

func (e *Evaluator) AccountProfile() *Profile { return &e.Profile }
func (e *Evaluator) Role() Role               { return RoleEvaluator }

// Competitor takes exams matching its interests.
type Competitor struct {
	Profile
	Interests []Subject `json:"interests"`
}

func (c *Competitor) AccountProfile() *Profile { return &c.Profile }
func (c *Competitor) Role() Role               { return RoleCompetitor }

// NewAccount wraps a profile in the variant matching role.
func NewAccount(p Profile, role Role) Account {
	if role == RoleEvaluator {
		return &Evaluator{Profile: p}
	}
	return &Competitor{Profile: p}
}

// SignUpRequest is the payload shared by both signup endpoints.
type SignUpRequest struct {
	Username        string `json:"username" binding:"required,min=3,max=150,alphanum"`
	Email           string `json:"email" binding:"required,email,max=254"`
	Phone           string `json:"phone" binding:"required,numeric,max=20"`
	University      string `json:"university" binding:"required,max=200"`
	UniversityID    string `json:"university_id" binding:"required,max=200"`
	Password        string `json:"password" binding:"required,min=8,max=128"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=Password"`
}

// CompetitorSignUpRequest adds the required interest subjects.
type CompetitorSignUpRequest struct {
	SignUpRequest
	Interests []int `json:"interests" binding:"required,min=1,dive,gt=0"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Password string `json:"password" binding:"required,max=128"`
}

// UpdateInterestsRequest replaces a competitor's interest set.
type UpdateInterestsRequest struct {
	Interests []int `json:"interests" binding:"required,dive,gt=0"`
}
