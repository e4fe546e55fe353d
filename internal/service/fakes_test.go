package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/opec-platform/opec-backend/internal/apperr"
	"github.com/opec-platform/opec-backend/internal/authz"
	"github.com/opec-platform/opec-backend/internal/model"
	"github.com/opec-platform/opec-backend/internal/progression"
	ws "github.com/opec-platform/opec-backend/internal/websocket"
)

// ─── Sessions ───────────────────────────────────────────────────────

type fakeSessions struct {
	mu   sync.Mutex
	live map[string]time.Duration
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{live: make(map[string]time.Duration)}
}

func (s *fakeSessions) Save(_ context.Context, _ int, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live[jti] = ttl
	return nil
}

func (s *fakeSessions) Exists(_ context.Context, _ int, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.live[jti]
	return ok, nil
}

func (s *fakeSessions) Delete(_ context.Context, _ int, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, jti)
	return nil
}

// ─── Accounts ───────────────────────────────────────────────────────

type fakeAccounts struct {
	byName    map[string]model.Account
	interests map[int][]model.Subject
	nextID    int
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		byName:    make(map[string]model.Account),
		interests: make(map[int][]model.Subject),
		nextID:    1,
	}
}

func (f *fakeAccounts) insert(p *model.Profile) error {
	if _, ok := f.byName[p.Username]; ok {
		return &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
	}
	p.ID = f.nextID
	p.CreatedAt = time.Now()
	f.nextID++
	return nil
}

func (f *fakeAccounts) CreateEvaluator(_ context.Context, e *model.Evaluator) error {
	if err := f.insert(&e.Profile); err != nil {
		return err
	}
	f.byName[e.Username] = e
	return nil
}

func (f *fakeAccounts) CreateCompetitor(_ context.Context, c *model.Competitor, interests []int) error {
	if err := f.insert(&c.Profile); err != nil {
		return err
	}
	for _, id := range interests {
		c.Interests = append(c.Interests, model.Subject{ID: id})
	}
	f.interests[c.ID] = c.Interests
	f.byName[c.Username] = c
	return nil
}

func (f *fakeAccounts) GetByUsername(_ context.Context, username string) (model.Account, error) {
	acc, ok := f.byName[username]
	if !ok {
		return nil, apperr.New(apperr.ErrNotFound, "user")
	}
	return acc, nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id int) (model.Account, error) {
	for _, acc := range f.byName {
		if acc.AccountProfile().ID == id {
			return acc, nil
		}
	}
	return nil, apperr.New(apperr.ErrNotFound, "user")
}

func (f *fakeAccounts) Interests(_ context.Context, competitorID int) ([]model.Subject, error) {
	return f.interests[competitorID], nil
}

func (f *fakeAccounts) ReplaceInterests(_ context.Context, competitorID int, ids []int) ([]model.Subject, error) {
	subjects := make([]model.Subject, 0, len(ids))
	for _, id := range ids {
		subjects = append(subjects, model.Subject{ID: id})
	}
	f.interests[competitorID] = subjects
	return subjects, nil
}

// ─── Gate lookups ───────────────────────────────────────────────────

type fakeCatalog struct {
	exams     map[int]model.Exam
	questions map[int]model.Question
	interests map[[2]int]bool
	taken     map[[2]int]model.TakenExam
}

// newCatalog holds exam 1 (owner 10, subject 100) with question 50, and
// competitor 7 interested in subject 100.
func newCatalog() *fakeCatalog {
	return &fakeCatalog{
		exams:     map[int]model.Exam{1: {ID: 1, OwnerID: 10, Name: "Algebra", SubjectID: 100}},
		questions: map[int]model.Question{50: {ID: 50, ExamID: 1, Text: "2+2"}},
		interests: map[[2]int]bool{{7, 100}: true},
		taken:     map[[2]int]model.TakenExam{},
	}
}

func (f *fakeCatalog) GetByID(_ context.Context, id int) (*model.Exam, error) {
	e, ok := f.exams[id]
	if !ok {
		return nil, apperr.New(apperr.ErrNotFound, "exam")
	}
	return &e, nil
}

func (f *fakeCatalog) QuestionCount(_ context.Context, examID int) (int, error) {
	n := 0
	for _, q := range f.questions {
		if q.ExamID == examID {
			n++
		}
	}
	return n, nil
}

func (f *fakeCatalog) IsInterested(_ context.Context, competitorID, subjectID int) (bool, error) {
	return f.interests[[2]int{competitorID, subjectID}], nil
}

func (f *fakeCatalog) Get(_ context.Context, competitorID, examID int) (*model.TakenExam, error) {
	te, ok := f.taken[[2]int{competitorID, examID}]
	if !ok {
		return nil, apperr.New(apperr.ErrNotFound, "taken exam")
	}
	return &te, nil
}

type fakeQuestionLookup struct{ c *fakeCatalog }

func (f fakeQuestionLookup) GetByID(_ context.Context, id int) (*model.Question, error) {
	q, ok := f.c.questions[id]
	if !ok {
		return nil, apperr.New(apperr.ErrNotFound, "question")
	}
	return &q, nil
}

func (f *fakeCatalog) gate() *authz.Gate {
	return authz.NewGate(f, fakeQuestionLookup{f}, f, f)
}

// ─── Progression ────────────────────────────────────────────────────

type fakeEngine struct {
	step   *progression.Step
	result *progression.Result
	err    error
	calls  int
}

func (f *fakeEngine) CurrentQuestion(context.Context, progression.Attempt) (*progression.Step, error) {
	return f.step, f.err
}

func (f *fakeEngine) Submit(context.Context, progression.Attempt, int, int) (*progression.Result, error) {
	f.calls++
	return f.result, f.err
}

type fakeRecorder struct {
	answers   int
	finalized map[string]int
	conflicts int
}

func (r *fakeRecorder) AnswerSubmitted() { r.answers++ }
func (r *fakeRecorder) ExamFinalized(outcome string) {
	if r.finalized == nil {
		r.finalized = make(map[string]int)
	}
	r.finalized[outcome]++
}
func (r *fakeRecorder) SubmissionConflicted() { r.conflicts++ }

type fakePublisher struct {
	events []ws.ResultEvent
}

func (p *fakePublisher) Publish(_ context.Context, event ws.ResultEvent) error {
	p.events = append(p.events, event)
	return nil
}
