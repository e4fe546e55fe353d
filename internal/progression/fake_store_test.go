package progression

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/opec-platform/opec-backend/internal/apperr"
	"github.com/opec-platform/opec-backend/internal/model"
)

type pair struct{ a, b int }

// fakeStore keeps exam data in memory. Transactions are serialized by txMu
// and stage their writes until commit, mirroring the advisory lock.
type fakeStore struct {
	txMu sync.Mutex

	mu        sync.Mutex
	questions map[int]model.Question
	answers   map[int][]model.Answer
	chosen    map[pair]int // (competitor, question) -> answer
	taken     map[pair]model.TakenExam
	nextTaken int

	// beforeCreateTaken runs inside CreateTakenExam before the uniqueness check.
	beforeCreateTaken func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		questions: make(map[int]model.Question),
		answers:   make(map[int][]model.Answer),
		chosen:    make(map[pair]int),
		taken:     make(map[pair]model.TakenExam),
		nextTaken: 1,
	}
}

// addQuestion stores a question with answers; the first correct answers are marked correct.
func (s *fakeStore) addQuestion(examID, id int, text string, answerIDs []int, correct int) {
	s.questions[id] = model.Question{ID: id, ExamID: examID, Text: text}
	for i, aid := range answerIDs {
		s.answers[id] = append(s.answers[id], model.Answer{
			ID:         aid,
			QuestionID: id,
			Text:       string(rune('a' + i)),
			IsCorrect:  i < correct,
		})
	}
}

func (s *fakeStore) answerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chosen)
}

func (s *fakeStore) takenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.taken)
}

func (s *fakeStore) examQuestions(examID int) []model.Question {
	var out []model.Question
	for _, q := range s.questions {
		if q.ExamID == examID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Text != out[j].Text {
			return out[i].Text < out[j].Text
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *fakeStore) QuestionCount(_ context.Context, examID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.examQuestions(examID)), nil
}

func (s *fakeStore) UnansweredQuestions(_ context.Context, competitorID, examID int) ([]model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Question
	for _, q := range s.examQuestions(examID) {
		if _, ok := s.chosen[pair{competitorID, q.ID}]; !ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *fakeStore) Question(_ context.Context, questionID int) (*model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[questionID]
	if !ok {
		return nil, apperr.New(apperr.ErrNotFound, "question")
	}
	return &q, nil
}

func (s *fakeStore) Answers(_ context.Context, questionID int) ([]model.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]model.Answer(nil), s.answers[questionID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Text < out[j].Text })
	return out, nil
}

func (s *fakeStore) TakenExam(_ context.Context, competitorID, examID int) (*model.TakenExam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	te, ok := s.taken[pair{competitorID, examID}]
	if !ok {
		return nil, apperr.New(apperr.ErrNotFound, "taken exam")
	}
	return &te, nil
}

func (s *fakeStore) InTx(ctx context.Context, fn func(tx StoreTx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &fakeTx{s: s, chosen: make(map[pair]int), taken: make(map[pair]model.TakenExam)}
	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range tx.chosen {
		s.chosen[k] = v
	}
	for k, v := range tx.taken {
		s.taken[k] = v
	}
	return nil
}

type fakeTx struct {
	s      *fakeStore
	chosen map[pair]int
	taken  map[pair]model.TakenExam
}

func (t *fakeTx) LockAttempt(context.Context, int, int) error { return nil }

func (t *fakeTx) answered(competitorID, questionID int) bool {
	k := pair{competitorID, questionID}
	if _, ok := t.chosen[k]; ok {
		return true
	}
	_, ok := t.s.chosen[k]
	return ok
}

func (t *fakeTx) IsAnswered(_ context.Context, competitorID, questionID int) (bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.answered(competitorID, questionID), nil
}

func (t *fakeTx) RecordAnswer(_ context.Context, competitorID, questionID, answerID int) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.answered(competitorID, questionID) {
		return apperr.New(apperr.ErrConflict, "competitor_answers_competitor_question_key")
	}
	t.chosen[pair{competitorID, questionID}] = answerID
	return nil
}

func (t *fakeTx) CountUnanswered(_ context.Context, competitorID, examID int) (int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	n := 0
	for _, q := range t.s.examQuestions(examID) {
		if !t.answered(competitorID, q.ID) {
			n++
		}
	}
	return n, nil
}

func (t *fakeTx) QuestionCount(ctx context.Context, examID int) (int, error) {
	return t.s.QuestionCount(ctx, examID)
}

func (t *fakeTx) CountCorrect(_ context.Context, competitorID, examID int) (int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	n := 0
	for _, q := range t.s.examQuestions(examID) {
		aid, ok := t.chosen[pair{competitorID, q.ID}]
		if !ok {
			aid, ok = t.s.chosen[pair{competitorID, q.ID}]
		}
		if !ok {
			continue
		}
		for _, a := range t.s.answers[q.ID] {
			if a.ID == aid && a.IsCorrect {
				n++
			}
		}
	}
	return n, nil
}

func (t *fakeTx) CreateTakenExam(_ context.Context, competitorID, examID int, score float64) (*model.TakenExam, error) {
	if t.s.beforeCreateTaken != nil {
		t.s.beforeCreateTaken()
	}

	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	k := pair{competitorID, examID}
	if _, ok := t.s.taken[k]; ok {
		return nil, apperr.New(apperr.ErrConflict, "taken_exams_competitor_exam_key")
	}
	if _, ok := t.taken[k]; ok {
		return nil, apperr.New(apperr.ErrConflict, "taken_exams_competitor_exam_key")
	}
	te := model.TakenExam{
		ID:           t.s.nextTaken,
		CompetitorID: competitorID,
		ExamID:       examID,
		Score:        score,
		Date:         time.Now(),
	}
	t.s.nextTaken++
	t.taken[k] = te
	return &te, nil
}
