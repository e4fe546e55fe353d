package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/opec-platform/opec-backend/internal/apperr"
	"github.com/opec-platform/opec-backend/internal/authz"
	"github.com/opec-platform/opec-backend/internal/model"
)

// QuestionStore is satisfied by *repository.QuestionRepository.
type QuestionStore interface {
	Create(ctx context.Context, q *model.Question) error
	Answers(ctx context.Context, questionID int) ([]model.Answer, error)
	Update(ctx context.Context, q *model.Question, answers []model.AnswerInput) ([]model.Answer, error)
	Delete(ctx context.Context, id int) error
}

// QuestionDetail is a question with its answers.
type QuestionDetail struct {
	Question model.Question `json:"question"`
	Answers  []model.Answer `json:"answers"`
}

type QuestionService struct {
	store QuestionStore
	log   zerolog.Logger
}

func NewQuestionService(store QuestionStore, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		store: store,
		log:   log.With().Str("component", "question_service").Logger(),
	}
}

// Add creates a question without answers. Answers are set by Update.
func (s *QuestionService) Add(ctx context.Context, exam *authz.OwnedExam, req *model.AddQuestionRequest) (*model.Question, error) {
	q := &model.Question{ExamID: exam.ID(), Text: req.Text}
	if err := s.store.Create(ctx, q); err != nil {
		return nil, err
	}
	s.log.Info().Int("exam_id", exam.ID()).Int("question_id", q.ID).Msg("Question added")
	return q, nil
}

// Detail returns the question with its answers.
func (s *QuestionService) Detail(ctx context.Context, question *authz.OwnedQuestion) (*QuestionDetail, error) {
	answers, err := s.store.Answers(ctx, question.ID())
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	return &QuestionDetail{Question: question.Question(), Answers: answers}, nil
}

// Update replaces the question text and answer set. The set must hold 2 to
// 10 answers with at least one correct; otherwise nothing is written.
func (s *QuestionService) Update(ctx context.Context, question *authz.OwnedQuestion, req *model.UpdateQuestionRequest) (*QuestionDetail, error) {
	if err := model.ValidateAnswerSet(req.Answers); err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrValidation, err)
	}

	q := question.Question()
	q.Text = req.Text
	answers, err := s.store.Update(ctx, &q, req.Answers)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int("question_id", q.ID).Int("answers", len(answers)).Msg("Question updated")
	return &QuestionDetail{Question: q, Answers: answers}, nil
}

// Delete removes the question and its answers.
func (s *QuestionService) Delete(ctx context.Context, question *authz.OwnedQuestion) error {
	return s.store.Delete(ctx, question.ID())
}
