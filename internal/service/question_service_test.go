package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/opec-platform/opec-backend/internal/apperr"
	"github.com/opec-platform/opec-backend/internal/model"
)

type recordingQuestionStore struct {
	updates int
}

func (s *recordingQuestionStore) Create(_ context.Context, q *model.Question) error {
	q.ID = 99
	return nil
}

func (s *recordingQuestionStore) Answers(context.Context, int) ([]model.Answer, error) {
	return []model.Answer{}, nil
}

func (s *recordingQuestionStore) Update(_ context.Context, q *model.Question, in []model.AnswerInput) ([]model.Answer, error) {
	s.updates++
	out := make([]model.Answer, len(in))
	for i, a := range in {
		out[i] = model.Answer{ID: i + 1, QuestionID: q.ID, Text: a.Text, IsCorrect: a.IsCorrect}
	}
	return out, nil
}

func (s *recordingQuestionStore) Delete(context.Context, int) error { return nil }

func TestQuestionUpdateValidatesAnswerSet(t *testing.T) {
	catalog := newCatalog()
	gate := catalog.gate()
	ctx := context.Background()

	exam, err := gate.OwnExam(ctx, 10, 1)
	if err != nil {
		t.Fatal(err)
	}
	question, err := gate.OwnQuestion(ctx, exam, 50)
	if err != nil {
		t.Fatal(err)
	}

	store := &recordingQuestionStore{}
	svc := NewQuestionService(store, zerolog.Nop())

	_, err = svc.Update(ctx, question, &model.UpdateQuestionRequest{
		Text:    "2+2",
		Answers: []model.AnswerInput{{Text: "3"}, {Text: "5"}},
	})
	if !errors.Is(err, apperr.ErrValidation) || !errors.Is(err, model.ErrNoCorrectAnswer) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if store.updates != 0 {
		t.Fatal("invalid answer set reached the store")
	}

	detail, err := svc.Update(ctx, question, &model.UpdateQuestionRequest{
		Text:    "2 + 2",
		Answers: []model.AnswerInput{{Text: "4", IsCorrect: true}, {Text: "5"}},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if detail.Question.Text != "2 + 2" || len(detail.Answers) != 2 || store.updates != 1 {
		t.Fatalf("detail = %+v", detail)
	}
}
