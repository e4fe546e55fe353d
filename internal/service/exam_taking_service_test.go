package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/opec-platform/opec-backend/internal/authz"
	"github.com/opec-platform/opec-backend/internal/model"
	"github.com/opec-platform/opec-backend/internal/progression"
)

func newTakingService(engine *fakeEngine) (*ExamTakingService, *fakeCatalog, *fakeRecorder, *fakePublisher) {
	catalog := newCatalog()
	rec := &fakeRecorder{}
	pub := &fakePublisher{}
	return NewExamTakingService(catalog.gate(), engine, rec, pub, zerolog.Nop()), catalog, rec, pub
}

func TestCurrentHidesCorrectness(t *testing.T) {
	engine := &fakeEngine{step: &progression.Step{
		Question:   model.Question{ID: 50, ExamID: 1, Text: "2+2"},
		Answers:    []model.Answer{{ID: 1, Text: "4", IsCorrect: true}, {ID: 2, Text: "5"}},
		Total:      4,
		Unanswered: 4,
		Progress:   25,
	}}
	svc, _, _, _ := newTakingService(engine)

	v, err := svc.Current(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if v.ExamName != "Algebra" || v.Progress != 25 || len(v.Answers) != 2 {
		t.Fatalf("view = %+v", v)
	}
	body, _ := json.Marshal(v)
	if strings.Contains(string(body), "is_correct") {
		t.Fatalf("view leaks correctness: %s", body)
	}
}

func TestSubmitPublishesFreshFinalization(t *testing.T) {
	date := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	engine := &fakeEngine{result: &progression.Result{Finalized: &progression.Finalization{
		TakenExam: model.TakenExam{ID: 3, CompetitorID: 7, ExamID: 1, Score: 75, Date: date},
		Outcome:   progression.OutcomeSuccess,
	}}}
	svc, _, rec, pub := newTakingService(engine)

	out, err := svc.Submit(context.Background(), 7, "ana", 1, &model.SubmitAnswerRequest{QuestionID: 50, AnswerID: 1})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.Status != StatusFinalized || out.Result == nil || out.Result.AlreadyFinalized {
		t.Fatalf("outcome = %+v", out)
	}
	if want := "Congratulations! You completed the exam Algebra with success! You scored 75.0 points."; out.Result.Message != want {
		t.Fatalf("message = %q", out.Result.Message)
	}
	if rec.answers != 1 || rec.finalized["success"] != 1 || rec.conflicts != 0 {
		t.Fatalf("recorder = %+v", rec)
	}
	if len(pub.events) != 1 || pub.events[0].Username != "ana" || pub.events[0].Score != 75 {
		t.Fatalf("published = %+v", pub.events)
	}
}

func TestSubmitObservingFinalizedStateDoesNotRepublish(t *testing.T) {
	engine := &fakeEngine{result: &progression.Result{
		Conflicted: true,
		Finalized: &progression.Finalization{
			TakenExam:        model.TakenExam{ID: 3, CompetitorID: 7, ExamID: 1, Score: 40},
			Outcome:          progression.OutcomeNeedsImprovement,
			AlreadyFinalized: true,
		},
	}}
	svc, _, rec, pub := newTakingService(engine)

	out, err := svc.Submit(context.Background(), 7, "ana", 1, &model.SubmitAnswerRequest{QuestionID: 50, AnswerID: 1})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !out.Result.AlreadyFinalized || out.Result.Outcome != progression.OutcomeNeedsImprovement {
		t.Fatalf("result = %+v", out.Result)
	}
	if rec.conflicts != 1 || rec.answers != 0 || len(pub.events) != 0 {
		t.Fatalf("recorder = %+v, published = %d", rec, len(pub.events))
	}
}

func TestSubmitTakenExamStopsAtGate(t *testing.T) {
	engine := &fakeEngine{}
	svc, catalog, _, _ := newTakingService(engine)
	catalog.taken[[2]int{7, 1}] = model.TakenExam{ID: 3, CompetitorID: 7, ExamID: 1, Score: 80}

	_, err := svc.Submit(context.Background(), 7, "ana", 1, &model.SubmitAnswerRequest{QuestionID: 50, AnswerID: 1})
	var taken *authz.AlreadyTakenError
	if !errors.As(err, &taken) || taken.TakenExam.Score != 80 {
		t.Fatalf("err = %v, want AlreadyTakenError", err)
	}
	if engine.calls != 0 {
		t.Fatal("engine was called for a taken exam")
	}
}
