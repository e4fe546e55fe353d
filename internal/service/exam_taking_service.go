package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/opec-platform/opec-backend/internal/authz"
	"github.com/opec-platform/opec-backend/internal/model"
	"github.com/opec-platform/opec-backend/internal/progression"
	ws "github.com/opec-platform/opec-backend/internal/websocket"
)

// AttemptAuthorizer is satisfied by *authz.Gate.
type AttemptAuthorizer interface {
	AuthorizeAttempt(ctx context.Context, competitorID, examID int) (*authz.Attempt, error)
}

// Progression is satisfied by *progression.Engine.
type Progression interface {
	CurrentQuestion(ctx context.Context, att progression.Attempt) (*progression.Step, error)
	Submit(ctx context.Context, att progression.Attempt, questionID, answerID int) (*progression.Result, error)
}

// ProgressRecorder is satisfied by *metrics.Metrics.
type ProgressRecorder interface {
	AnswerSubmitted()
	ExamFinalized(outcome string)
	SubmissionConflicted()
}

// ResultPublisher is satisfied by *ResultFeed.
type ResultPublisher interface {
	Publish(ctx context.Context, event ws.ResultEvent) error
}

// Submission statuses.
const (
	StatusContinue  = "continue"
	StatusFinalized = "finalized"
)

// QuestionView is the question a competitor answers next, without correctness flags.
type QuestionView struct {
	ExamID     int                  `json:"exam_id"`
	ExamName   string               `json:"exam_name"`
	Question   model.Question       `json:"question"`
	Answers    []model.AnswerOption `json:"answers"`
	Total      int                  `json:"total_questions"`
	Unanswered int                  `json:"unanswered_questions"`
	Progress   int                  `json:"progress"`
}

// FinalResult is the outcome shown after the last answer.
type FinalResult struct {
	TakenExam        model.TakenExam     `json:"taken_exam"`
	Outcome          progression.Outcome `json:"outcome"`
	Message          string              `json:"message"`
	AlreadyFinalized bool                `json:"already_finalized"`
}

// SubmitOutcome is either the next question or the final result.
type SubmitOutcome struct {
	Status string        `json:"status"`
	Next   *QuestionView `json:"next,omitempty"`
	Result *FinalResult  `json:"result,omitempty"`
}

// ExamTakingService walks a competitor through an exam.
type ExamTakingService struct {
	gate      AttemptAuthorizer
	engine    Progression
	recorder  ProgressRecorder
	publisher ResultPublisher
	log       zerolog.Logger
}

func NewExamTakingService(gate AttemptAuthorizer, engine Progression, recorder ProgressRecorder, publisher ResultPublisher, log zerolog.Logger) *ExamTakingService {
	return &ExamTakingService{
		gate:      gate,
		engine:    engine,
		recorder:  recorder,
		publisher: publisher,
		log:       log.With().Str("component", "exam_taking_service").Logger(),
	}
}

// Current returns the competitor's current question for the exam.
func (s *ExamTakingService) Current(ctx context.Context, competitorID, examID int) (*QuestionView, error) {
	att, err := s.gate.AuthorizeAttempt(ctx, competitorID, examID)
	if err != nil {
		return nil, err
	}
	step, err := s.engine.CurrentQuestion(ctx, att)
	if err != nil {
		return nil, err
	}
	return view(att.Exam(), step), nil
}

// Submit answers the given question. username labels the published result.
func (s *ExamTakingService) Submit(ctx context.Context, competitorID int, username string, examID int, req *model.SubmitAnswerRequest) (*SubmitOutcome, error) {
	att, err := s.gate.AuthorizeAttempt(ctx, competitorID, examID)
	if err != nil {
		return nil, err
	}

	res, err := s.engine.Submit(ctx, att, req.QuestionID, req.AnswerID)
	if err != nil {
		return nil, err
	}
	if res.Conflicted {
		s.recorder.SubmissionConflicted()
	}

	exam := att.Exam()
	if res.Finalized == nil {
		s.recorder.AnswerSubmitted()
		return &SubmitOutcome{Status: StatusContinue, Next: view(exam, res.Next)}, nil
	}

	fin := res.Finalized
	if !fin.AlreadyFinalized {
		s.recorder.AnswerSubmitted()
		s.recorder.ExamFinalized(string(fin.Outcome))
		s.publish(ctx, username, fin)
	}

	return &SubmitOutcome{
		Status: StatusFinalized,
		Result: &FinalResult{
			TakenExam:        fin.TakenExam,
			Outcome:          fin.Outcome,
			Message:          fin.Notice(exam.Name),
			AlreadyFinalized: fin.AlreadyFinalized,
		},
	}, nil
}

// publish notifies evaluators watching the exam. Failures are logged only;
// the result is already committed.
func (s *ExamTakingService) publish(ctx context.Context, username string, fin *progression.Finalization) {
	te := fin.TakenExam
	err := s.publisher.Publish(ctx, ws.ResultEvent{
		Event:        ws.EventResult,
		ExamID:       te.ExamID,
		TakenExamID:  te.ID,
		CompetitorID: te.CompetitorID,
		Username:     username,
		Score:        te.Score,
		Outcome:      string(fin.Outcome),
		Date:         te.Date,
	})
	if err != nil {
		s.log.Warn().Err(err).Int("exam_id", te.ExamID).Msg("Failed to publish result")
	}
}

func view(exam model.Exam, step *progression.Step) *QuestionView {
	return &QuestionView{
		ExamID:     exam.ID,
		ExamName:   exam.Name,
		Question:   step.Question,
		Answers:    model.Options(step.Answers),
		Total:      step.Total,
		Unanswered: step.Unanswered,
		Progress:   step.Progress,
	}
}
