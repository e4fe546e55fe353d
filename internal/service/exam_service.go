package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/opec-platform/opec-backend/internal/authz"
	"github.com/opec-platform/opec-backend/internal/model"
)

// ExamStore is satisfied by *repository.ExamRepository.
type ExamStore interface {
	ListByOwner(ctx context.Context, ownerID int) ([]model.ExamSummary, error)
	ListEligible(ctx context.Context, competitorID int) ([]model.EligibleExam, error)
	Create(ctx context.Context, e *model.Exam) error
	Update(ctx context.Context, e *model.Exam) error
	Delete(ctx context.Context, id int) error
}

// QuestionLister is satisfied by *repository.QuestionRepository.
type QuestionLister interface {
	ListByExam(ctx context.Context, examID int) ([]model.QuestionSummary, error)
}

// ResultStore is satisfied by *repository.TakenExamRepository.
type ResultStore interface {
	ListByExam(ctx context.Context, examID int) ([]model.ExamResult, error)
	Summary(ctx context.Context, examID int) (*model.ExamResultsSummary, error)
	ListByCompetitor(ctx context.Context, competitorID int) ([]model.TakenExamEntry, error)
}

// ExamDetail is an exam with its questions.
type ExamDetail struct {
	Exam      model.Exam              `json:"exam"`
	Questions []model.QuestionSummary `json:"questions"`
}

// ExamResults is an exam's results page.
type ExamResults struct {
	Exam    model.Exam               `json:"exam"`
	Summary model.ExamResultsSummary `json:"summary"`
	Results []model.ExamResult       `json:"results"`
}

// ExamService handles exam authoring and exam listings.
type ExamService struct {
	exams     ExamStore
	questions QuestionLister
	results   ResultStore
	log       zerolog.Logger
}

func NewExamService(exams ExamStore, questions QuestionLister, results ResultStore, log zerolog.Logger) *ExamService {
	return &ExamService{
		exams:     exams,
		questions: questions,
		results:   results,
		log:       log.With().Str("component", "exam_service").Logger(),
	}
}

// ListOwned returns the evaluator's exams ordered by name.
func (s *ExamService) ListOwned(ctx context.Context, evaluatorID int) ([]model.ExamSummary, error) {
	return s.exams.ListByOwner(ctx, evaluatorID)
}

// Create makes the evaluator the owner of a new exam.
func (s *ExamService) Create(ctx context.Context, evaluatorID int, req *model.CreateExamRequest) (*model.Exam, error) {
	e := &model.Exam{OwnerID: evaluatorID, Name: req.Name, SubjectID: req.SubjectID}
	if err := s.exams.Create(ctx, e); err != nil {
		return nil, err
	}
	s.log.Info().Int("exam_id", e.ID).Int("owner_id", evaluatorID).Msg("Exam created")
	return e, nil
}

// Detail returns the exam with its questions ordered by text.
func (s *ExamService) Detail(ctx context.Context, exam *authz.OwnedExam) (*ExamDetail, error) {
	questions, err := s.questions.ListByExam(ctx, exam.ID())
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return &ExamDetail{Exam: exam.Exam(), Questions: questions}, nil
}

// Update renames the exam or moves it to another subject.
func (s *ExamService) Update(ctx context.Context, exam *authz.OwnedExam, req *model.UpdateExamRequest) (*model.Exam, error) {
	e := exam.Exam()
	e.Name = req.Name
	e.SubjectID = req.SubjectID
	if err := s.exams.Update(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Delete removes the exam with its questions and results.
func (s *ExamService) Delete(ctx context.Context, exam *authz.OwnedExam) error {
	if err := s.exams.Delete(ctx, exam.ID()); err != nil {
		return err
	}
	s.log.Info().Int("exam_id", exam.ID()).Msg("Exam deleted")
	return nil
}

// Results returns the exam's results, most recent first, with count and average.
func (s *ExamService) Results(ctx context.Context, exam *authz.OwnedExam) (*ExamResults, error) {
	results, err := s.results.ListByExam(ctx, exam.ID())
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	summary, err := s.results.Summary(ctx, exam.ID())
	if err != nil {
		return nil, fmt.Errorf("summarize results: %w", err)
	}
	return &ExamResults{Exam: exam.Exam(), Summary: *summary, Results: results}, nil
}

// ListEligible returns the exams the competitor can start.
func (s *ExamService) ListEligible(ctx context.Context, competitorID int) ([]model.EligibleExam, error) {
	return s.exams.ListEligible(ctx, competitorID)
}

// ListTaken returns the competitor's finished exams.
func (s *ExamService) ListTaken(ctx context.Context, competitorID int) ([]model.TakenExamEntry, error) {
	return s.results.ListByCompetitor(ctx, competitorID)
}
