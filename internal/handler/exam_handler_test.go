package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/opec-platform/opec-backend/internal/model"
	"github.com/opec-platform/opec-backend/internal/response"
	"github.com/opec-platform/opec-backend/internal/service"
)

func newEvaluatorRouter(catalog *fakeCatalog, evaluatorID int) *gin.Engine {
	gate := catalog.gate()
	exams := NewExamHandler(gate, service.NewExamService(catalog, fakeQuestions{catalog}, fakeResults{}, zerolog.Nop()))
	questions := NewQuestionHandler(gate, service.NewQuestionService(fakeQuestions{catalog}, zerolog.Nop()))

	r := gin.New()
	g := r.Group("/api/v1/evaluator", asUser(evaluatorID, "grace", model.RoleEvaluator))
	g.GET("/exams", exams.ListExams)
	g.POST("/exams", exams.CreateExam)
	g.GET("/exams/:id", exams.GetExam)
	g.PUT("/exams/:id", exams.UpdateExam)
	g.DELETE("/exams/:id", exams.DeleteExam)
	g.GET("/exams/:id/results", exams.GetResults)
	g.POST("/exams/:id/questions", questions.AddQuestion)
	g.GET("/exams/:id/questions/:question_id", questions.GetQuestion)
	g.PUT("/exams/:id/questions/:question_id", questions.UpdateQuestion)
	g.DELETE("/exams/:id/questions/:question_id", questions.DeleteQuestion)
	return r
}

func TestExamOwnership(t *testing.T) {
	catalog := newCatalog()

	tests := []struct {
		name        string
		evaluatorID int
		path        string
		status      int
		code        response.ErrCode
	}{
		{"owner", 10, "/api/v1/evaluator/exams/1", http.StatusOK, ""},
		{"other evaluator", 11, "/api/v1/evaluator/exams/1", http.StatusForbidden, response.ErrNotExamOwner},
		{"missing exam", 10, "/api/v1/evaluator/exams/404", http.StatusNotFound, response.ErrNotFound},
		{"other evaluator results", 11, "/api/v1/evaluator/exams/1/results", http.StatusForbidden, response.ErrNotExamOwner},
		{"other evaluator question", 11, "/api/v1/evaluator/exams/1/questions/50", http.StatusForbidden, response.ErrNotExamOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEvaluatorRouter(catalog, tt.evaluatorID)
			code, env := do(t, r, http.MethodGet, tt.path, nil, nil)
			if code != tt.status || errCode(env) != tt.code {
				t.Fatalf("status %d code %q, want %d %q", code, errCode(env), tt.status, tt.code)
			}
		})
	}
}

func TestQuestionOfAnotherExamIsNotFound(t *testing.T) {
	catalog := newCatalog()
	catalog.exams[2] = model.Exam{ID: 2, OwnerID: 10, Name: "Geometry", SubjectID: 100}
	r := newEvaluatorRouter(catalog, 10)

	code, env := do(t, r, http.MethodGet, "/api/v1/evaluator/exams/2/questions/50", nil, nil)
	if code != http.StatusNotFound || errCode(env) != response.ErrNotFound {
		t.Fatalf("status %d code %q", code, errCode(env))
	}
}

func TestCreateExam(t *testing.T) {
	catalog := newCatalog()
	r := newEvaluatorRouter(catalog, 10)

	code, env := do(t, r, http.MethodPost, "/api/v1/evaluator/exams", gin.H{"name": "Calculus"}, nil)
	if code != http.StatusBadRequest || env.Error.Fields["subject_id"] == "" {
		t.Fatalf("missing subject: status %d error %+v", code, env.Error)
	}

	code, env = do(t, r, http.MethodPost, "/api/v1/evaluator/exams", gin.H{"name": "Calculus", "subject_id": 100}, nil)
	if code != http.StatusCreated {
		t.Fatalf("status = %d, error %+v", code, env.Error)
	}
	var data struct {
		Exam model.Exam `json:"exam"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Exam.OwnerID != 10 || catalog.exams[data.Exam.ID].Name != "Calculus" {
		t.Fatalf("exam = %+v", data.Exam)
	}
}

func TestUpdateQuestionRequiresCorrectAnswer(t *testing.T) {
	catalog := newCatalog()
	r := newEvaluatorRouter(catalog, 10)

	body := gin.H{
		"text": "2+3",
		"answers": []gin.H{
			{"text": "4", "is_correct": false},
			{"text": "6", "is_correct": false},
		},
	}
	code, env := do(t, r, http.MethodPut, "/api/v1/evaluator/exams/1/questions/50", body, nil)
	if code != http.StatusBadRequest || env.Error.Fields["answers"] == "" {
		t.Fatalf("status %d error %+v", code, env.Error)
	}
	if catalog.questions[50].Text != "2+2" {
		t.Fatal("rejected edit changed the question")
	}
}

func TestUpdateQuestionTooFewAnswers(t *testing.T) {
	r := newEvaluatorRouter(newCatalog(), 10)

	body := gin.H{"text": "2+3", "answers": []gin.H{{"text": "5", "is_correct": true}}}
	code, env := do(t, r, http.MethodPut, "/api/v1/evaluator/exams/1/questions/50", body, nil)
	if code != http.StatusBadRequest || env.Error.Fields["answers"] == "" {
		t.Fatalf("status %d error %+v", code, env.Error)
	}
}

func TestUpdateQuestionReplacesAnswers(t *testing.T) {
	catalog := newCatalog()
	r := newEvaluatorRouter(catalog, 10)

	body := gin.H{
		"text": "2+3",
		"answers": []gin.H{
			{"id": 1, "text": "5", "is_correct": true},
			{"text": "6", "is_correct": false},
			{"text": "7", "is_correct": false},
		},
	}
	code, env := do(t, r, http.MethodPut, "/api/v1/evaluator/exams/1/questions/50", body, nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d, error %+v", code, env.Error)
	}
	if catalog.questions[50].Text != "2+3" || len(catalog.answers[50]) != 3 {
		t.Fatalf("question = %+v answers = %+v", catalog.questions[50], catalog.answers[50])
	}
}

func TestAddAndDeleteQuestion(t *testing.T) {
	catalog := newCatalog()
	r := newEvaluatorRouter(catalog, 10)

	code, env := do(t, r, http.MethodPost, "/api/v1/evaluator/exams/1/questions", gin.H{"text": "3+3"}, nil)
	if code != http.StatusCreated {
		t.Fatalf("add status = %d, error %+v", code, env.Error)
	}
	if len(catalog.questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(catalog.questions))
	}

	if code, _ = do(t, r, http.MethodDelete, "/api/v1/evaluator/exams/1/questions/50", nil, nil); code != http.StatusOK {
		t.Fatalf("delete status = %d", code)
	}
	if _, ok := catalog.questions[50]; ok {
		t.Fatal("question 50 still present")
	}
}
