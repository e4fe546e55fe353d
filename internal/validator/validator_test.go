package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/opec-platform/opec-backend/internal/model"
)

func bindBody(t *testing.T, body string, dst interface{}) map[string]string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	Setup()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return Bind(c, dst)
}

func TestBindRequiresCorrectAnswer(t *testing.T) {
	var req model.UpdateQuestionRequest
	fields := bindBody(t, `{"text":"2+2","answers":[{"text":"3"},{"text":"5"}]}`, &req)

	if got := fields["answers"]; got != "Mark at least one answer as correct." {
		t.Fatalf("fields = %v", fields)
	}
}

func TestBindAnswerCountBounds(t *testing.T) {
	var req model.UpdateQuestionRequest
	fields := bindBody(t, `{"text":"2+2","answers":[{"text":"4","is_correct":true}]}`, &req)

	if _, ok := fields["answers"]; !ok {
		t.Fatalf("single answer accepted: %v", fields)
	}
}

func TestBindNestedFieldPath(t *testing.T) {
	var req model.UpdateQuestionRequest
	fields := bindBody(t, `{"text":"2+2","answers":[{"text":"4","is_correct":true},{"text":""}]}`, &req)

	if _, ok := fields["answers[1].text"]; !ok {
		t.Fatalf("fields = %v, want answers[1].text", fields)
	}
}

func TestBindValidQuestion(t *testing.T) {
	var req model.UpdateQuestionRequest
	if fields := bindBody(t, `{"text":"2+2","answers":[{"id":4,"text":"4","is_correct":true},{"text":"5"}]}`, &req); fields != nil {
		t.Fatalf("unexpected errors: %v", fields)
	}
	if req.Answers[0].ID == nil || *req.Answers[0].ID != 4 || req.Answers[1].ID != nil {
		t.Fatalf("answers = %+v", req.Answers)
	}
}

func TestBindPasswordConfirmation(t *testing.T) {
	var req model.SignUpRequest
	fields := bindBody(t, `{"username":"ana","email":"ana@uni.example","phone":"555","university":"U","university_id":"1","password":"long-enough","password_confirm":"different!"}`, &req)

	if _, ok := fields["password_confirm"]; !ok {
		t.Fatalf("fields = %v", fields)
	}
}

func TestBindMalformedJSON(t *testing.T) {
	var req model.LoginRequest
	fields := bindBody(t, `{"username":`, &req)
	if _, ok := fields["detail"]; !ok {
		t.Fatalf("fields = %v", fields)
	}
}

func TestBindEmbeddedFieldPath(t *testing.T) {
	var req model.CompetitorSignUpRequest
	fields := bindBody(t, `{"username":"ana","email":"not-an-email","phone":"555","university":"U","university_id":"1","password":"long-enough","password_confirm":"long-enough","interests":[1]}`, &req)

	if _, ok := fields["email"]; !ok || len(fields) != 1 {
		t.Fatalf("fields = %v, want only email", fields)
	}
}
