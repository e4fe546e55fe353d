package model

import "time"

// Exam is owned by exactly one evaluator.
type Exam struct {
	ID        int       `json:"id"`
	OwnerID   int       `json:"owner_id"`
	Name      string    `json:"name"`
	SubjectID int       `json:"subject_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExamSummary is a row of the evaluator's exam list.
type ExamSummary struct {
	Exam
	SubjectName    string `json:"subject_name"`
	QuestionsCount int    `json:"questions_count"`
	TakenCount     int    `json:"taken_count"`
}

// EligibleExam is a row of the competitor's exam list.
type EligibleExam struct {
	Exam
	SubjectName    string `json:"subject_name"`
	QuestionsCount int    `json:"questions_count"`
}

// CreateExamRequest is the payload for creating an exam.
type CreateExamRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=255"`
	SubjectID int    `json:"subject_id" binding:"required,gt=0"`
}

// UpdateExamRequest is the payload for editing an exam.
type UpdateExamRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=255"`
	SubjectID int    `json:"subject_id" binding:"required,gt=0"`
}
