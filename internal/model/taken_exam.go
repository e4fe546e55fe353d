package model

import "time"

// CompetitorAnswer records the answer a competitor chose for one question.
type CompetitorAnswer struct {
	ID           int       `json:"id"`
	CompetitorID int       `json:"competitor_id"`
	QuestionID   int       `json:"question_id"`
	AnswerID     int       `json:"answer_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// TakenExam is the terminal record of a completed exam, one per competitor and exam.
type TakenExam struct {
	ID           int       `json:"id"`
	CompetitorID int       `json:"competitor_id"`
	ExamID       int       `json:"exam_id"`
	Score        float64   `json:"score"`
	Date         time.Time `json:"date"`
}

// TakenExamEntry is a row of the competitor's taken-exam list.
type TakenExamEntry struct {
	TakenExam
	ExamName    string `json:"exam_name"`
	SubjectName string `json:"subject_name"`
}

// ExamResult is a row of an exam's results page.
type ExamResult struct {
	TakenExam
	Username string `json:"username"`
}

// ExamResultsSummary aggregates an exam's results. AverageScore is nil when nobody finished.
type ExamResultsSummary struct {
	TotalTaken   int      `json:"total_taken"`
	AverageScore *float64 `json:"average_score"`
}

// SubmitAnswerRequest is the payload for answering the current question.
type SubmitAnswerRequest struct {
	QuestionID int `json:"question_id" binding:"required,gt=0"`
	AnswerID   int `json:"answer_id" binding:"required,gt=0"`
}
