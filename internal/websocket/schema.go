package websocket

import "time"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action of a client message.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError  Event = "error"
	EventResult Event = "result"
	EventPong   Event = "pong"
)

// ResultEvent is pushed to the owning evaluator when a competitor finishes an exam.
type ResultEvent struct {
	Event        Event     `json:"event"`
	ExamID       int       `json:"exam_id"`
	TakenExamID  int       `json:"taken_exam_id"`
	CompetitorID int       `json:"competitor_id"`
	Username     string    `json:"username"`
	Score        float64   `json:"score"`
	Outcome      string    `json:"outcome"`
	Date         time.Time `json:"date"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
