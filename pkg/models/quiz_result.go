package models

import "time"

// QuizResult tracks the outcome of a completed quiz session
type QuizResult struct {
	ID           int       `json:"id" db:"id"`
	ChatID       int64     `json:"chat_id" db:"chat_id"`
	SetID        string    `json:"set_id" db:"set_id"` // Empty for saved-cards quizzes
	Mode         string    `json:"mode" db:"mode"`     // e.g., "type_answer", "multiple_choice", "timed_multiple_choice"
	TotalCards   int       `json:"total_cards" db:"total_cards"`
	CorrectCards int       `json:"correct_cards" db:"correct_cards"`
	DurationMs   int64     `json:"duration_ms" db:"duration_ms"` // Wall time from start to completion
	TakenAt      time.Time `json:"taken_at" db:"taken_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
