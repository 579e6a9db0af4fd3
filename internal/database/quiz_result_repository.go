package database

import (
	"fmt"
	"time"

	"github.com/example/quizzy/pkg/models"
)

// QuizResultRepository handles database operations for quiz results
type QuizResultRepository struct{}

// NewQuizResultRepository creates a new repository instance
func NewQuizResultRepository() *QuizResultRepository {
	return &QuizResultRepository{}
}

// Create inserts a new quiz result
func (r *QuizResultRepository) Create(result *models.QuizResult) error {
	if result.TakenAt.IsZero() {
		result.TakenAt = time.Now()
	}

	if DB.DriverName() == "postgres" {
		query := `
			INSERT INTO quiz_results (chat_id, set_id, mode, total_cards, correct_cards, duration_ms, taken_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at
		`
		return DB.QueryRow(
			query,
			result.ChatID,
			result.SetID,
			result.Mode,
			result.TotalCards,
			result.CorrectCards,
			result.DurationMs,
			result.TakenAt,
		).Scan(&result.ID, &result.CreatedAt)
	}

	// SQLite has no RETURNING
	query := `
		INSERT INTO quiz_results (chat_id, set_id, mode, total_cards, correct_cards, duration_ms, taken_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	res, err := DB.Exec(
		query,
		result.ChatID,
		result.SetID,
		result.Mode,
		result.TotalCards,
		result.CorrectCards,
		result.DurationMs,
		result.TakenAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create quiz result: %v", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %v", err)
	}
	result.ID = int(id)
	return nil
}

// GetByChatID returns all quiz results for a chat, newest first
func (r *QuizResultRepository) GetByChatID(chatID int64) ([]models.QuizResult, error) {
	var results []models.QuizResult
	err := DB.Select(&results,
		DB.Rebind("SELECT * FROM quiz_results WHERE chat_id = ? ORDER BY taken_at DESC"), chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz results: %v", err)
	}
	return results, nil
}

// ChatStats summarizes a chat's quiz history
type ChatStats struct {
	TotalQuizzes int     `db:"total_quizzes"`
	TotalCards   int     `db:"total_cards"`
	TotalCorrect int     `db:"total_correct"`
	AvgScore     float64 `db:"avg_score"`
}

// GetChatStats returns aggregate statistics for a chat's quiz history
func (r *QuizResultRepository) GetChatStats(chatID int64) (*ChatStats, error) {
	var stats ChatStats
	query := `
		SELECT
			COUNT(*) AS total_quizzes,
			COALESCE(SUM(total_cards), 0) AS total_cards,
			COALESCE(SUM(correct_cards), 0) AS total_correct,
			COALESCE(AVG(CAST(correct_cards AS REAL) / NULLIF(total_cards, 0)), 0) AS avg_score
		FROM quiz_results
		WHERE chat_id = ?
	`
	err := DB.Get(&stats, DB.Rebind(query), chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat stats: %v", err)
	}
	return &stats, nil
}
