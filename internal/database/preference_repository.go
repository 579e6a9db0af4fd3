package database

import (
	"database/sql"
	"fmt"

	"github.com/example/quizzy/pkg/models"
)

// PreferenceRepository handles database operations for per-chat settings
type PreferenceRepository struct{}

// NewPreferenceRepository creates a new repository instance
func NewPreferenceRepository() *PreferenceRepository {
	return &PreferenceRepository{}
}

// Get returns the preferences for a chat, or defaults if none are stored
func (r *PreferenceRepository) Get(chatID int64) (*models.Preferences, error) {
	var prefs models.Preferences
	err := DB.Get(&prefs, DB.Rebind("SELECT * FROM preferences WHERE chat_id = ?"), chatID)
	if err == sql.ErrNoRows {
		return &models.Preferences{
			ChatID:       chatID,
			Theme:        models.ThemeLight,
			RemindersOn:  false,
			ReminderHour: 9,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %v", err)
	}
	return &prefs, nil
}

// Upsert stores the preferences for a chat, creating the row if needed
func (r *PreferenceRepository) Upsert(prefs *models.Preferences) error {
	query := `
		INSERT INTO preferences (chat_id, theme, reminders_on, reminder_hour)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (chat_id) DO UPDATE SET
			theme = excluded.theme,
			reminders_on = excluded.reminders_on,
			reminder_hour = excluded.reminder_hour,
			updated_at = CURRENT_TIMESTAMP
	`
	_, err := DB.Exec(DB.Rebind(query), prefs.ChatID, prefs.Theme, prefs.RemindersOn, prefs.ReminderHour)
	if err != nil {
		return fmt.Errorf("failed to save preferences: %v", err)
	}
	return nil
}

// GetChatsForReminder returns chats that want a reminder at the given hour
func (r *PreferenceRepository) GetChatsForReminder(hour int) ([]int64, error) {
	var chatIDs []int64
	query := "SELECT chat_id FROM preferences WHERE reminders_on = ? AND reminder_hour = ?"
	err := DB.Select(&chatIDs, DB.Rebind(query), true, hour)
	if err != nil {
		return nil, fmt.Errorf("failed to get chats for reminder: %v", err)
	}
	return chatIDs, nil
}
