package models

import "time"

// Theme names accepted by Preferences.Theme
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Preferences represents per-chat settings
type Preferences struct {
	ChatID       int64     `json:"chat_id" db:"chat_id"`
	Theme        string    `json:"theme" db:"theme"`
	RemindersOn  bool      `json:"reminders_on" db:"reminders_on"`
	ReminderHour int       `json:"reminder_hour" db:"reminder_hour"` // Hour of day (0-23) for reminder delivery
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
