package models

import "time"

// BookmarkRef identifies a card saved for later review
type BookmarkRef struct {
	SetID     string    `json:"set_id" db:"set_id"`
	CardID    string    `json:"card_id" db:"card_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
