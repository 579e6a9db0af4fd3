package models

import "time"

// Flashcard represents a single term/definition pair
type Flashcard struct {
	ID         string `json:"id" db:"id"`
	Term       string `json:"term" db:"term"`
	Definition string `json:"definition" db:"definition"`
}

// FlashcardSet represents a named collection of flashcards
type FlashcardSet struct {
	ID        string      `json:"id" db:"id"`
	Title     string      `json:"title" db:"title"`
	Cards     []Flashcard `json:"cards"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}
