package database

import (
	"fmt"

	"github.com/example/quizzy/pkg/models"
)

// BookmarkRepository handles database operations for saved cards
type BookmarkRepository struct{}

// NewBookmarkRepository creates a new repository instance
func NewBookmarkRepository() *BookmarkRepository {
	return &BookmarkRepository{}
}

// GetAll returns all bookmarks in the order they were saved
func (r *BookmarkRepository) GetAll() ([]models.BookmarkRef, error) {
	var refs []models.BookmarkRef
	err := DB.Select(&refs, "SELECT * FROM bookmarks ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmarks: %v", err)
	}
	return refs, nil
}

// Add saves a card for later review. Adding an existing bookmark is a no-op.
func (r *BookmarkRepository) Add(setID, cardID string) error {
	var query string
	if DB.DriverName() == "postgres" {
		query = "INSERT INTO bookmarks (set_id, card_id) VALUES ($1, $2) ON CONFLICT DO NOTHING"
	} else {
		query = "INSERT OR IGNORE INTO bookmarks (set_id, card_id) VALUES (?, ?)"
	}

	_, err := DB.Exec(query, setID, cardID)
	if err != nil {
		return fmt.Errorf("failed to add bookmark: %v", err)
	}
	return nil
}

// Remove deletes a bookmark. Removing an absent bookmark is a no-op.
func (r *BookmarkRepository) Remove(setID, cardID string) error {
	_, err := DB.Exec(DB.Rebind("DELETE FROM bookmarks WHERE set_id = ? AND card_id = ?"), setID, cardID)
	if err != nil {
		return fmt.Errorf("failed to remove bookmark: %v", err)
	}
	return nil
}

// IsBookmarked reports whether a card is saved
func (r *BookmarkRepository) IsBookmarked(setID, cardID string) (bool, error) {
	var count int
	err := DB.Get(&count, DB.Rebind("SELECT COUNT(*) FROM bookmarks WHERE set_id = ? AND card_id = ?"), setID, cardID)
	if err != nil {
		return false, fmt.Errorf("failed to check bookmark: %v", err)
	}
	return count > 0, nil
}

// Count returns the total number of saved cards. Bookmarks are not scoped
// per chat; the count feeds the reminder message.
func (r *BookmarkRepository) Count() (int, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM bookmarks")
	if err != nil {
		return 0, fmt.Errorf("failed to count bookmarks: %v", err)
	}
	return count, nil
}
