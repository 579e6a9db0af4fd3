package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/example/quizzy/pkg/models"
)

// SetRepository handles database operations for flashcard sets
type SetRepository struct{}

// NewSetRepository creates a new repository instance
func NewSetRepository() *SetRepository {
	return &SetRepository{}
}

// setRow mirrors the sets table without the cards
type setRow struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// cardRow mirrors the cards table
type cardRow struct {
	ID         string `db:"id"`
	SetID      string `db:"set_id"`
	Term       string `db:"term"`
	Definition string `db:"definition"`
	Position   int    `db:"position"`
}

// GetAll returns all sets with their cards in insertion order
func (r *SetRepository) GetAll() ([]models.FlashcardSet, error) {
	var rows []setRow
	err := DB.Select(&rows, "SELECT * FROM sets ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("failed to get sets: %v", err)
	}

	var cards []cardRow
	err = DB.Select(&cards, "SELECT * FROM cards ORDER BY set_id, position")
	if err != nil {
		return nil, fmt.Errorf("failed to get cards: %v", err)
	}

	cardsBySet := make(map[string][]models.Flashcard)
	for _, c := range cards {
		cardsBySet[c.SetID] = append(cardsBySet[c.SetID], models.Flashcard{
			ID:         c.ID,
			Term:       c.Term,
			Definition: c.Definition,
		})
	}

	sets := make([]models.FlashcardSet, 0, len(rows))
	for _, row := range rows {
		sets = append(sets, models.FlashcardSet{
			ID:        row.ID,
			Title:     row.Title,
			Cards:     cardsBySet[row.ID],
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return sets, nil
}

// GetByID returns a set with its cards, or nil if the set doesn't exist
func (r *SetRepository) GetByID(id string) (*models.FlashcardSet, error) {
	var row setRow
	err := DB.Get(&row, DB.Rebind("SELECT * FROM sets WHERE id = ?"), id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get set by ID: %v", err)
	}

	var cards []cardRow
	err = DB.Select(&cards, DB.Rebind("SELECT * FROM cards WHERE set_id = ? ORDER BY position"), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get cards for set: %v", err)
	}

	set := &models.FlashcardSet{
		ID:        row.ID,
		Title:     row.Title,
		Cards:     make([]models.Flashcard, 0, len(cards)),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	for _, c := range cards {
		set.Cards = append(set.Cards, models.Flashcard{
			ID:         c.ID,
			Term:       c.Term,
			Definition: c.Definition,
		})
	}
	return set, nil
}

// Create inserts a new set and its cards. Missing IDs are generated.
func (r *SetRepository) Create(set *models.FlashcardSet) error {
	if set.ID == "" {
		set.ID = uuid.NewString()
	}
	now := time.Now()
	set.CreatedAt = now
	set.UpdatedAt = now

	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		DB.Rebind("INSERT INTO sets (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)"),
		set.ID, set.Title, set.CreatedAt, set.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create set: %v", err)
	}

	if err := insertCards(tx, set); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit set: %v", err)
	}
	return nil
}

// Update replaces the set's title and cards
func (r *SetRepository) Update(set *models.FlashcardSet) error {
	set.UpdatedAt = time.Now()

	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		DB.Rebind("UPDATE sets SET title = ?, updated_at = ? WHERE id = ?"),
		set.Title, set.UpdatedAt, set.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update set: %v", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("set %s does not exist", set.ID)
	}

	// Cards are replaced wholesale; the editor sends the full list
	_, err = tx.Exec(DB.Rebind("DELETE FROM cards WHERE set_id = ?"), set.ID)
	if err != nil {
		return fmt.Errorf("failed to clear cards: %v", err)
	}

	if err := insertCards(tx, set); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit set update: %v", err)
	}
	return nil
}

// Delete removes a set and its cards
func (r *SetRepository) Delete(id string) error {
	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	// Explicit card cleanup; SQLite only cascades when foreign keys are on
	_, err = tx.Exec(DB.Rebind("DELETE FROM cards WHERE set_id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete cards: %v", err)
	}
	_, err = tx.Exec(DB.Rebind("DELETE FROM bookmarks WHERE set_id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete bookmarks: %v", err)
	}
	_, err = tx.Exec(DB.Rebind("DELETE FROM sets WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete set: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit set delete: %v", err)
	}
	return nil
}

func insertCards(tx *sqlx.Tx, set *models.FlashcardSet) error {
	for i := range set.Cards {
		card := &set.Cards[i]
		if card.ID == "" {
			card.ID = uuid.NewString()
		}
		_, err := tx.Exec(
			DB.Rebind("INSERT INTO cards (id, set_id, term, definition, position) VALUES (?, ?, ?, ?, ?)"),
			card.ID, set.ID, card.Term, card.Definition, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert card: %v", err)
		}
	}
	return nil
}
