package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. PostgreSQL is used when
// DATABASE_URL is set; otherwise a local SQLite file is created under the
// data directory.
func Connect() error {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		db, err := sqlx.Connect("postgres", url)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}
		DB = db
		return initializeSchema()
	}

	// Create data directory if it doesn't exist
	dataDir := os.Getenv("QUIZZY_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "quizzy.db")
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	DB = db

	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	// Create sets table
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS sets (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create sets table: %v", err)
	}

	// Create cards table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS cards (
			id TEXT PRIMARY KEY,
			set_id TEXT NOT NULL,
			term TEXT NOT NULL,
			definition TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (set_id) REFERENCES sets(id) ON DELETE CASCADE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create cards table: %v", err)
	}

	// Create bookmarks table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS bookmarks (
			set_id TEXT NOT NULL,
			card_id TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (set_id, card_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create bookmarks table: %v", err)
	}

	// SQLite and PostgreSQL disagree on auto-incrementing keys
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if DB.DriverName() == "postgres" {
		idColumn = "id SERIAL PRIMARY KEY"
	}

	// Create quiz_results table
	_, err = DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS quiz_results (
			%s,
			chat_id INTEGER NOT NULL,
			set_id TEXT,
			mode TEXT NOT NULL,
			total_cards INTEGER NOT NULL,
			correct_cards INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			taken_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`, idColumn))
	if err != nil {
		return fmt.Errorf("failed to create quiz_results table: %v", err)
	}

	// Create preferences table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS preferences (
			chat_id INTEGER PRIMARY KEY,
			theme TEXT NOT NULL DEFAULT 'light',
			reminders_on BOOLEAN NOT NULL DEFAULT false,
			reminder_hour INTEGER NOT NULL DEFAULT 9,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create preferences table: %v", err)
	}

	return nil
}
