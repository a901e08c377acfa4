package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// InitSQLite initializes the local SQLite database and creates the schemas
// for the content store (cities, neighborhoods) and the turn journal.
func InitSQLite(dbPath string) (*sql.DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS cities (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		region TEXT NOT NULL,
		political_cover INTEGER NOT NULL,
		federal_cooperation INTEGER NOT NULL,
		police_presence INTEGER NOT NULL,
		legal_support INTEGER NOT NULL,
		media_attention INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS neighborhoods (
		id TEXT NOT NULL,
		city_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		trust INTEGER NOT NULL,
		community_density INTEGER NOT NULL,
		checkpoint_activity INTEGER NOT NULL,
		rumor_level INTEGER NOT NULL,
		solidarity INTEGER NOT NULL,
		PRIMARY KEY (city_id, id),
		FOREIGN KEY (city_id) REFERENCES cities(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS journal_entries (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		entry_type TEXT NOT NULL,
		turn INTEGER NOT NULL,
		phase TEXT NOT NULL,
		payload TEXT NOT NULL,
		narration TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_journal_session ON journal_entries(session_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_journal_session_turn ON journal_entries(session_id, turn);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}
