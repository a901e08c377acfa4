// Package storage - postgres.go
// PostgreSQL implementation of JournalRepository, for deployments where the
// turn journal outlives the single-node SQLite file.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PostgresJournalRepository implements JournalRepository using PostgreSQL.
type PostgresJournalRepository struct {
	db *sql.DB
}

// NewPostgresJournalRepository creates a new PostgreSQL journal repository.
func NewPostgresJournalRepository(db *sql.DB) *PostgresJournalRepository {
	return &PostgresJournalRepository{db: db}
}

// Append inserts a new entry into the immutable ledger.
func (r *PostgresJournalRepository) Append(ctx context.Context, entry JournalEntry) error {
	payloadJSON, err := json.Marshal(entry.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO journal_entries (id, session_id, timestamp, entry_type, turn, phase, payload, narration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.ExecContext(ctx, query,
		entry.ID, entry.SessionID, entry.Timestamp, entry.EntryType,
		entry.Turn, entry.Phase, payloadJSON, entry.Narration,
	)
	if err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

func (r *PostgresJournalRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]JournalEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		var payloadRaw []byte
		err := rows.Scan(
			&e.ID, &e.SessionID, &e.Timestamp, &e.EntryType,
			&e.Turn, &e.Phase, &payloadRaw, &e.Narration,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payloadRaw, &e.Payload); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *PostgresJournalRepository) GetBySessionID(ctx context.Context, sessionID string) ([]JournalEntry, error) {
	query := `SELECT id, session_id, timestamp, entry_type, turn, phase, payload, narration FROM journal_entries WHERE session_id = $1 ORDER BY timestamp ASC`
	return r.getMany(ctx, query, sessionID)
}

func (r *PostgresJournalRepository) GetBySessionTurn(ctx context.Context, sessionID string, turn int) ([]JournalEntry, error) {
	query := `SELECT id, session_id, timestamp, entry_type, turn, phase, payload, narration FROM journal_entries WHERE session_id = $1 AND turn = $2 ORDER BY timestamp ASC`
	return r.getMany(ctx, query, sessionID, turn)
}

func (r *PostgresJournalRepository) GetByEntryType(ctx context.Context, sessionID string, entryType string) ([]JournalEntry, error) {
	query := `SELECT id, session_id, timestamp, entry_type, turn, phase, payload, narration FROM journal_entries WHERE session_id = $1 AND entry_type = $2 ORDER BY timestamp ASC`
	return r.getMany(ctx, query, sessionID, entryType)
}

func (r *PostgresJournalRepository) SetNarration(ctx context.Context, entryID string, narration string) error {
	query := `UPDATE journal_entries SET narration = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, narration, entryID)
	return err
}
