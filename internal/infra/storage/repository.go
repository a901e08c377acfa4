// Package storage provides the persistence layer for the simulation server.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"time"

	"github.com/lmedrano/pulso/internal/content"
)

// JournalEntry mirrors the journal's entry structure for persistence.
// The journal package should NOT import this; use interfaces instead.
type JournalEntry struct {
	ID        string                 `json:"id" db:"id"`
	SessionID string                 `json:"session_id" db:"session_id"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	EntryType string                 `json:"entry_type" db:"entry_type"`
	Turn      int                    `json:"turn" db:"turn"`
	Phase     string                 `json:"phase" db:"phase"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
	Narration string                 `json:"narration" db:"narration"`
}

// JournalRepository defines the interface for turn-journal persistence.
type JournalRepository interface {
	// Append adds a new entry to the immutable ledger.
	Append(ctx context.Context, entry JournalEntry) error

	// GetBySessionID retrieves all entries for a session (for replay).
	GetBySessionID(ctx context.Context, sessionID string) ([]JournalEntry, error)

	// GetBySessionTurn retrieves one session's entries for a single turn.
	GetBySessionTurn(ctx context.Context, sessionID string, turn int) ([]JournalEntry, error)

	// GetByEntryType retrieves all entries of a specific type for a session.
	GetByEntryType(ctx context.Context, sessionID string, entryType string) ([]JournalEntry, error)

	// SetNarration attaches narrator flavor text to a stored entry.
	SetNarration(ctx context.Context, entryID string, narration string) error
}

// CityRepository is the write side of the content store. The read side is
// the content.Provider interface, which the SQLite repository also
// implements.
type CityRepository interface {
	content.Provider

	// UpsertCity inserts or replaces a city profile and its neighborhoods.
	UpsertCity(ctx context.Context, profile content.CityProfile) error

	// DeleteCity removes a city and its neighborhoods.
	DeleteCity(ctx context.Context, id string) error
}
