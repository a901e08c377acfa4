// Package storage - recap.go
// Builds a human-readable session recap from the persisted turn journal.
// Used by the replay API so observers can catch up on a session's history
// without re-deriving it from raw payloads.
package storage

import (
	"context"
	"fmt"
)

// Recapper turns journal rows into a readable timeline.
type Recapper struct {
	journalRepo JournalRepository
}

// NewRecapper creates a new recap generator.
func NewRecapper(journalRepo JournalRepository) *Recapper {
	return &Recapper{journalRepo: journalRepo}
}

// RecapEvent is a simplified journal entry for the recap screen.
type RecapEvent struct {
	Timestamp string `json:"timestamp"`
	Turn      int    `json:"turn"`
	EntryType string `json:"entry_type"`
	Summary   string `json:"summary"` // Human-readable description
	Impact    string `json:"impact"`  // "POSITIVE", "NEGATIVE", "NEUTRAL"
	Narration string `json:"narration,omitempty"`
}

// GenerateRecap creates the timeline for a session since a given turn.
func (r *Recapper) GenerateRecap(ctx context.Context, sessionID string, sinceTurn int) ([]RecapEvent, error) {
	entries, err := r.journalRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get journal entries: %w", err)
	}

	var recap []RecapEvent
	for _, e := range entries {
		if e.Turn < sinceTurn {
			continue
		}
		recap = append(recap, RecapEvent{
			Timestamp: e.Timestamp.Format("2006-01-02 15:04:05"),
			Turn:      e.Turn,
			EntryType: e.EntryType,
			Summary:   r.summarizeEntry(e),
			Impact:    r.determineImpact(e),
			Narration: e.Narration,
		})
	}
	return recap, nil
}

// summarizeEntry creates a human-readable summary line.
func (r *Recapper) summarizeEntry(e JournalEntry) string {
	switch e.EntryType {
	case "SESSION_CREATED":
		return "The family's story begins."
	case "ADVANCE":
		if events, ok := e.Payload["newEvents"].([]interface{}); ok && len(events) > 0 {
			return fmt.Sprintf("Turn %d, %s phase: %d event(s) fired.", e.Turn, e.Phase, len(events))
		}
		return fmt.Sprintf("Turn %d, %s phase.", e.Turn, e.Phase)
	case "ENDING":
		if kind, ok := e.Payload["kind"].(string); ok && kind == "victory" {
			return "The family found a way through."
		}
		return "The pressure won."
	case "SESSION_DELETED":
		return "Session closed."
	default:
		return "Something happened."
	}
}

// determineImpact classifies the entry for the recap UI.
func (r *Recapper) determineImpact(e JournalEntry) string {
	switch e.EntryType {
	case "ENDING":
		if kind, ok := e.Payload["kind"].(string); ok && kind == "victory" {
			return "POSITIVE"
		}
		return "NEGATIVE"
	case "SESSION_CREATED":
		return "POSITIVE"
	default:
		return "NEUTRAL"
	}
}
