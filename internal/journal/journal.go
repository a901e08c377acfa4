// Package journal provides the append-only turn journal for the server.
// Every advance leaves an immutable record here: what phase ran, which
// events fired, what the player chose, and how the session ended. The
// replay API and the observer broadcast both read from this log.
package journal

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EntryType defines the category of a journal entry.
type EntryType string

const (
	EntryTypeSessionCreated EntryType = "SESSION_CREATED"
	EntryTypeAdvance        EntryType = "ADVANCE"
	EntryTypeEnding         EntryType = "ENDING"
	EntryTypeSessionDeleted EntryType = "SESSION_DELETED"
	EntryTypeDirectorInject EntryType = "DIRECTOR_INJECT"
)

// Entry is an immutable record of one server-side action on a session.
type Entry struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	SessionID string      `json:"session_id"`
	Turn      int         `json:"turn"`
	Phase     string      `json:"phase"`
	Type      EntryType   `json:"type"`
	Payload   interface{} `json:"payload,omitempty"` // entry-specific data (TurnResult, ending, ...)
	Narration string      `json:"narration,omitempty"`
}

// Persister defines how an entry is durably stored.
type Persister interface {
	Append(entry Entry) error
}

// Journal is the in-memory append-only log backed by an optional persister.
type Journal struct {
	mu        sync.RWMutex
	entries   []Entry
	persister Persister
}

// New creates a journal with an optional persister.
func New(persister Persister) *Journal {
	return &Journal{
		entries:   make([]Entry, 0),
		persister: persister,
	}
}

// Append adds a new entry to the log. Entries are immutable once appended;
// only the narration field may be attached later.
func (j *Journal) Append(entry Entry) Entry {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	j.mu.Lock()
	j.entries = append(j.entries, entry)
	j.mu.Unlock()

	if j.persister != nil {
		// Write through to persistent storage. A high-throughput setup
		// would buffer these; one write per advance is cheap enough.
		go func(e Entry) {
			_ = j.persister.Append(e)
		}(entry)
	}
	return entry
}

// BySession returns all entries for one session, oldest first.
func (j *Journal) BySession(sessionID string) []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var result []Entry
	for _, e := range j.entries {
		if e.SessionID == sessionID {
			result = append(result, e)
		}
	}
	return result
}

// ByTurn returns a session's entries for a single turn.
func (j *Journal) ByTurn(sessionID string, turn int) []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var result []Entry
	for _, e := range j.entries {
		if e.SessionID == sessionID && e.Turn == turn {
			result = append(result, e)
		}
	}
	return result
}

// Replay returns the full history across all sessions.
func (j *Journal) Replay() []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.entries
}

// Len returns the number of entries. Pollers use it to detect new entries
// without copying the slice.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}

// Since returns entries appended at or after index from. Out-of-range
// indices yield nil.
func (j *Journal) Since(from int) []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if from < 0 || from >= len(j.entries) {
		return nil
	}
	return append([]Entry(nil), j.entries[from:]...)
}

// AttachNarration sets the narration of an existing entry. It is the one
// permitted late mutation: flavor text arrives asynchronously and must not
// block the advance path.
func (j *Journal) AttachNarration(entryID, narration string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := range j.entries {
		if j.entries[i].ID == entryID {
			j.entries[i].Narration = narration
			return true
		}
	}
	return false
}
