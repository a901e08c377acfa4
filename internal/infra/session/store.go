// Package session holds live simulation sessions for the server.
// Sessions are ephemeral: the journal is the durable record, the store
// only keeps the working state between HTTP requests.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/lmedrano/pulso/internal/domain/game"
)

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Session is the unit stored per running simulation.
type Session struct {
	ID         string          `json:"id"`
	State      *game.GameState `json:"state"`
	CreatedAt  time.Time       `json:"created_at"`
	LastAccess time.Time       `json:"last_access"`
}

// Store defines the interface for session storage.
// This allows for easy mocking in tests.
type Store interface {
	// Set stores or replaces a session.
	Set(ctx context.Context, s *Session) error

	// Get retrieves a session by id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Exists reports whether a session id is live without refreshing it.
	Exists(ctx context.Context, id string) (bool, error)

	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Touch refreshes the session's expiry without loading its state.
	Touch(ctx context.Context, id string) error
}
