package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lmedrano/pulso/internal/domain/pulse"
)

// RedisClient is an interface for Redis operations.
// This allows for easy mocking in tests.
type RedisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Expire(ctx context.Context, key string, expiration time.Duration) error
}

// RedisStore keeps sessions in Redis so multiple server instances can
// share them. Not the source of truth; the journal is.
type RedisStore struct {
	client     RedisClient
	expiration time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client RedisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:     client,
		expiration: ttl,
	}
}

// Set stores or replaces a session.
func (s *RedisStore) Set(ctx context.Context, sess *Session) error {
	sess.LastAccess = time.Now()
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return s.client.Set(ctx, s.key(sess.ID), data, s.expiration)
}

// Get retrieves a session by id.
func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, s.key(id))
	if err != nil {
		return nil, ErrNotFound
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if st := sess.State; st != nil {
		// Snapshots may predate the current field set or carry edited
		// values; re-clamp everything before the engine sees it.
		pulse.Normalize(&st.GlobalPulse, &st.City.Pulse, nil, &st.Family)
		for i := range st.City.Neighborhoods {
			pulse.Normalize(nil, nil, &st.City.Neighborhoods[i].Pulse, nil)
		}
	}
	return &sess, nil
}

// Exists reports whether a session key is present.
func (s *RedisStore) Exists(ctx context.Context, id string) (bool, error) {
	if _, err := s.client.Get(ctx, s.key(id)); err != nil {
		return false, nil
	}
	return true, nil
}

// Delete removes a session.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id))
}

// Touch refreshes the session's expiry.
func (s *RedisStore) Touch(ctx context.Context, id string) error {
	return s.client.Expire(ctx, s.key(id), s.expiration)
}

// key generates the Redis key for a session.
func (s *RedisStore) key(id string) string {
	return fmt.Sprintf("pulso:session:%s", id)
}
