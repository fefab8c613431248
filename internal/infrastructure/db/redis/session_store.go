package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nomi-id/nomi-api/internal/core/domain"
)

const sessionKeyPrefix = "session:"

// SessionStore keeps server-side sessions in Redis.
// Key format: session:<uuid> → account ID, expiring after the session TTL.
// The record carries only the account ID; role and verification are read
// from the account store on every resolution.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Create opens a session for the account and returns its opaque ID.
func (s *SessionStore) Create(ctx context.Context, accountID string) (string, error) {
	sessionID := uuid.NewString()
	if err := s.client.Set(ctx, s.key(sessionID), accountID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}
	return sessionID, nil
}

// Get returns the account ID behind a session. Missing and expired
// sessions are indistinguishable; both report domain.ErrSessionNotFound.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	accountID, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrSessionNotFound
		}
		return "", fmt.Errorf("session get: %w", err)
	}
	return accountID, nil
}

// Delete terminates a session. Deleting a missing session is not an error.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *SessionStore) key(sessionID string) string {
	return sessionKeyPrefix + sessionID
}
