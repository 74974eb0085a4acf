package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// sessionTTL caps how long a stored access token is kept. The token issuer
// governs actual validity; this only bounds stale entries.
const sessionTTL = 24 * time.Hour

// SessionStore holds per-visitor access tokens keyed by session id.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a session store from an existing Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Token returns the access token for a session, or "" when none is stored.
func (s *SessionStore) Token(ctx context.Context, sessionID string) (string, error) {
	token, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("session lookup: %w", err)
	}
	return token, nil
}

// SaveToken stores the access token for a session.
func (s *SessionStore) SaveToken(ctx context.Context, sessionID, token string) error {
	if err := s.client.Set(ctx, sessionKeyPrefix+sessionID, token, sessionTTL).Err(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}
