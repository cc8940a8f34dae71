package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"learnhub/internal/model"
)

// SessionStore keeps a JSON snapshot of each logged-in user keyed by
// user id. Presence of the key is what makes a session live: logout
// deletes it and token refresh refuses to mint for a missing key.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func sessionKey(userID string) string {
	return "session:" + userID
}

// Put stores the snapshot and resets the TTL, so an active user's
// session slides forward with every durable profile write.
func (s *SessionStore) Put(ctx context.Context, user *model.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(user.ID.Hex()), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// Get returns the cached user, or (nil, nil) when no session exists.
func (s *SessionStore) Get(ctx context.Context, userID string) (*model.User, error) {
	payload, err := s.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var user model.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &user, nil
}

// Delete removes the session. Deleting a missing key is not an error.
func (s *SessionStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
