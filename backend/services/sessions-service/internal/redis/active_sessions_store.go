package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"charginguu/backend/services/sessions-service/internal/models"
)

// ErrNotCached is returned when no snapshot exists for a session.
var ErrNotCached = errors.New("redisstore: session not cached")

// Store caches the latest live snapshot of each running session so any replica can
// answer reads.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore returns redis-backed store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) key(sessionID string) string {
	return fmt.Sprintf("sessions:live:%s", sessionID)
}

// Save caches session.
func (s *Store) Save(ctx context.Context, session models.LiveSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(session.ID), data, s.ttl).Err()
}

// Get returns cached session.
func (s *Store) Get(ctx context.Context, sessionID string) (*models.LiveSession, error) {
	result, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotCached
		}
		return nil, err
	}
	var session models.LiveSession
	if err := json.Unmarshal([]byte(result), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes cached session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}
