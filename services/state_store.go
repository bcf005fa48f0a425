package services

import (
	"context"
	"encoding/json"
	"time"

	"quizengine/session"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// AttemptState is the cached form of a live attempt.
type AttemptState struct {
	AttemptID string           `json:"attempt_id"`
	QuizID    uint             `json:"quiz_id"`
	UserID    uint             `json:"user_id"`
	Snapshot  session.Snapshot `json:"snapshot"`
}

// StateStore caches attempt state between requests and across restarts. Load returns nil and
// no error when nothing is cached.
type StateStore interface {
	Save(ctx context.Context, state *AttemptState) error
	Load(ctx context.Context, attemptID string) (*AttemptState, error)
}

type RedisStateStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisStateStore(client *redis.Client, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{redis: client, ttl: ttl}
}

func attemptKey(attemptID string) string {
	return "attempt:" + attemptID
}

func (s *RedisStateStore) Save(ctx context.Context, state *AttemptState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "failed to marshal attempt state")
	}

	if err := s.redis.Set(ctx, attemptKey(state.AttemptID), data, s.ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to store in Redis")
	}
	return nil
}

func (s *RedisStateStore) Load(ctx context.Context, attemptID string) (*AttemptState, error) {
	data, err := s.redis.Get(ctx, attemptKey(attemptID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "redis get attempt %s", attemptID)
	}

	var state AttemptState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal attempt state %s", attemptID)
	}
	return &state, nil
}
