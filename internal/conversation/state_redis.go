package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStateStore keeps conversation state in Redis so multiple bot
// replicas share the same pending-question view. Entries carry a TTL so
// an abandoned conversation eventually resets to idle.
type RedisStateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStateStore creates a Redis-backed state store. A zero ttl
// defaults to 30 minutes.
func NewRedisStateStore(client *redis.Client, ttl time.Duration) *RedisStateStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisStateStore{client: client, ttl: ttl}
}

func stateKey(phone string) string {
	return "agendabot:state:" + phone
}

// Get returns the state for a phone, or StateIdle when no key exists.
func (s *RedisStateStore) Get(ctx context.Context, phone string) (State, error) {
	val, err := s.client.Get(ctx, stateKey(phone)).Result()
	if errors.Is(err, redis.Nil) {
		return StateIdle, nil
	}
	if err != nil {
		return StateIdle, fmt.Errorf("conversation: redis get: %w", err)
	}
	return State(val), nil
}

// Set stores the state with the configured TTL. Setting StateIdle deletes
// the key.
func (s *RedisStateStore) Set(ctx context.Context, phone string, state State) error {
	if state == StateIdle {
		return s.Clear(ctx, phone)
	}
	if err := s.client.Set(ctx, stateKey(phone), string(state), s.ttl).Err(); err != nil {
		return fmt.Errorf("conversation: redis set: %w", err)
	}
	return nil
}

// Clear removes any stored state for a phone.
func (s *RedisStateStore) Clear(ctx context.Context, phone string) error {
	if err := s.client.Del(ctx, stateKey(phone)).Err(); err != nil {
		return fmt.Errorf("conversation: redis del: %w", err)
	}
	return nil
}

var _ StateStore = (*RedisStateStore)(nil)
