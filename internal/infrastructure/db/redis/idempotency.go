package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore maps an Idempotency-Key to the shift it created.
// Key format: idempotency:shift:<owner>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps client. Keys expire after ttl, or 24h when ttl
// is not positive.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Lookup returns the shift ID recorded for key, if any.
func (s *IdempotencyStore) Lookup(ctx context.Context, owner, key string) (string, bool, error) {
	id, err := s.client.Get(ctx, idempotencyKey(owner, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return id, true, nil
}

// Remember records shiftID under key. An existing entry is kept, so the
// first create for a key wins.
func (s *IdempotencyStore) Remember(ctx context.Context, owner, key, shiftID string) error {
	if err := s.client.SetNX(ctx, idempotencyKey(owner, key), shiftID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func idempotencyKey(owner, key string) string {
	return fmt.Sprintf("idempotency:shift:%s:%s", owner, key)
}
