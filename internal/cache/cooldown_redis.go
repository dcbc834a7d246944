package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCooldownStore backs the cooldown guard with an expiring Redis key per
// (code, customer) pair.
type RedisCooldownStore struct {
	client redis.UniversalClient
}

func NewRedisCooldownStore(client redis.UniversalClient) *RedisCooldownStore {
	return &RedisCooldownStore{client: client}
}

func (s *RedisCooldownStore) Active(ctx context.Context, code, customerID string) (bool, error) {
	err := s.client.Get(ctx, cooldownKey(code, customerID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisCooldownStore) Record(ctx context.Context, code, customerID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, cooldownKey(code, customerID), customerID, ttl).Err()
}
