package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/models"
)

// RedisTermsStore stores resolved terms as JSON under an expiring key.
type RedisTermsStore struct {
	client redis.UniversalClient
}

func NewRedisTermsStore(client redis.UniversalClient) *RedisTermsStore {
	return &RedisTermsStore{client: client}
}

func (s *RedisTermsStore) Get(ctx context.Context, kind models.DiscountType, id string) (*models.ResolvedTerms, bool, error) {
	payload, err := s.client.Get(ctx, termsKey(kind, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var terms models.ResolvedTerms
	if err := json.Unmarshal(payload, &terms); err != nil {
		return nil, false, fmt.Errorf("decode cached terms: %w", err)
	}
	return &terms, true, nil
}

func (s *RedisTermsStore) Set(ctx context.Context, kind models.DiscountType, id string, terms *models.ResolvedTerms, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	payload, err := json.Marshal(terms)
	if err != nil {
		return fmt.Errorf("encode terms: %w", err)
	}
	return s.client.Set(ctx, termsKey(kind, id), payload, ttl).Err()
}
