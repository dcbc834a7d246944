package cache

import (
	"context"
	"sync"
	"time"
)

// CooldownStore remembers recent claims so the same customer cannot re-claim
// the same code inside the window. It is a best-effort throttle, never a
// correctness guarantee.
type CooldownStore interface {
	// Active reports whether a cooldown is currently recorded for the
	// (code, customer) pair.
	Active(ctx context.Context, code, customerID string) (bool, error)
	// Record overwrites the cooldown for the pair with the given TTL.
	Record(ctx context.Context, code, customerID string, ttl time.Duration) error
}

// InMemoryCooldownStore is the single-process fallback used when no Redis
// address is configured, and by tests.
type InMemoryCooldownStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time // key -> expiry
}

func NewInMemoryCooldownStore() *InMemoryCooldownStore {
	return &InMemoryCooldownStore{entries: map[string]time.Time{}}
}

func (s *InMemoryCooldownStore) Active(_ context.Context, code, customerID string) (bool, error) {
	key := cooldownKey(code, customerID)
	now := time.Now()

	s.mu.RLock()
	expiresAt, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if now.After(expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}

func (s *InMemoryCooldownStore) Record(_ context.Context, code, customerID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	s.entries[cooldownKey(code, customerID)] = time.Now().Add(ttl)
	s.mu.Unlock()
	return nil
}

// Keyed by the (code, customer) pair so one customer's re-claim is throttled
// without clobbering another claimant's record.
func cooldownKey(code, customerID string) string {
	return "voucher:cooldown:" + code + ":" + customerID
}
