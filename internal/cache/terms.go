package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/models"
)

// TermsStore is the read-through accelerator on the redemption path. Entries
// are keyed by ledger-entry id and scoped by kind so a product lookup can
// never collide with a shipping one. It is never the source of truth for
// whether a code exists.
type TermsStore interface {
	Get(ctx context.Context, kind models.DiscountType, id string) (*models.ResolvedTerms, bool, error)
	Set(ctx context.Context, kind models.DiscountType, id string, terms *models.ResolvedTerms, ttl time.Duration) error
}

type termsEntry struct {
	terms     models.ResolvedTerms
	expiresAt time.Time
}

// InMemoryTermsStore is the single-process fallback used when no Redis
// address is configured, and by tests.
type InMemoryTermsStore struct {
	mu      sync.RWMutex
	entries map[string]termsEntry
}

func NewInMemoryTermsStore() *InMemoryTermsStore {
	return &InMemoryTermsStore{entries: map[string]termsEntry{}}
}

func (s *InMemoryTermsStore) Get(_ context.Context, kind models.DiscountType, id string) (*models.ResolvedTerms, bool, error) {
	key := termsKey(kind, id)
	now := time.Now()

	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if now.After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false, nil
	}

	terms := entry.terms
	return &terms, true, nil
}

func (s *InMemoryTermsStore) Set(_ context.Context, kind models.DiscountType, id string, terms *models.ResolvedTerms, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	s.entries[termsKey(kind, id)] = termsEntry{terms: *terms, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func termsKey(kind models.DiscountType, id string) string {
	return "voucher:terms:" + string(kind) + ":" + id
}
