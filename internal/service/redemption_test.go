package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/cache"
	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/models"
)

func newRedemption(store *memStore, terms cache.TermsStore, ttl time.Duration) *RedemptionService {
	return NewRedemptionService(nil, store.registry(), store.ledger(), terms, ttl, zerolog.Nop())
}

// seeds a cast and one unused ledger entry, returns the entry id.
func seedClaim(t *testing.T, store *memStore, cast *models.Cast) string {
	t.Helper()
	store.addCast(cast)
	id := uuid.NewString()
	err := store.ledger().createFn(&models.DiscountCode{
		ID:         id,
		CastID:     cast.ID,
		Code:       cast.Code,
		CustomerID: "cust1",
	})
	if err != nil {
		t.Fatalf("seed ledger entry: %v", err)
	}
	return id
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed id", func(t *testing.T) {
		svc := newRedemption(newMemStore(), cache.NewInMemoryTermsStore(), time.Hour)
		if _, err := svc.Validate(ctx, "not-a-uuid", models.DiscountTypeProduct); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("unknown entry", func(t *testing.T) {
		svc := newRedemption(newMemStore(), cache.NewInMemoryTermsStore(), time.Hour)
		if _, err := svc.Validate(ctx, uuid.NewString(), models.DiscountTypeProduct); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("success marks used", func(t *testing.T) {
		store := newMemStore()
		id := seedClaim(t, store, productCast("SALE10", 0))
		svc := newRedemption(store, cache.NewInMemoryTermsStore(), time.Hour)

		terms, err := svc.Validate(ctx, id, models.DiscountTypeProduct)
		if err != nil {
			t.Fatalf("validate: %v", err)
		}
		if !terms.IsUsed {
			t.Fatal("resolved terms must report is_used true")
		}
		if terms.Code != "SALE10" || terms.DiscountAmount != 10 {
			t.Fatalf("unexpected terms %+v", terms)
		}

		entry, err := store.ledger().getByIDFn(id)
		if err != nil {
			t.Fatalf("reload entry: %v", err)
		}
		if !entry.IsUsed || entry.UsedAt == nil {
			t.Fatalf("ledger entry not marked used: %+v", entry)
		}
	})

	t.Run("wrong kind", func(t *testing.T) {
		store := newMemStore()
		id := seedClaim(t, store, productCast("SALE10", 0))
		svc := newRedemption(store, cache.NewInMemoryTermsStore(), time.Hour)

		if _, err := svc.Validate(ctx, id, models.DiscountTypeShipping); !errors.Is(err, ErrWrongType) {
			t.Fatalf("expected ErrWrongType, got %v", err)
		}
		// The failed attempt must not consume the code.
		if _, err := svc.Validate(ctx, id, models.DiscountTypeProduct); err != nil {
			t.Fatalf("validate after wrong kind: %v", err)
		}
	})

	t.Run("expired cast", func(t *testing.T) {
		store := newMemStore()
		cast := productCast("OLD10", 0)
		cast.ExpiryDate = time.Now().Add(-time.Hour)
		id := seedClaim(t, store, cast)
		svc := newRedemption(store, cache.NewInMemoryTermsStore(), time.Hour)

		if _, err := svc.Validate(ctx, id, models.DiscountTypeProduct); !errors.Is(err, ErrExpired) {
			t.Fatalf("expected ErrExpired, got %v", err)
		}
	})

	t.Run("replay within cache TTL returns cached terms", func(t *testing.T) {
		store := newMemStore()
		id := seedClaim(t, store, productCast("SALE10", 0))
		svc := newRedemption(store, cache.NewInMemoryTermsStore(), time.Hour)

		if _, err := svc.Validate(ctx, id, models.DiscountTypeProduct); err != nil {
			t.Fatalf("first validate: %v", err)
		}
		terms, err := svc.Validate(ctx, id, models.DiscountTypeProduct)
		if err != nil {
			t.Fatalf("replay validate: %v", err)
		}
		if !terms.IsUsed {
			t.Fatal("replay must report is_used true")
		}
	})

	t.Run("replay with cold cache fails already used", func(t *testing.T) {
		store := newMemStore()
		id := seedClaim(t, store, productCast("SALE10", 0))
		svc := newRedemption(store, cache.NewInMemoryTermsStore(), time.Hour)

		if _, err := svc.Validate(ctx, id, models.DiscountTypeProduct); err != nil {
			t.Fatalf("first validate: %v", err)
		}

		// Fresh empty cache models expiry of the cached entry.
		cold := newRedemption(store, cache.NewInMemoryTermsStore(), time.Hour)
		if _, err := cold.Validate(ctx, id, models.DiscountTypeProduct); !errors.Is(err, ErrAlreadyUsed) {
			t.Fatalf("expected ErrAlreadyUsed, got %v", err)
		}
	})

	t.Run("cache hit re-checks expiry", func(t *testing.T) {
		store := newMemStore()
		cast := productCast("BRIEF", 0)
		cast.ExpiryDate = time.Now().Add(50 * time.Millisecond)
		id := seedClaim(t, store, cast)
		svc := newRedemption(store, cache.NewInMemoryTermsStore(), time.Hour)

		if _, err := svc.Validate(ctx, id, models.DiscountTypeProduct); err != nil {
			t.Fatalf("first validate: %v", err)
		}
		time.Sleep(60 * time.Millisecond)
		if _, err := svc.Validate(ctx, id, models.DiscountTypeProduct); !errors.Is(err, ErrExpired) {
			t.Fatalf("expected ErrExpired on cached hit past expiry, got %v", err)
		}
	})

	t.Run("kind scoping keeps cache entries apart", func(t *testing.T) {
		store := newMemStore()
		id := seedClaim(t, store, productCast("SALE10", 0))
		svc := newRedemption(store, cache.NewInMemoryTermsStore(), time.Hour)

		if _, err := svc.Validate(ctx, id, models.DiscountTypeProduct); err != nil {
			t.Fatalf("validate: %v", err)
		}
		// Used entry, shipping kind: cache miss for that kind, so AlreadyUsed
		// rather than the cached product terms.
		if _, err := svc.Validate(ctx, id, models.DiscountTypeShipping); !errors.Is(err, ErrAlreadyUsed) {
			t.Fatalf("expected ErrAlreadyUsed, got %v", err)
		}
	})
}

func TestValidateAtMostOnce(t *testing.T) {
	const attempts = 20

	store := newMemStore()
	id := seedClaim(t, store, productCast("SALE10", 0))
	// Cold cache on every attempt path is forced by a zero-TTL store, so all
	// contenders race on the ledger CAS.
	svc := newRedemption(store, cache.NewInMemoryTermsStore(), 0)

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Validate(context.Background(), id, models.DiscountTypeProduct)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrAlreadyUsed):
		default:
			t.Fatalf("unexpected validate error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("%d successful redemptions, want exactly 1", successes)
	}
}
