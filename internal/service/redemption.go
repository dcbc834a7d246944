package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/cache"
	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/metrics"
	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/models"
	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/repository"
)

// RedemptionService consumes claimed codes at checkout.
type RedemptionService struct {
	q        repository.Querier
	casts    CastRegistry
	ledger   Ledger
	terms    cache.TermsStore
	termsTTL time.Duration
	log      zerolog.Logger
}

func NewRedemptionService(
	q repository.Querier,
	casts CastRegistry,
	ledger Ledger,
	terms cache.TermsStore,
	termsTTL time.Duration,
	log zerolog.Logger,
) *RedemptionService {
	return &RedemptionService{
		q:        q,
		casts:    casts,
		ledger:   ledger,
		terms:    terms,
		termsTTL: termsTTL,
		log:      log,
	}
}

// Validate checks a claimed code against the requested kind and marks it
// used. The usage flag flips at most once; a replay inside the cache TTL is
// answered from the cache with is_used true, but the cached expiry is
// re-checked against now on every hit so an expired code never keeps
// validating.
func (s *RedemptionService) Validate(ctx context.Context, rawID string, kind models.DiscountType) (*models.ResolvedTerms, error) {
	start := time.Now()
	status := "error"
	defer func() {
		metrics.RecordValidateDuration(status, string(kind), time.Since(start).Seconds())
	}()

	if !kind.Valid() {
		status = "rejected"
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidArgument, kind)
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		status = "rejected"
		return nil, fmt.Errorf("%w: malformed code id", ErrInvalidArgument)
	}

	entry, err := s.ledger.GetByID(ctx, s.q, id.String())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			status = "rejected"
			return nil, ErrNotFound
		}
		return nil, err
	}

	if entry.IsUsed {
		terms, hit, err := s.terms.Get(ctx, kind, entry.ID)
		if err != nil {
			s.log.Warn().Err(err).Str("entry_id", entry.ID).Msg("terms cache read failed")
		}
		if hit {
			if time.Now().After(terms.ExpiryDate) {
				status = "rejected"
				return nil, ErrExpired
			}
			terms.IsUsed = true
			status = "success"
			return terms, nil
		}
		status = "rejected"
		return nil, ErrAlreadyUsed
	}

	cast, err := s.casts.GetByID(ctx, s.q, entry.CastID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			status = "rejected"
			return nil, ErrNotFound
		}
		return nil, err
	}

	if cast.Type != kind {
		status = "rejected"
		return nil, ErrWrongType
	}

	now := time.Now()
	if cast.Expired(now) {
		status = "rejected"
		return nil, ErrExpired
	}

	if err := s.ledger.MarkUsed(ctx, s.q, entry.ID, now); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyUsed):
			// Lost the race with a concurrent redemption.
			status = "rejected"
			return nil, ErrAlreadyUsed
		case errors.Is(err, repository.ErrNotFound):
			status = "rejected"
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	resolved := cast.Terms()
	resolved.IsUsed = true

	if err := s.terms.Set(ctx, kind, entry.ID, &resolved, s.termsTTL); err != nil {
		s.log.Warn().Err(err).Str("entry_id", entry.ID).Msg("terms cache write failed")
	}

	s.log.Info().
		Str("entry_id", entry.ID).
		Str("code", entry.Code).
		Str("kind", string(kind)).
		Msg("voucher redeemed")

	status = "success"
	return &resolved, nil
}
