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

// AllocationService hands out discount codes from a cast's pool.
type AllocationService struct {
	q           repository.Querier
	runTx       repository.TxRunner
	casts       CastRegistry
	ledger      Ledger
	cooldown    cache.CooldownStore
	cooldownTTL time.Duration
	log         zerolog.Logger
}

func NewAllocationService(
	q repository.Querier,
	runTx repository.TxRunner,
	casts CastRegistry,
	ledger Ledger,
	cooldown cache.CooldownStore,
	cooldownTTL time.Duration,
	log zerolog.Logger,
) *AllocationService {
	return &AllocationService{
		q:           q,
		runTx:       runTx,
		casts:       casts,
		ledger:      ledger,
		cooldown:    cooldown,
		cooldownTTL: cooldownTTL,
		log:         log,
	}
}

// Claim takes one unit from the cast identified by code and issues it to the
// customer. The decrement and the ledger insert run in one transaction, so a
// failure leaves neither applied.
func (s *AllocationService) Claim(ctx context.Context, customerID, code string) (*models.ClaimedCode, error) {
	start := time.Now()
	status := "error"
	defer func() {
		metrics.RecordClaimDuration(status, time.Since(start).Seconds())
	}()

	if customerID == "" {
		status = "rejected"
		return nil, fmt.Errorf("%w: missing customer id", ErrInvalidArgument)
	}

	// Cooldown is advisory. A store failure must not turn into a denial, so
	// read errors log and fall through.
	active, err := s.cooldown.Active(ctx, code, customerID)
	if err != nil {
		s.log.Warn().Err(err).Str("code", code).Msg("cooldown read failed, allowing claim")
	} else if active {
		status = "rejected"
		return nil, ErrCooldown
	}

	var entry models.DiscountCode
	var cast *models.Cast

	err = s.runTx(ctx, func(q repository.Querier) error {
		cast, err = s.casts.GetByCode(ctx, q, code)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}

		if cast.RemainingQuantity <= 0 {
			return ErrExhausted
		}

		// Conditional update; a concurrent claim on the last unit loses here.
		if err := s.casts.DecrementQuantity(ctx, q, code); err != nil {
			if errors.Is(err, repository.ErrNoQuantity) {
				return ErrExhausted
			}
			return err
		}

		entry = models.DiscountCode{
			ID:         uuid.NewString(),
			CastID:     cast.ID,
			Code:       cast.Code,
			CustomerID: customerID,
			IsUsed:     false,
		}
		return s.ledger.Create(ctx, q, &entry)
	})
	if err != nil {
		if isBusinessErr(err) {
			status = "rejected"
		}
		return nil, err
	}

	if err := s.cooldown.Record(ctx, code, customerID, s.cooldownTTL); err != nil {
		s.log.Warn().Err(err).Str("code", code).Msg("cooldown record failed")
	}

	s.log.Info().
		Str("code", code).
		Str("customer_id", customerID).
		Str("entry_id", entry.ID).
		Int("remaining", cast.RemainingQuantity-1).
		Msg("voucher claimed")

	status = "success"
	return &models.ClaimedCode{
		DiscountCode:      entry,
		Type:              cast.Type,
		CalculationMethod: cast.CalculationMethod,
		DiscountAmount:    cast.DiscountAmount,
		ExpiryDate:        cast.ExpiryDate,
	}, nil
}

// ClaimedCodes lists the customer's own claimed codes, optionally filtered
// on the usage flag.
func (s *AllocationService) ClaimedCodes(ctx context.Context, customerID string, isUsed *bool) ([]models.DiscountCode, error) {
	if customerID == "" {
		return nil, fmt.Errorf("%w: missing customer id", ErrInvalidArgument)
	}
	return s.ledger.ListForCustomer(ctx, s.q, customerID, isUsed)
}

func isBusinessErr(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrExhausted, ErrCooldown, ErrAlreadyUsed,
		ErrExpired, ErrWrongType, ErrInvalidArgument,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
