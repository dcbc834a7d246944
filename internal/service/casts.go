package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/models"
	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/repository"
)

// CastService is the thin admin surface over the cast registry.
type CastService struct {
	q     repository.Querier
	casts CastRegistry
	log   zerolog.Logger
}

func NewCastService(q repository.Querier, casts CastRegistry, log zerolog.Logger) *CastService {
	return &CastService{q: q, casts: casts, log: log}
}

// CreateCastInput carries the validated admin request.
type CreateCastInput struct {
	Code              string
	Type              models.DiscountType
	CalculationMethod models.CalculationMethod
	DiscountAmount    float64
	ExpiryDate        time.Time
	Quantity          int
}

func (s *CastService) CreateCast(ctx context.Context, in CreateCastInput) (*models.Cast, error) {
	switch {
	case in.Code == "":
		return nil, fmt.Errorf("%w: missing code", ErrInvalidArgument)
	case !in.Type.Valid():
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidArgument, in.Type)
	case !in.CalculationMethod.Valid():
		return nil, fmt.Errorf("%w: unknown calculation method %q", ErrInvalidArgument, in.CalculationMethod)
	case in.DiscountAmount < 0:
		return nil, fmt.Errorf("%w: discount amount must not be negative", ErrInvalidArgument)
	case in.CalculationMethod == models.CalcPercentage && in.DiscountAmount > 100:
		return nil, fmt.Errorf("%w: percentage must be at most 100", ErrInvalidArgument)
	case in.Quantity < 1:
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidArgument)
	}

	cast := &models.Cast{
		Code:              in.Code,
		Type:              in.Type,
		CalculationMethod: in.CalculationMethod,
		DiscountAmount:    in.DiscountAmount,
		ExpiryDate:        in.ExpiryDate,
		RemainingQuantity: in.Quantity,
	}

	if err := s.casts.Create(ctx, s.q, cast); err != nil {
		if errors.Is(err, repository.ErrDuplicateCode) {
			return nil, fmt.Errorf("%w: code %q already exists", ErrInvalidArgument, in.Code)
		}
		return nil, err
	}

	s.log.Info().Str("code", cast.Code).Int("quantity", cast.RemainingQuantity).Msg("cast created")
	return cast, nil
}

func (s *CastService) DeleteCast(ctx context.Context, id int64) error {
	err := s.casts.Delete(ctx, s.q, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *CastService) ListCasts(ctx context.Context, filter repository.CastFilter, page repository.PageRequest) ([]models.Cast, error) {
	return s.casts.List(ctx, s.q, filter, page)
}
