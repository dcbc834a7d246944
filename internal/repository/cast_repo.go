package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/models"
)

// CastFilter narrows admin cast listings.
type CastFilter struct {
	Type models.DiscountType
}

// CastRepo handles discount-code cast data operations
type CastRepo struct{}

func NewCastRepo() *CastRepo {
	return &CastRepo{}
}

// Create inserts a new cast and sets cast.ID.
func (r *CastRepo) Create(ctx context.Context, q Querier, cast *models.Cast) error {
	query := `
		INSERT INTO discount_code_casts
			(code, type, calculation_method, discount_amount, expiry_date, remaining_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	now := time.Now().UTC()
	cast.CreatedAt = now
	cast.UpdatedAt = now

	err := q.GetContext(ctx, &cast.ID, query,
		cast.Code, cast.Type, cast.CalculationMethod, cast.DiscountAmount,
		cast.ExpiryDate, cast.RemainingQuantity, cast.CreatedAt, cast.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateCode
		}
		return fmt.Errorf("failed to create cast: %w", err)
	}

	return nil
}

// GetByCode retrieves a cast by its unique code string.
func (r *CastRepo) GetByCode(ctx context.Context, q Querier, code string) (*models.Cast, error) {
	query := `
		SELECT id, code, type, calculation_method, discount_amount, expiry_date,
		       remaining_quantity, created_at, updated_at
		FROM discount_code_casts
		WHERE code = $1
	`

	var cast models.Cast
	if err := q.GetContext(ctx, &cast, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cast: %w", err)
	}

	return &cast, nil
}

// GetByID retrieves a cast by its primary key.
func (r *CastRepo) GetByID(ctx context.Context, q Querier, id int64) (*models.Cast, error) {
	query := `
		SELECT id, code, type, calculation_method, discount_amount, expiry_date,
		       remaining_quantity, created_at, updated_at
		FROM discount_code_casts
		WHERE id = $1
	`

	var cast models.Cast
	if err := q.GetContext(ctx, &cast, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cast: %w", err)
	}

	return &cast, nil
}

// DecrementQuantity takes one unit from the pool. The condition keeps the
// pool from going negative under concurrent claims; zero rows affected means
// the pool was already empty.
func (r *CastRepo) DecrementQuantity(ctx context.Context, q Querier, code string) error {
	query := `
		UPDATE discount_code_casts
		SET remaining_quantity = remaining_quantity - 1, updated_at = $2
		WHERE code = $1 AND remaining_quantity > 0
	`

	result, err := q.ExecContext(ctx, query, code, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to decrement quantity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNoQuantity
	}

	return nil
}

// Delete removes a cast by id.
func (r *CastRepo) Delete(ctx context.Context, q Querier, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM discount_code_casts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete cast: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// List returns a page of casts, newest first, optionally filtered by type.
func (r *CastRepo) List(ctx context.Context, q Querier, filter CastFilter, page PageRequest) ([]models.Cast, error) {
	query := `
		SELECT id, code, type, calculation_method, discount_amount, expiry_date,
		       remaining_quantity, created_at, updated_at
		FROM discount_code_casts
	`
	args := []interface{}{}

	if filter.Type != "" {
		query += ` WHERE type = $1`
		args = append(args, filter.Type)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, page.Limit(), page.Offset())

	casts := []models.Cast{}
	if err := q.SelectContext(ctx, &casts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list casts: %w", err)
	}

	return casts, nil
}
