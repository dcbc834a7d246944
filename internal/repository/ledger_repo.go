package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/models"
)

// LedgerRepo handles issued discount-code data operations
type LedgerRepo struct{}

func NewLedgerRepo() *LedgerRepo {
	return &LedgerRepo{}
}

// Create inserts a new ledger entry. The caller assigns the id.
func (r *LedgerRepo) Create(ctx context.Context, q Querier, entry *models.DiscountCode) error {
	query := `
		INSERT INTO discount_codes (id, cast_id, code, customer_id, is_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	entry.CreatedAt = time.Now().UTC()

	_, err := q.ExecContext(ctx, query,
		entry.ID, entry.CastID, entry.Code, entry.CustomerID, entry.IsUsed, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}

	return nil
}

// GetByID retrieves a ledger entry by its id.
func (r *LedgerRepo) GetByID(ctx context.Context, q Querier, id string) (*models.DiscountCode, error) {
	query := `
		SELECT id, cast_id, code, customer_id, is_used, used_at, created_at
		FROM discount_codes
		WHERE id = $1
	`

	var entry models.DiscountCode
	if err := q.GetContext(ctx, &entry, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ledger entry: %w", err)
	}

	return &entry, nil
}

// ListForCustomer returns a customer's claimed codes, optionally filtered on
// the usage flag, newest first.
func (r *LedgerRepo) ListForCustomer(ctx context.Context, q Querier, customerID string, isUsed *bool) ([]models.DiscountCode, error) {
	query := `
		SELECT id, cast_id, code, customer_id, is_used, used_at, created_at
		FROM discount_codes
		WHERE customer_id = $1
	`
	args := []interface{}{customerID}

	if isUsed != nil {
		query += ` AND is_used = $2`
		args = append(args, *isUsed)
	}

	query += ` ORDER BY created_at DESC`

	entries := []models.DiscountCode{}
	if err := q.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	return entries, nil
}

// MarkUsed flips is_used from false to true exactly once. The conditional
// update is the whole guarantee: of two concurrent redemptions only one sees
// a row flip. Zero rows affected is disambiguated into ErrAlreadyUsed or
// ErrNotFound so callers can answer with the right error code.
func (r *LedgerRepo) MarkUsed(ctx context.Context, q Querier, id string, at time.Time) error {
	query := `
		UPDATE discount_codes
		SET is_used = TRUE, used_at = $2
		WHERE id = $1 AND is_used = FALSE
	`

	result, err := q.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to mark ledger entry used: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		var exists bool
		if err := q.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM discount_codes WHERE id = $1)`, id); err != nil {
			return fmt.Errorf("failed to check ledger entry: %w", err)
		}
		if exists {
			return ErrAlreadyUsed
		}
		return ErrNotFound
	}

	return nil
}
