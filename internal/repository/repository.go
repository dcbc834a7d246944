package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Sentinel errors the service layer maps onto its own taxonomy.
var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateCode = errors.New("duplicate code")
	ErrNoQuantity    = errors.New("insufficient quantity")
	ErrAlreadyUsed   = errors.New("already used")
)

// Querier is the subset of sqlx satisfied by both *sqlx.DB and *sqlx.Tx, so
// repository methods can run standalone or inside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// TxRunner runs fn against a transaction-scoped Querier and commits if fn
// returns nil.
type TxRunner func(ctx context.Context, fn func(q Querier) error) error

// TxRunnerFor wraps conn in a TxRunner with rollback-on-error semantics.
func TxRunnerFor(conn *sqlx.DB) TxRunner {
	return func(ctx context.Context, fn func(q Querier) error) error {
		tx, err := conn.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}

		committed := false
		defer func() {
			if !committed {
				_ = tx.Rollback()
			}
		}()

		if err := fn(tx); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("tx commit: %w", err)
		}
		committed = true
		return nil
	}
}
