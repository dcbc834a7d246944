package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is applied at startup. Every statement is idempotent so restarting
// against an already-migrated database is a no-op.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS discount_code_casts (
		id                 BIGSERIAL PRIMARY KEY,
		code               TEXT NOT NULL UNIQUE,
		type               TEXT NOT NULL,
		calculation_method TEXT NOT NULL,
		discount_amount    DOUBLE PRECISION NOT NULL CHECK (discount_amount >= 0),
		expiry_date        TIMESTAMPTZ NOT NULL,
		remaining_quantity INTEGER NOT NULL CHECK (remaining_quantity >= 0),
		created_at         TIMESTAMPTZ NOT NULL,
		updated_at         TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS discount_codes (
		id          UUID PRIMARY KEY,
		cast_id     BIGINT NOT NULL REFERENCES discount_code_casts(id),
		code        TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		is_used     BOOLEAN NOT NULL DEFAULT FALSE,
		used_at     TIMESTAMPTZ,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_discount_codes_code ON discount_codes (code)`,
	`CREATE INDEX IF NOT EXISTS idx_discount_codes_customer_id ON discount_codes (customer_id)`,
}

// Migrate creates the voucher tables and indexes if they do not exist yet.
func Migrate(ctx context.Context, conn *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
