package models

import "time"

// DiscountCode is one customer-held instance claimed from a cast's pool.
// The cast is referenced by CastID; Code is a denormalized display copy and
// never the join key.
type DiscountCode struct {
	ID         string     `db:"id" json:"id"`
	CastID     int64      `db:"cast_id" json:"-"`
	Code       string     `db:"code" json:"code"`
	CustomerID string     `db:"customer_id" json:"customer_id"`
	IsUsed     bool       `db:"is_used" json:"is_used"`
	UsedAt     *time.Time `db:"used_at" json:"used_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// ClaimedCode is a freshly claimed entry with the cast fields denormalized
// for immediate display.
type ClaimedCode struct {
	DiscountCode
	Type              DiscountType      `json:"type"`
	CalculationMethod CalculationMethod `json:"calculation_method"`
	DiscountAmount    float64           `json:"discount_amount"`
	ExpiryDate        time.Time         `json:"expiry_date"`
}

// ResolvedTerms is what a successful validation hands back to checkout.
type ResolvedTerms struct {
	Code              string            `json:"code"`
	Type              DiscountType      `json:"type"`
	CalculationMethod CalculationMethod `json:"calculation_method"`
	DiscountAmount    float64           `json:"discount_amount"`
	ExpiryDate        time.Time         `json:"expiry_date"`
	IsUsed            bool              `json:"is_used"`
}
