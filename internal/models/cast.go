package models

import "time"

// DiscountType says what part of an order a code discounts.
type DiscountType string

const (
	DiscountTypeProduct  DiscountType = "product"
	DiscountTypeShipping DiscountType = "shipping"
)

func (t DiscountType) Valid() bool {
	return t == DiscountTypeProduct || t == DiscountTypeShipping
}

// CalculationMethod says how DiscountAmount is interpreted.
type CalculationMethod string

const (
	CalcPercentage  CalculationMethod = "percentage"
	CalcFixedAmount CalculationMethod = "fixed_amount"
)

func (m CalculationMethod) Valid() bool {
	return m == CalcPercentage || m == CalcFixedAmount
}

// Cast is the template a pool of discount codes is issued from.
// RemainingQuantity only ever decreases; a claim against an empty pool fails.
type Cast struct {
	ID                int64             `db:"id" json:"id"`
	Code              string            `db:"code" json:"code"`
	Type              DiscountType      `db:"type" json:"type"`
	CalculationMethod CalculationMethod `db:"calculation_method" json:"calculation_method"`
	DiscountAmount    float64           `db:"discount_amount" json:"discount_amount"`
	ExpiryDate        time.Time         `db:"expiry_date" json:"expiry_date"`
	RemainingQuantity int               `db:"remaining_quantity" json:"remaining_quantity"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time         `db:"updated_at" json:"updated_at"`
}

func (c *Cast) Expired(now time.Time) bool {
	return now.After(c.ExpiryDate)
}

// Terms resolves the cast into the fields a checkout needs.
func (c *Cast) Terms() ResolvedTerms {
	return ResolvedTerms{
		Code:              c.Code,
		Type:              c.Type,
		CalculationMethod: c.CalculationMethod,
		DiscountAmount:    c.DiscountAmount,
		ExpiryDate:        c.ExpiryDate,
	}
}
