package trade

import (
	"github.com/shopspring/decimal"
)

// DiscountType is how a discount value is interpreted
type DiscountType string

const (
	DiscountNone       DiscountType = "NONE"
	DiscountFlat       DiscountType = "FLAT"
	DiscountPercentage DiscountType = "PERCENTAGE"
)

var hundred = decimal.NewFromInt(100)

// Discount is an order-level discount
type Discount struct {
	Type  DiscountType
	Value decimal.Decimal
}

// NoDiscount returns the zero discount
func NoDiscount() Discount {
	return Discount{Type: DiscountNone, Value: decimal.Zero}
}

// Validate checks type and range: FLAT >= 0, PERCENTAGE within 0..100
func (d Discount) Validate() error {
	switch d.Type {
	case DiscountNone, "":
		return nil
	case DiscountFlat:
		if d.Value.IsNegative() {
			return ErrInvalidDiscount.WithMessage("Flat discount cannot be negative")
		}
	case DiscountPercentage:
		if d.Value.IsNegative() || d.Value.GreaterThan(hundred) {
			return ErrInvalidDiscount.WithMessage("Percentage discount must be between 0 and 100")
		}
	default:
		return ErrInvalidDiscount.WithMessage("Discount type must be FLAT or PERCENTAGE")
	}
	return nil
}

// AmountOff returns the discount applied to total, rounded to 2 places.
// The caller clamps the resulting final amount at zero.
func (d Discount) AmountOff(total decimal.Decimal) decimal.Decimal {
	switch d.Type {
	case DiscountFlat:
		return d.Value.Round(2)
	case DiscountPercentage:
		return total.Mul(d.Value).Div(hundred).Round(2)
	}
	return decimal.Zero
}
