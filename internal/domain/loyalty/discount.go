package loyalty

import (
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/loyaltyengine/internal/domain/errors"
)

// DefaultConversionRate is the currency value of one point.
var DefaultConversionRate = decimal.RequireFromString("0.10")

// CalculateDiscountFromPoints returns points * rate without rounding.
// Points are whole ledger units, so fractional point counts cannot be
// expressed. Zero points give a zero discount whatever the rate.
func CalculateDiscountFromPoints(points int64, rate decimal.Decimal) (decimal.Decimal, error) {
	if points == 0 {
		return decimal.Zero, nil
	}
	if points < 0 || !rate.IsPositive() {
		return decimal.Zero, domainErrors.ErrInvalidArgument
	}
	return decimal.NewFromInt(points).Mul(rate), nil
}

// CalculateDefaultDiscount applies DefaultConversionRate.
func CalculateDefaultDiscount(points int64) (decimal.Decimal, error) {
	return CalculateDiscountFromPoints(points, DefaultConversionRate)
}
