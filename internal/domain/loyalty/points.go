// Package loyalty holds the pure rules of the loyalty program: how spend
// becomes points, how points map to tiers and discounts, and when a
// balance covers a reward.
package loyalty

import (
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/loyaltyengine/internal/domain/errors"
)

// PointsPerUnit is the number of points earned per currency unit spent.
const PointsPerUnit = 1

// CalculateLoyaltyPoints converts a spend amount to whole points,
// rounding half away from zero.
func CalculateLoyaltyPoints(amount decimal.Decimal) (int64, error) {
	if amount.IsNegative() {
		return 0, domainErrors.ErrInvalidArgument
	}
	return amount.Mul(decimal.NewFromInt(PointsPerUnit)).Round(0).IntPart(), nil
}

// IsEligibleForReward reports whether balance covers cost. Equal is enough.
func IsEligibleForReward(balance, cost int64) bool {
	return balance >= cost
}
