package model

import (
	"errors"

	"github.com/shopspring/decimal"
)

// RewardKind selects which field of RewardTerms is meaningful.
type RewardKind string

const (
	RewardKindPercentOff RewardKind = "percent_off"
	RewardKindAmountOff  RewardKind = "amount_off"
	RewardKindFreeItem   RewardKind = "free_item"
)

var errInvalidTerms = errors.New("invalid reward terms")

// RewardTerms describes what the customer gets. Exactly one field matching Kind is set.
type RewardTerms struct {
	Kind       RewardKind
	PercentOff *int
	AmountOff  *decimal.Decimal
	ItemName   *string
}

// Validate checks that the terms carry exactly the field required by their kind.
func (t RewardTerms) Validate() error {
	set := 0
	for _, ok := range []bool{t.PercentOff != nil, t.AmountOff != nil, t.ItemName != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return errInvalidTerms
	}

	switch t.Kind {
	case RewardKindPercentOff:
		if t.PercentOff == nil || *t.PercentOff <= 0 || *t.PercentOff > 100 {
			return errInvalidTerms
		}
	case RewardKindAmountOff:
		if t.AmountOff == nil || !t.AmountOff.IsPositive() {
			return errInvalidTerms
		}
	case RewardKindFreeItem:
		if t.ItemName == nil || *t.ItemName == "" {
			return errInvalidTerms
		}
	default:
		return errInvalidTerms
	}
	return nil
}

// Reward is a catalog entry redeemable for points.
type Reward struct {
	ID          int64
	Title       string
	Description string
	PointsCost  int64
	IsGlobal    bool
	BusinessID  *int64
	IsActive    bool
	Terms       RewardTerms
}

// AvailableAt reports whether the reward can be redeemed at the business.
// A nil business means platform-wide rewards only.
func (r Reward) AvailableAt(businessID *int64) bool {
	if !r.IsActive {
		return false
	}
	if r.IsGlobal {
		return true
	}
	return businessID != nil && r.BusinessID != nil && *r.BusinessID == *businessID
}
