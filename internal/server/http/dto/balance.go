package dto

import "github.com/polkiloo/loyaltyengine/internal/domain/model"

// TierResponse describes the membership tier and progress to the next one.
type TierResponse struct {
	Tier             string  `json:"tier"`
	NextTier         *string `json:"next_tier,omitempty"`
	PointsToNextTier *int64  `json:"points_to_next_tier,omitempty"`
}

// BalanceResponse represents summary of loyalty points.
type BalanceResponse struct {
	Current  int64        `json:"current"`
	Earned   int64        `json:"earned"`
	Redeemed int64        `json:"redeemed"`
	Tier     TierResponse `json:"tier"`
}

// NewTierResponse maps a tier classification.
func NewTierResponse(t model.TierResult) TierResponse {
	resp := TierResponse{Tier: string(t.Tier), PointsToNextTier: t.PointsToNextTier}
	if t.NextTier != nil {
		next := string(*t.NextTier)
		resp.NextTier = &next
	}
	return resp
}

// NewBalanceResponse maps an account overview.
func NewBalanceResponse(o model.AccountOverview) BalanceResponse {
	return BalanceResponse{
		Current:  o.Balance.Current,
		Earned:   o.Balance.Earned,
		Redeemed: o.Balance.Redeemed,
		Tier:     NewTierResponse(o.Tier),
	}
}
