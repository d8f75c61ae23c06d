package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/loyaltyengine/internal/domain/model"
)

// RewardResponse describes a catalog entry.
type RewardResponse struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	PointsCost  int64            `json:"points_cost"`
	IsGlobal    bool             `json:"is_global"`
	BusinessID  *int64           `json:"business_id,omitempty"`
	Kind        string           `json:"kind"`
	PercentOff  *int             `json:"percent_off,omitempty"`
	AmountOff   *decimal.Decimal `json:"amount_off,omitempty"`
	ItemName    *string          `json:"item_name,omitempty"`
}

func NewRewardResponse(r model.Reward) RewardResponse {
	return RewardResponse{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		PointsCost:  r.PointsCost,
		IsGlobal:    r.IsGlobal,
		BusinessID:  r.BusinessID,
		Kind:        string(r.Terms.Kind),
		PercentOff:  r.Terms.PercentOff,
		AmountOff:   r.Terms.AmountOff,
		ItemName:    r.Terms.ItemName,
	}
}

// RedeemedRewardResponse describes a redemption and its claim code.
type RedeemedRewardResponse struct {
	ID             int64     `json:"id"`
	RewardID       int64     `json:"reward_id"`
	BusinessID     *int64    `json:"business_id,omitempty"`
	PointsUsed     int64     `json:"points_used"`
	ClaimCode      string    `json:"claim_code"`
	RedemptionDate time.Time `json:"redemption_date"`
	ExpirationDate time.Time `json:"expiration_date"`
	IsUsed         bool      `json:"is_used"`
	Expired        bool      `json:"expired"`
}

// NewRedeemedRewardResponse maps r, computing expiry at now.
func NewRedeemedRewardResponse(r model.RedeemedReward, now time.Time) RedeemedRewardResponse {
	return RedeemedRewardResponse{
		ID:             r.ID,
		RewardID:       r.RewardID,
		BusinessID:     r.BusinessID,
		PointsUsed:     r.PointsUsed,
		ClaimCode:      r.ClaimCode,
		RedemptionDate: r.RedemptionDate,
		ExpirationDate: r.ExpirationDate,
		IsUsed:         r.IsUsed,
		Expired:        r.Expired(now),
	}
}

// RedemptionErrorResponse is the client-safe failure description.
type RedemptionErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// RedemptionResultResponse is the body of a redeem call.
type RedemptionResultResponse struct {
	Success        bool                     `json:"success"`
	RedeemedReward *RedeemedRewardResponse  `json:"redeemed_reward,omitempty"`
	Error          *RedemptionErrorResponse `json:"error,omitempty"`
}

func NewRedemptionResultResponse(r model.RedemptionResult, now time.Time) RedemptionResultResponse {
	resp := RedemptionResultResponse{Success: r.Success}
	if r.RedeemedReward != nil {
		redeemed := NewRedeemedRewardResponse(*r.RedeemedReward, now)
		resp.RedeemedReward = &redeemed
	}
	if r.Error != nil {
		resp.Error = &RedemptionErrorResponse{Kind: r.Error.Kind, Message: r.Error.Message}
	}
	return resp
}
