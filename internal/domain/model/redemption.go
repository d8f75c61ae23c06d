package model

import "time"

// RedemptionValidity is how long a redeemed reward stays usable.
const RedemptionValidity = 30 * 24 * time.Hour

// RedeemedReward records a successful redemption.
type RedeemedReward struct {
	ID             int64
	RewardID       int64
	CustomerID     int64
	BusinessID     *int64
	PointsUsed     int64
	ClaimCode      string
	RedemptionDate time.Time
	ExpirationDate time.Time
	IsUsed         bool
}

// NewRedeemedReward prepares a redemption of reward made at now.
func NewRedeemedReward(reward Reward, customerID int64, claimCode string, now time.Time) RedeemedReward {
	return RedeemedReward{
		RewardID:       reward.ID,
		CustomerID:     customerID,
		BusinessID:     reward.BusinessID,
		PointsUsed:     reward.PointsCost,
		ClaimCode:      claimCode,
		RedemptionDate: now,
		ExpirationDate: now.Add(RedemptionValidity),
	}
}

// Expired reports whether the redemption can no longer be used at t.
func (r RedeemedReward) Expired(t time.Time) bool {
	return !t.Before(r.ExpirationDate)
}

// RedemptionError is the client-facing part of a failed redemption.
type RedemptionError struct {
	Kind    string
	Message string
}

// RedemptionResult is the structured outcome of a redemption request.
type RedemptionResult struct {
	Success        bool
	RedeemedReward *RedeemedReward
	Error          *RedemptionError
}
