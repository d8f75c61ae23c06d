package repository

import (
	"context"

	"github.com/polkiloo/loyaltyengine/internal/domain/model"
)

// RewardRepository reads the reward catalog.
type RewardRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Reward, error)
	ListActive(ctx context.Context, businessID *int64) ([]model.Reward, error)
}

// RedemptionRepository provides access to redemption history.
type RedemptionRepository interface {
	ListByCustomer(ctx context.Context, customerID int64) ([]model.RedeemedReward, error)
}
