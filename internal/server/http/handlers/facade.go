package handlers

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/loyaltyengine/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// PurchaseFacade encapsulates purchase operations exposed via HTTP.
type PurchaseFacade interface {
	UploadPurchase(ctx context.Context, customerID int64, number string) (*model.Purchase, bool, error)
	Purchases(ctx context.Context, customerID int64) ([]model.Purchase, error)
}

// RewardsFacade provides balance, tier, catalog and redemption operations.
type RewardsFacade interface {
	Overview(ctx context.Context, customerID int64) (*model.AccountOverview, error)
	Tier(ctx context.Context, customerID int64) (*model.TierResult, error)
	Transactions(ctx context.Context, customerID int64) ([]model.LoyaltyTransaction, error)
	Redemptions(ctx context.Context, customerID int64) ([]model.RedeemedReward, error)
	Rewards(ctx context.Context, businessID *int64) ([]model.Reward, error)
	Discount(points int64, rate *decimal.Decimal) (decimal.Decimal, error)
	RedeemReward(ctx context.Context, rewardID, customerID int64) model.RedemptionResult
}

// LoyaltyFacade aggregates the full set of operations used across handlers.
type LoyaltyFacade interface {
	AuthFacade
	PurchaseFacade
	RewardsFacade
}
