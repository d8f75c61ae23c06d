package repository

import (
	"context"

	"github.com/polkiloo/loyaltyengine/internal/domain/model"
)

// LedgerRepository is the append-only points ledger.
type LedgerRepository interface {
	SumPoints(ctx context.Context, customerID int64) (int64, error)
	Summary(ctx context.Context, customerID int64) (*model.BalanceSummary, error)
	InsertTransaction(ctx context.Context, tx model.LoyaltyTransaction) (*model.LoyaltyTransaction, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]model.LoyaltyTransaction, error)
	// Redeem checks the balance and writes the redemption together with its
	// debit transaction atomically, serialized per customer.
	Redeem(ctx context.Context, reward model.Reward, redemption model.RedeemedReward) (*model.RedeemedReward, error)
}
