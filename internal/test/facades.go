package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/loyaltyengine/internal/domain/model"
)

// PurchaseFacadeStub provides controllable behaviour for purchase endpoints.
type PurchaseFacadeStub struct {
	UploadFn    func(context.Context, int64, string) (*model.Purchase, bool, error)
	PurchasesFn func(context.Context, int64) ([]model.Purchase, error)
}

// UploadPurchase delegates to provided function or returns default purchase.
func (s PurchaseFacadeStub) UploadPurchase(ctx context.Context, customerID int64, number string) (*model.Purchase, bool, error) {
	if s.UploadFn != nil {
		return s.UploadFn(ctx, customerID, number)
	}
	return &model.Purchase{Number: number, CustomerID: customerID, Status: model.PurchaseStatusNew}, true, nil
}

// Purchases returns predefined purchases for given customer.
func (s PurchaseFacadeStub) Purchases(ctx context.Context, customerID int64) ([]model.Purchase, error) {
	if s.PurchasesFn != nil {
		return s.PurchasesFn(ctx, customerID)
	}
	return []model.Purchase{{Number: "1", Status: model.PurchaseStatusNew}}, nil
}

// RewardsFacadeStub simulates balance, tier, catalog and redemption operations.
type RewardsFacadeStub struct {
	OverviewFn     func(context.Context, int64) (*model.AccountOverview, error)
	TierFn         func(context.Context, int64) (*model.TierResult, error)
	TransactionsFn func(context.Context, int64) ([]model.LoyaltyTransaction, error)
	RedemptionsFn  func(context.Context, int64) ([]model.RedeemedReward, error)
	RewardsFn      func(context.Context, *int64) ([]model.Reward, error)
	DiscountFn     func(int64, *decimal.Decimal) (decimal.Decimal, error)
	RedeemFn       func(context.Context, int64, int64) model.RedemptionResult
}

// Overview returns stored overview or a bronze account with 10 points.
func (s RewardsFacadeStub) Overview(ctx context.Context, customerID int64) (*model.AccountOverview, error) {
	if s.OverviewFn != nil {
		return s.OverviewFn(ctx, customerID)
	}
	next := model.TierSilver
	remaining := int64(90)
	return &model.AccountOverview{
		Balance: model.BalanceSummary{Current: 10, Earned: 15, Redeemed: 5},
		Tier:    model.TierResult{Tier: model.TierBronze, NextTier: &next, PointsToNextTier: &remaining},
	}, nil
}

// Tier returns configured tier or bronze.
func (s RewardsFacadeStub) Tier(ctx context.Context, customerID int64) (*model.TierResult, error) {
	if s.TierFn != nil {
		return s.TierFn(ctx, customerID)
	}
	return &model.TierResult{Tier: model.TierBronze}, nil
}

// Transactions returns preconfigured ledger entries.
func (s RewardsFacadeStub) Transactions(ctx context.Context, customerID int64) ([]model.LoyaltyTransaction, error) {
	if s.TransactionsFn != nil {
		return s.TransactionsFn(ctx, customerID)
	}
	return []model.LoyaltyTransaction{{
		ID: 1, CustomerID: customerID, Points: 10, Description: "Purchase 1",
		TransactionType: model.TransactionTypeAccrual, CreatedAt: time.Unix(0, 0),
	}}, nil
}

// Redemptions returns preconfigured history.
func (s RewardsFacadeStub) Redemptions(ctx context.Context, customerID int64) ([]model.RedeemedReward, error) {
	if s.RedemptionsFn != nil {
		return s.RedemptionsFn(ctx, customerID)
	}
	return []model.RedeemedReward{{ID: 1, RewardID: 1, CustomerID: customerID, PointsUsed: 5, ClaimCode: "code"}}, nil
}

// Rewards returns preconfigured catalog entries.
func (s RewardsFacadeStub) Rewards(ctx context.Context, businessID *int64) ([]model.Reward, error) {
	if s.RewardsFn != nil {
		return s.RewardsFn(ctx, businessID)
	}
	percent := 10
	return []model.Reward{{
		ID: 1, Title: "Ten off", PointsCost: 100, IsGlobal: true, IsActive: true,
		Terms: model.RewardTerms{Kind: model.RewardKindPercentOff, PercentOff: &percent},
	}}, nil
}

// Discount returns configured discount or points multiplied by 0.10.
func (s RewardsFacadeStub) Discount(points int64, rate *decimal.Decimal) (decimal.Decimal, error) {
	if s.DiscountFn != nil {
		return s.DiscountFn(points, rate)
	}
	return decimal.NewFromInt(points).Mul(decimal.RequireFromString("0.10")), nil
}

// RedeemReward returns configured result or a successful redemption.
func (s RewardsFacadeStub) RedeemReward(ctx context.Context, rewardID, customerID int64) model.RedemptionResult {
	if s.RedeemFn != nil {
		return s.RedeemFn(ctx, rewardID, customerID)
	}
	return model.RedemptionResult{
		Success:        true,
		RedeemedReward: &model.RedeemedReward{ID: 1, RewardID: rewardID, CustomerID: customerID, ClaimCode: "code"},
	}
}

// SettleCall stores information about SettlePurchase invocations.
type SettleCall struct {
	PurchaseID   int64
	Verification model.PurchaseVerification
}

// WorkerFacadeStub mimics worker interactions with loyalty facade.
type WorkerFacadeStub struct {
	Batches    [][]model.Purchase
	BatchFn    func(context.Context, int) ([]model.Purchase, error)
	VerifyFn   func(context.Context, string) (*model.PurchaseVerification, error)
	SettleFn   func(context.Context, int64, model.PurchaseVerification) (model.PurchaseStatus, error)
	Settled    []SettleCall
	mu         sync.Mutex
	batchCalls int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// PurchasesForProcessing returns batches from configured queue.
func (s *WorkerFacadeStub) PurchasesForProcessing(ctx context.Context, limit int) ([]model.Purchase, error) {
	if s.BatchFn != nil {
		return s.BatchFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.batchCalls, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// VerifyPurchase returns configured verification data.
func (s *WorkerFacadeStub) VerifyPurchase(ctx context.Context, number string) (*model.PurchaseVerification, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, number)
	}
	amount := decimal.NewFromInt(5)
	return &model.PurchaseVerification{Number: number, Status: model.VerificationStatusProcessed, Amount: &amount}, nil
}

// SettlePurchase records settle requests.
func (s *WorkerFacadeStub) SettlePurchase(ctx context.Context, purchaseID int64, v model.PurchaseVerification) (model.PurchaseStatus, error) {
	if s.SettleFn != nil {
		return s.SettleFn(ctx, purchaseID, v)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Settled = append(s.Settled, SettleCall{PurchaseID: purchaseID, Verification: v})
	return model.PurchaseStatusProcessed, nil
}

// VerifierStub answers purchase verification requests for tests.
type VerifierStub struct {
	VerifyFn     func(context.Context, string) (*model.PurchaseVerification, error)
	Verification *model.PurchaseVerification
	Err          error
}

// Verify returns configured response or default processed status.
func (s VerifierStub) Verify(ctx context.Context, number string) (*model.PurchaseVerification, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, number)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Verification != nil {
		return s.Verification, nil
	}
	return &model.PurchaseVerification{Number: number, Status: model.VerificationStatusProcessed}, nil
}
