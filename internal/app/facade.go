package app

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/loyaltyengine/internal/domain/errors"
	"github.com/polkiloo/loyaltyengine/internal/domain/model"
	"github.com/polkiloo/loyaltyengine/internal/usecase"
)

type PurchaseVerifier interface {
	Verify(ctx context.Context, number string) (*model.PurchaseVerification, error)
}

type LoyaltyFacade struct {
	auth      *usecase.AuthUseCase
	purchases *usecase.PurchaseUseCase
	loyalty   *usecase.LoyaltyUseCase
	verifier  PurchaseVerifier
	logger    *slog.Logger
}

func NewLoyaltyFacade(
	auth *usecase.AuthUseCase,
	purchases *usecase.PurchaseUseCase,
	loyalty *usecase.LoyaltyUseCase,
	verifier PurchaseVerifier,
	logger *slog.Logger,
) *LoyaltyFacade {
	return &LoyaltyFacade{auth: auth, purchases: purchases, loyalty: loyalty, verifier: verifier, logger: logger}
}

func (f *LoyaltyFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password)
	return token, err
}

func (f *LoyaltyFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *LoyaltyFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *LoyaltyFacade) UploadPurchase(ctx context.Context, customerID int64, number string) (*model.Purchase, bool, error) {
	return f.purchases.Register(ctx, customerID, number)
}

func (f *LoyaltyFacade) Purchases(ctx context.Context, customerID int64) ([]model.Purchase, error) {
	return f.purchases.ListByCustomer(ctx, customerID)
}

func (f *LoyaltyFacade) PurchasesForProcessing(ctx context.Context, limit int) ([]model.Purchase, error) {
	return f.purchases.SelectBatchForProcessing(ctx, limit)
}

func (f *LoyaltyFacade) VerifyPurchase(ctx context.Context, number string) (*model.PurchaseVerification, error) {
	return f.verifier.Verify(ctx, number)
}

func (f *LoyaltyFacade) SettlePurchase(ctx context.Context, purchaseID int64, v model.PurchaseVerification) (model.PurchaseStatus, error) {
	return f.purchases.Settle(ctx, purchaseID, v)
}

func (f *LoyaltyFacade) Overview(ctx context.Context, customerID int64) (*model.AccountOverview, error) {
	return f.loyalty.Overview(ctx, customerID)
}

func (f *LoyaltyFacade) Tier(ctx context.Context, customerID int64) (*model.TierResult, error) {
	return f.loyalty.Tier(ctx, customerID)
}

func (f *LoyaltyFacade) Transactions(ctx context.Context, customerID int64) ([]model.LoyaltyTransaction, error) {
	return f.loyalty.Transactions(ctx, customerID)
}

func (f *LoyaltyFacade) Redemptions(ctx context.Context, customerID int64) ([]model.RedeemedReward, error) {
	return f.loyalty.Redemptions(ctx, customerID)
}

func (f *LoyaltyFacade) Rewards(ctx context.Context, businessID *int64) ([]model.Reward, error) {
	return f.loyalty.Rewards(ctx, businessID)
}

func (f *LoyaltyFacade) Discount(points int64, rate *decimal.Decimal) (decimal.Decimal, error) {
	return f.loyalty.Discount(points, rate)
}

// RedeemReward never returns an error: failures are folded into the result
// with a client-safe message. Store details only reach the log.
func (f *LoyaltyFacade) RedeemReward(ctx context.Context, rewardID, customerID int64) model.RedemptionResult {
	redeemed, err := f.loyalty.Redeem(ctx, rewardID, customerID)
	if err == nil {
		return model.RedemptionResult{Success: true, RedeemedReward: redeemed}
	}

	kind := domainErrors.KindOf(err)
	if kind == domainErrors.KindPersistenceFailure {
		f.logger.Error("redeem reward failed",
			slog.Int64("reward_id", rewardID),
			slog.Int64("customer_id", customerID),
			slog.String("error", err.Error()),
		)
	}
	return model.RedemptionResult{
		Error: &model.RedemptionError{Kind: string(kind), Message: usecase.RedemptionMessage(kind)},
	}
}
