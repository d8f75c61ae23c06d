package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/loyaltyengine/internal/domain/errors"
	"github.com/polkiloo/loyaltyengine/internal/domain/loyalty"
	"github.com/polkiloo/loyaltyengine/internal/domain/model"
	"github.com/polkiloo/loyaltyengine/internal/domain/repository"
)

// RewardCatalog resolves redeemable rewards.
type RewardCatalog interface {
	GetReward(ctx context.Context, id int64) (*model.Reward, error)
	ListRewards(ctx context.Context, businessID *int64) ([]model.Reward, error)
}

// Notifier accepts user-facing notifications. Notify must not block.
type Notifier interface {
	Notify(n model.Notification)
}

// LoyaltyOptions tunes the loyalty use case.
type LoyaltyOptions struct {
	// RedemptionTimeout bounds a whole redemption; zero disables it.
	RedemptionTimeout time.Duration
	// DiscountRate is used when a discount request carries no rate.
	DiscountRate decimal.Decimal
}

// LoyaltyUseCase exposes balances, tiers, discounts and reward redemption.
type LoyaltyUseCase struct {
	ledger      repository.LedgerRepository
	redemptions repository.RedemptionRepository
	catalog     RewardCatalog
	notifier    Notifier
	opts        LoyaltyOptions

	now          func() time.Time
	newClaimCode func() string
}

// NewLoyaltyUseCase constructs LoyaltyUseCase.
func NewLoyaltyUseCase(
	ledger repository.LedgerRepository,
	redemptions repository.RedemptionRepository,
	catalog RewardCatalog,
	notifier Notifier,
	opts LoyaltyOptions,
) *LoyaltyUseCase {
	if !opts.DiscountRate.IsPositive() {
		opts.DiscountRate = loyalty.DefaultConversionRate
	}
	return &LoyaltyUseCase{
		ledger:       ledger,
		redemptions:  redemptions,
		catalog:      catalog,
		notifier:     notifier,
		opts:         opts,
		now:          time.Now,
		newClaimCode: uuid.NewString,
	}
}

// Overview returns the customer's balance summary and tier.
func (u *LoyaltyUseCase) Overview(ctx context.Context, customerID int64) (*model.AccountOverview, error) {
	summary, err := u.ledger.Summary(ctx, customerID)
	if err != nil {
		return nil, err
	}
	tier, err := loyalty.CalculateRewardTier(summary.Current)
	if err != nil {
		return nil, fmt.Errorf("classify balance %d: %w", summary.Current, err)
	}
	return &model.AccountOverview{Balance: *summary, Tier: tier}, nil
}

// Tier classifies the customer's current balance.
func (u *LoyaltyUseCase) Tier(ctx context.Context, customerID int64) (*model.TierResult, error) {
	balance, err := u.ledger.SumPoints(ctx, customerID)
	if err != nil {
		return nil, err
	}
	tier, err := loyalty.CalculateRewardTier(balance)
	if err != nil {
		return nil, fmt.Errorf("classify balance %d: %w", balance, err)
	}
	return &tier, nil
}

// Transactions returns the customer's ledger entries, newest first.
func (u *LoyaltyUseCase) Transactions(ctx context.Context, customerID int64) ([]model.LoyaltyTransaction, error) {
	return u.ledger.ListByCustomer(ctx, customerID)
}

// Redemptions returns the customer's redeemed rewards, newest first.
func (u *LoyaltyUseCase) Redemptions(ctx context.Context, customerID int64) ([]model.RedeemedReward, error) {
	return u.redemptions.ListByCustomer(ctx, customerID)
}

// Rewards lists active rewards available at businessID, or platform-wide
// rewards when businessID is nil.
func (u *LoyaltyUseCase) Rewards(ctx context.Context, businessID *int64) ([]model.Reward, error) {
	return u.catalog.ListRewards(ctx, businessID)
}

// Discount converts points to a currency discount. A nil rate uses the
// configured default.
func (u *LoyaltyUseCase) Discount(points int64, rate *decimal.Decimal) (decimal.Decimal, error) {
	r := u.opts.DiscountRate
	if rate != nil {
		r = *rate
	}
	return loyalty.CalculateDiscountFromPoints(points, r)
}

// Redeem exchanges the customer's points for a reward. The balance check
// and both writes happen atomically in the ledger. Store failures and
// timeouts are reported as domainErrors.ErrPersistenceFailure.
func (u *LoyaltyUseCase) Redeem(ctx context.Context, rewardID, customerID int64) (*model.RedeemedReward, error) {
	if customerID <= 0 {
		return nil, domainErrors.ErrUnauthenticated
	}
	if u.opts.RedemptionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.opts.RedemptionTimeout)
		defer cancel()
	}

	reward, err := u.catalog.GetReward(ctx, rewardID)
	if err != nil {
		return nil, u.fail(customerID, classify("fetch reward", err))
	}

	redemption := model.NewRedeemedReward(*reward, customerID, u.newClaimCode(), u.now().UTC())
	saved, err := u.ledger.Redeem(ctx, *reward, redemption)
	if err != nil {
		return nil, u.fail(customerID, classify("redeem reward", err))
	}

	u.notifier.Notify(model.Notification{
		CustomerID: customerID,
		Severity:   model.SeveritySuccess,
		Message:    "Redeemed: " + reward.Title,
	})
	return saved, nil
}

func (u *LoyaltyUseCase) fail(customerID int64, err error) error {
	kind := domainErrors.KindOf(err)
	if kind != domainErrors.KindUnauthenticated {
		u.notifier.Notify(model.Notification{
			CustomerID: customerID,
			Severity:   model.SeverityError,
			Message:    RedemptionMessage(kind),
		})
	}
	return err
}

// classify keeps domain failures as they are and marks everything else,
// including deadline expiry, as a persistence failure.
func classify(op string, err error) error {
	if domainErrors.KindOf(err) != domainErrors.KindPersistenceFailure || errors.Is(err, domainErrors.ErrPersistenceFailure) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domainErrors.ErrPersistenceFailure, err)
}

// RedemptionMessage is the customer-facing text for a failed redemption.
func RedemptionMessage(kind domainErrors.Kind) string {
	switch kind {
	case domainErrors.KindNotFound:
		return "Reward not found"
	case domainErrors.KindInsufficientPoints:
		return "Not enough points to redeem this reward"
	case domainErrors.KindUnauthenticated:
		return "Sign in to redeem rewards"
	case domainErrors.KindInvalidArgument:
		return "Invalid redemption request"
	default:
		return "Could not redeem the reward, please try again later"
	}
}
