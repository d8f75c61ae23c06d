package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/loyaltyengine/internal/domain/errors"
	"github.com/polkiloo/loyaltyengine/internal/domain/loyalty"
	"github.com/polkiloo/loyaltyengine/internal/domain/model"
	"github.com/polkiloo/loyaltyengine/internal/domain/repository"
)

// PurchaseUseCase encapsulates the purchase lifecycle: upload, verification
// and crediting of earned points.
type PurchaseUseCase struct {
	purchases repository.PurchaseRepository
}

// NewPurchaseUseCase constructs PurchaseUseCase.
func NewPurchaseUseCase(purchases repository.PurchaseRepository) *PurchaseUseCase {
	return &PurchaseUseCase{purchases: purchases}
}

// Register registers a purchase number for verification. Returns whether it was newly created.
func (u *PurchaseUseCase) Register(ctx context.Context, customerID int64, number string) (*model.Purchase, bool, error) {
	if !ValidatePurchaseNumber(number) {
		return nil, false, domainErrors.ErrInvalidPurchaseNumber
	}
	return u.purchases.Create(ctx, customerID, number)
}

// ListByCustomer returns purchases sorted by upload time.
func (u *PurchaseUseCase) ListByCustomer(ctx context.Context, customerID int64) ([]model.Purchase, error) {
	return u.purchases.ListByCustomer(ctx, customerID)
}

// SelectBatchForProcessing returns pending purchases to verify.
func (u *PurchaseUseCase) SelectBatchForProcessing(ctx context.Context, limit int) ([]model.Purchase, error) {
	return u.purchases.SelectBatchForProcessing(ctx, limit)
}

// Settle applies a verification result to a purchase. Processed purchases
// earn points for the verified amount; unfinished verifications leave the
// purchase in processing. A processed purchase reporting a negative amount
// is closed as invalid so the worker stops polling it.
func (u *PurchaseUseCase) Settle(ctx context.Context, purchaseID int64, v model.PurchaseVerification) (model.PurchaseStatus, error) {
	switch v.Status {
	case model.VerificationStatusInvalid:
		completion := model.PurchaseCompletion{Status: model.PurchaseStatusInvalid, BusinessID: v.BusinessID}
		return model.PurchaseStatusInvalid, u.purchases.Complete(ctx, purchaseID, completion)
	case model.VerificationStatusProcessed:
		amount := decimal.Zero
		if v.Amount != nil {
			amount = *v.Amount
		}
		points, err := loyalty.CalculateLoyaltyPoints(amount)
		if err != nil {
			completion := model.PurchaseCompletion{Status: model.PurchaseStatusInvalid, Amount: &amount, BusinessID: v.BusinessID}
			return model.PurchaseStatusInvalid, u.purchases.Complete(ctx, purchaseID, completion)
		}
		completion := model.PurchaseCompletion{
			Status:     model.PurchaseStatusProcessed,
			Amount:     &amount,
			Points:     points,
			BusinessID: v.BusinessID,
		}
		return model.PurchaseStatusProcessed, u.purchases.Complete(ctx, purchaseID, completion)
	default:
		return model.PurchaseStatusProcessing, nil
	}
}
