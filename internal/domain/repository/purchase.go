package repository

import (
	"context"

	"github.com/polkiloo/loyaltyengine/internal/domain/model"
)

// PurchaseRepository describes persistence operations with purchases.
type PurchaseRepository interface {
	Create(ctx context.Context, customerID int64, number string) (*model.Purchase, bool, error)
	GetByNumber(ctx context.Context, number string) (*model.Purchase, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]model.Purchase, error)
	SelectBatchForProcessing(ctx context.Context, limit int) ([]model.Purchase, error)
	// Complete stores the verification outcome and, for processed purchases
	// with points, appends the accrual to the ledger in the same transaction.
	Complete(ctx context.Context, purchaseID int64, completion model.PurchaseCompletion) error
}
