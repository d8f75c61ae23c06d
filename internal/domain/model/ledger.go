package model

import "time"

// TransactionType distinguishes earned from spent points.
type TransactionType string

const (
	TransactionTypeAccrual    TransactionType = "accrual"
	TransactionTypeRedemption TransactionType = "redemption"
)

// LoyaltyTransaction is one immutable entry of the points ledger.
// Points is positive for accruals and negative for redemptions.
type LoyaltyTransaction struct {
	ID              int64
	CustomerID      int64
	BusinessID      *int64
	Points          int64
	Description     string
	TransactionType TransactionType
	CreatedAt       time.Time
}

// BalanceSummary aggregates a customer's ledger.
type BalanceSummary struct {
	Current  int64
	Earned   int64
	Redeemed int64
}

// AccountOverview is the balance summary together with the tier it earns.
type AccountOverview struct {
	Balance BalanceSummary
	Tier    TierResult
}
