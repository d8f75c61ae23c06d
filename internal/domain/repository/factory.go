package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Customers() CustomerRepository
	Purchases() PurchaseRepository
	Ledger() LedgerRepository
	Rewards() RewardRepository
	Redemptions() RedemptionRepository
}
