package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/loyaltyengine/internal/domain/errors"
	"github.com/polkiloo/loyaltyengine/internal/domain/loyalty"
	"github.com/polkiloo/loyaltyengine/internal/domain/model"
	"github.com/polkiloo/loyaltyengine/internal/domain/repository"
)

// CustomerRepositoryStub stores customers in-memory for tests.
type CustomerRepositoryStub struct {
	Customers map[string]*model.Customer
	ByID      map[int64]*model.Customer
	Next      int64
	Err       error
}

// NewCustomerRepositoryStub constructs stub repository with initialized maps.
func NewCustomerRepositoryStub() *CustomerRepositoryStub {
	return &CustomerRepositoryStub{
		Customers: make(map[string]*model.Customer),
		ByID:      make(map[int64]*model.Customer),
		Next:      1,
	}
}

// Create registers customer unless already exists or stub has explicit error.
func (s *CustomerRepositoryStub) Create(ctx context.Context, login, passwordHash string) (*model.Customer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Customers == nil {
		s.Customers = make(map[string]*model.Customer)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.Customer)
	}
	if _, exists := s.Customers[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	customer := &model.Customer{ID: s.Next, Login: login, PasswordHash: passwordHash, CreatedAt: time.Now()}
	s.Next++
	s.Customers[login] = customer
	s.ByID[customer.ID] = customer
	return customer, nil
}

// GetByLogin fetches customer by login or returns not found.
func (s *CustomerRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.Customer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if customer, ok := s.Customers[login]; ok {
		return customer, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches customer by identifier or returns not found.
func (s *CustomerRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if customer, ok := s.ByID[id]; ok {
		return customer, nil
	}
	return nil, domainErrors.ErrNotFound
}

// CompleteCall stores information about Complete invocations.
type CompleteCall struct {
	PurchaseID int64
	Completion model.PurchaseCompletion
}

// PurchaseRepositoryStub allows tests to customize behaviour.
type PurchaseRepositoryStub struct {
	CreateFn                   func(context.Context, int64, string) (*model.Purchase, bool, error)
	GetByNumberFn              func(context.Context, string) (*model.Purchase, error)
	ListByCustomerFn           func(context.Context, int64) ([]model.Purchase, error)
	SelectBatchForProcessingFn func(context.Context, int) ([]model.Purchase, error)
	CompleteFn                 func(context.Context, int64, model.PurchaseCompletion) error

	Created []struct {
		CustomerID int64
		Number     string
	}
	Purchases     []model.Purchase
	Processing    []model.Purchase
	CompleteCalls []CompleteCall
}

// Create tracks invocations and returns configured responses.
func (s *PurchaseRepositoryStub) Create(ctx context.Context, customerID int64, number string) (*model.Purchase, bool, error) {
	s.Created = append(s.Created, struct {
		CustomerID int64
		Number     string
	}{customerID, number})
	if s.CreateFn != nil {
		return s.CreateFn(ctx, customerID, number)
	}
	purchase := &model.Purchase{ID: 1, CustomerID: customerID, Number: number, Status: model.PurchaseStatusNew}
	return purchase, true, nil
}

// GetByNumber returns matched purchase either via override or stored slice.
func (s *PurchaseRepositoryStub) GetByNumber(ctx context.Context, number string) (*model.Purchase, error) {
	if s.GetByNumberFn != nil {
		return s.GetByNumberFn(ctx, number)
	}
	for _, p := range s.Purchases {
		if p.Number == number {
			purchase := p
			return &purchase, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListByCustomer returns purchases from configured slice.
func (s *PurchaseRepositoryStub) ListByCustomer(ctx context.Context, customerID int64) ([]model.Purchase, error) {
	if s.ListByCustomerFn != nil {
		return s.ListByCustomerFn(ctx, customerID)
	}
	return s.Purchases, nil
}

// SelectBatchForProcessing returns queued purchases for processing.
func (s *PurchaseRepositoryStub) SelectBatchForProcessing(ctx context.Context, limit int) ([]model.Purchase, error) {
	if s.SelectBatchForProcessingFn != nil {
		return s.SelectBatchForProcessingFn(ctx, limit)
	}
	return s.Processing, nil
}

// Complete records completion requests.
func (s *PurchaseRepositoryStub) Complete(ctx context.Context, purchaseID int64, completion model.PurchaseCompletion) error {
	if s.CompleteFn != nil {
		return s.CompleteFn(ctx, purchaseID, completion)
	}
	s.CompleteCalls = append(s.CompleteCalls, CompleteCall{PurchaseID: purchaseID, Completion: completion})
	return nil
}

// LedgerStore is an in-memory ledger with redemption history. A single
// mutex serializes writers so Redeem behaves like the row-locked database
// version.
type LedgerStore struct {
	mu          sync.Mutex
	entries     []model.LoyaltyTransaction
	redemptions []model.RedeemedReward
	nextID      int64

	// Customers lists known customers; nil accepts everyone.
	Customers map[int64]bool
	// Err is returned from every operation when set.
	Err error
	// RedeemDelay holds Redeem inside the lock before it writes.
	RedeemDelay time.Duration
}

// NewLedgerStore constructs an empty ledger.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{nextID: 1}
}

// Credit appends an accrual for tests that need a starting balance.
func (s *LedgerStore) Credit(customerID, points int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendLocked(model.LoyaltyTransaction{
		CustomerID:      customerID,
		Points:          points,
		Description:     "Test credit",
		TransactionType: model.TransactionTypeAccrual,
	})
}

// Entries returns a copy of all ledger entries in insertion order.
func (s *LedgerStore) Entries() []model.LoyaltyTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.LoyaltyTransaction(nil), s.entries...)
}

// RedeemedRewards returns a copy of all stored redemptions in insertion order.
func (s *LedgerStore) RedeemedRewards() []model.RedeemedReward {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.RedeemedReward(nil), s.redemptions...)
}

// SumPoints returns the customer's current balance.
func (s *LedgerStore) SumPoints(ctx context.Context, customerID int64) (int64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sumLocked(customerID), nil
}

// Summary aggregates the customer's entries.
func (s *LedgerStore) Summary(ctx context.Context, customerID int64) (*model.BalanceSummary, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	summary := &model.BalanceSummary{}
	for _, e := range s.entries {
		if e.CustomerID != customerID {
			continue
		}
		summary.Current += e.Points
		if e.Points > 0 {
			summary.Earned += e.Points
		} else {
			summary.Redeemed -= e.Points
		}
	}
	return summary, nil
}

// InsertTransaction appends an entry.
func (s *LedgerStore) InsertTransaction(ctx context.Context, tx model.LoyaltyTransaction) (*model.LoyaltyTransaction, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := s.appendLocked(tx)
	return &saved, nil
}

// ListByCustomer returns the customer's entries, newest first.
func (s *LedgerStore) ListByCustomer(ctx context.Context, customerID int64) ([]model.LoyaltyTransaction, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.LoyaltyTransaction
	for _, e := range s.entries {
		if e.CustomerID == customerID {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

// Redeem checks the balance and stores both the redemption and its debit
// while holding the lock.
func (s *LedgerStore) Redeem(ctx context.Context, reward model.Reward, redemption model.RedeemedReward) (*model.RedeemedReward, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.RedeemDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.RedeemDelay):
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Customers != nil && !s.Customers[redemption.CustomerID] {
		return nil, domainErrors.ErrUnauthenticated
	}

	if !loyalty.IsEligibleForReward(s.sumLocked(redemption.CustomerID), reward.PointsCost) {
		return nil, domainErrors.ErrInsufficientPoints
	}

	redemption.ID = int64(len(s.redemptions) + 1)
	s.redemptions = append(s.redemptions, redemption)
	s.appendLocked(model.LoyaltyTransaction{
		CustomerID:      redemption.CustomerID,
		BusinessID:      redemption.BusinessID,
		Points:          -reward.PointsCost,
		Description:     "Redeemed " + reward.Title,
		TransactionType: model.TransactionTypeRedemption,
	})
	return &redemption, nil
}

// Redemptions exposes the redemption history as a RedemptionRepository.
func (s *LedgerStore) Redemptions() repository.RedemptionRepository {
	return redemptionView{store: s}
}

func (s *LedgerStore) sumLocked(customerID int64) int64 {
	var total int64
	for _, e := range s.entries {
		if e.CustomerID == customerID {
			total += e.Points
		}
	}
	return total
}

func (s *LedgerStore) appendLocked(tx model.LoyaltyTransaction) model.LoyaltyTransaction {
	if s.nextID == 0 {
		s.nextID = 1
	}
	tx.ID = s.nextID
	s.nextID++
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	s.entries = append(s.entries, tx)
	return tx
}

type redemptionView struct {
	store *LedgerStore
}

func (v redemptionView) ListByCustomer(ctx context.Context, customerID int64) ([]model.RedeemedReward, error) {
	if v.store.Err != nil {
		return nil, v.store.Err
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	var result []model.RedeemedReward
	for i := len(v.store.redemptions) - 1; i >= 0; i-- {
		if v.store.redemptions[i].CustomerID == customerID {
			result = append(result, v.store.redemptions[i])
		}
	}
	return result, nil
}

// RewardCatalogStub serves rewards from a map.
type RewardCatalogStub struct {
	Rewards map[int64]model.Reward
	Err     error
	ListFn  func(context.Context, *int64) ([]model.Reward, error)
}

// GetReward returns the active reward or not found.
func (s RewardCatalogStub) GetReward(ctx context.Context, id int64) (*model.Reward, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	reward, ok := s.Rewards[id]
	if !ok || !reward.IsActive {
		return nil, domainErrors.ErrNotFound
	}
	return &reward, nil
}

// ListRewards returns rewards available at the business ordered by ID.
func (s RewardCatalogStub) ListRewards(ctx context.Context, businessID *int64) ([]model.Reward, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, businessID)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.Reward
	for _, r := range s.Rewards {
		if r.AvailableAt(businessID) {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// NotifierStub records notifications.
type NotifierStub struct {
	mu   sync.Mutex
	sent []model.Notification
}

// Notify stores the notification.
func (s *NotifierStub) Notify(n model.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
}

// Sent returns a copy of recorded notifications.
func (s *NotifierStub) Sent() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Notification(nil), s.sent...)
}

var (
	_ repository.CustomerRepository = (*CustomerRepositoryStub)(nil)
	_ repository.PurchaseRepository = (*PurchaseRepositoryStub)(nil)
	_ repository.LedgerRepository   = (*LedgerStore)(nil)
	_ repository.RewardRepository   = (*RewardRepositoryStub)(nil)
)

// RewardRepositoryStub serves the catalog from a slice.
type RewardRepositoryStub struct {
	Items []model.Reward
	Err   error
}

// GetByID returns the reward with id regardless of its active flag.
func (s *RewardRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Reward, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, r := range s.Items {
		if r.ID == id {
			reward := r
			return &reward, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListActive returns active rewards available at the business.
func (s *RewardRepositoryStub) ListActive(ctx context.Context, businessID *int64) ([]model.Reward, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.Reward
	for _, r := range s.Items {
		if r.AvailableAt(businessID) {
			result = append(result, r)
		}
	}
	return result, nil
}
