package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/loyaltyengine/internal/domain/repository"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// queryRower is satisfied by both the pool and an open transaction.
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

var _ repository.Factory = (*Storage)(nil)

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("database schema ready")

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Customers() repository.CustomerRepository {
	return &customerRepository{storage: s}
}

func (s *Storage) Purchases() repository.PurchaseRepository {
	return &purchaseRepository{storage: s}
}

func (s *Storage) Ledger() repository.LedgerRepository {
	return &ledgerRepository{storage: s}
}

func (s *Storage) Rewards() repository.RewardRepository {
	return &rewardRepository{storage: s}
}

func (s *Storage) Redemptions() repository.RedemptionRepository {
	return &redemptionRepository{storage: s}
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
        id BIGSERIAL PRIMARY KEY,
        login TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE TABLE IF NOT EXISTS purchases (
        id BIGSERIAL PRIMARY KEY,
        customer_id BIGINT NOT NULL REFERENCES customers(id),
        number TEXT UNIQUE NOT NULL,
        status TEXT NOT NULL,
        business_id BIGINT,
        amount NUMERIC(14, 2),
        points BIGINT,
        uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE TABLE IF NOT EXISTS rewards (
        id BIGSERIAL PRIMARY KEY,
        title TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        points_cost BIGINT NOT NULL CHECK (points_cost >= 0),
        is_global BOOLEAN NOT NULL DEFAULT FALSE,
        business_id BIGINT,
        is_active BOOLEAN NOT NULL DEFAULT TRUE,
        kind TEXT NOT NULL CHECK (kind IN ('percent_off', 'amount_off', 'free_item')),
        percent_off INTEGER CHECK (percent_off BETWEEN 1 AND 100),
        amount_off NUMERIC(12, 2) CHECK (amount_off > 0),
        item_name TEXT,
        CHECK (is_global OR business_id IS NOT NULL),
        CHECK (num_nonnulls(percent_off, amount_off, item_name) = 1)
    )`,
	`CREATE TABLE IF NOT EXISTS loyalty_transactions (
        id BIGSERIAL PRIMARY KEY,
        customer_id BIGINT NOT NULL REFERENCES customers(id),
        business_id BIGINT,
        points BIGINT NOT NULL,
        description TEXT NOT NULL,
        transaction_type TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        CHECK ((transaction_type = 'accrual' AND points >= 0) OR (transaction_type = 'redemption' AND points <= 0))
    )`,
	`CREATE TABLE IF NOT EXISTS redeemed_rewards (
        id BIGSERIAL PRIMARY KEY,
        reward_id BIGINT NOT NULL REFERENCES rewards(id),
        customer_id BIGINT NOT NULL REFERENCES customers(id),
        business_id BIGINT,
        points_used BIGINT NOT NULL,
        claim_code TEXT UNIQUE NOT NULL,
        redemption_date TIMESTAMPTZ NOT NULL,
        expiration_date TIMESTAMPTZ NOT NULL,
        is_used BOOLEAN NOT NULL DEFAULT FALSE
    )`,
	`CREATE INDEX IF NOT EXISTS idx_purchases_customer ON purchases(customer_id, uploaded_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_ledger_customer ON loyalty_transactions(customer_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_redeemed_customer ON redeemed_rewards(customer_id, redemption_date DESC)`,
	`CREATE OR REPLACE FUNCTION loyalty_transactions_append_only() RETURNS trigger AS $$
    BEGIN
        RAISE EXCEPTION 'loyalty_transactions is append-only';
    END;
    $$ LANGUAGE plpgsql`,
	`CREATE OR REPLACE TRIGGER loyalty_transactions_append_only
        BEFORE UPDATE OR DELETE ON loyalty_transactions
        FOR EACH ROW EXECUTE FUNCTION loyalty_transactions_append_only()`,
}

func (s *Storage) initSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}

// NUMERIC columns travel as text so amounts keep their exact value.
func decimalFromText(v *string) (*decimal.Decimal, error) {
	if v == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*v)
	if err != nil {
		return nil, fmt.Errorf("parse numeric %q: %w", *v, err)
	}
	return &d, nil
}

func textFromDecimal(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
