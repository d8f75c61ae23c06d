package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/loyaltyengine/internal/domain/errors"
	"github.com/polkiloo/loyaltyengine/internal/domain/loyalty"
	"github.com/polkiloo/loyaltyengine/internal/domain/model"
)

type ledgerRepository struct {
	storage *Storage
}

func sumPoints(ctx context.Context, q queryRower, customerID int64) (int64, error) {
	const query = `SELECT COALESCE(SUM(points), 0)::BIGINT AS balance FROM loyalty_transactions WHERE customer_id=$1`
	var balance int64
	if err := q.QueryRow(ctx, query, customerID).Scan(&balance); err != nil {
		return 0, err
	}
	return balance, nil
}

func insertTransaction(ctx context.Context, q queryRower, t model.LoyaltyTransaction) (*model.LoyaltyTransaction, error) {
	const query = `INSERT INTO loyalty_transactions (customer_id, business_id, points, description, transaction_type)
                   VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := q.QueryRow(ctx, query, t.CustomerID, t.BusinessID, t.Points, t.Description, t.TransactionType).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ledgerRepository) SumPoints(ctx context.Context, customerID int64) (int64, error) {
	return sumPoints(ctx, r.storage.pool, customerID)
}

func (r *ledgerRepository) Summary(ctx context.Context, customerID int64) (*model.BalanceSummary, error) {
	const query = `SELECT COALESCE(SUM(points), 0)::BIGINT AS current,
                          COALESCE(SUM(points) FILTER (WHERE points > 0), 0)::BIGINT AS earned,
                          COALESCE(-SUM(points) FILTER (WHERE points < 0), 0)::BIGINT AS redeemed
                   FROM loyalty_transactions WHERE customer_id=$1`
	var s model.BalanceSummary
	if err := r.storage.pool.QueryRow(ctx, query, customerID).Scan(&s.Current, &s.Earned, &s.Redeemed); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ledgerRepository) InsertTransaction(ctx context.Context, t model.LoyaltyTransaction) (*model.LoyaltyTransaction, error) {
	return insertTransaction(ctx, r.storage.pool, t)
}

func (r *ledgerRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.LoyaltyTransaction, error) {
	const query = `SELECT id, customer_id, business_id, points, description, transaction_type, created_at
                   FROM loyalty_transactions WHERE customer_id=$1 ORDER BY created_at DESC, id DESC`
	rows, err := r.storage.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.LoyaltyTransaction
	for rows.Next() {
		var t model.LoyaltyTransaction
		if err := rows.Scan(&t.ID, &t.CustomerID, &t.BusinessID, &t.Points, &t.Description, &t.TransactionType, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Redeem locks the customer row so that concurrent redemptions of the same
// customer see each other's debits, then re-reads the reward, checks the
// balance and writes the redemption with its debit entry. The reward row
// read inside the transaction decides the cost; the caller's copy may come
// from a cache.
func (r *ledgerRepository) Redeem(ctx context.Context, reward model.Reward, redemption model.RedeemedReward) (*model.RedeemedReward, error) {
	result := redemption
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const lockCustomer = `SELECT id FROM customers WHERE id=$1 FOR UPDATE`
		var id int64
		if err := tx.QueryRow(ctx, lockCustomer, redemption.CustomerID).Scan(&id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrUnauthenticated
			}
			return err
		}

		const lockReward = `SELECT title, points_cost, business_id, is_active FROM rewards WHERE id=$1 FOR SHARE`
		current := model.Reward{ID: reward.ID}
		err := tx.QueryRow(ctx, lockReward, reward.ID).Scan(&current.Title, &current.PointsCost, &current.BusinessID, &current.IsActive)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if !current.IsActive {
			return domainErrors.ErrNotFound
		}
		result.PointsUsed = current.PointsCost
		result.BusinessID = current.BusinessID

		balance, err := sumPoints(ctx, tx, redemption.CustomerID)
		if err != nil {
			return err
		}
		if !loyalty.IsEligibleForReward(balance, current.PointsCost) {
			return domainErrors.ErrInsufficientPoints
		}

		const insertRedemption = `INSERT INTO redeemed_rewards
                                  (reward_id, customer_id, business_id, points_used, claim_code, redemption_date, expiration_date)
                                  VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
		err = tx.QueryRow(ctx, insertRedemption,
			result.RewardID,
			result.CustomerID,
			result.BusinessID,
			result.PointsUsed,
			result.ClaimCode,
			result.RedemptionDate,
			result.ExpirationDate,
		).Scan(&result.ID)
		if err != nil {
			return err
		}

		_, err = insertTransaction(ctx, tx, model.LoyaltyTransaction{
			CustomerID:      result.CustomerID,
			BusinessID:      current.BusinessID,
			Points:          -current.PointsCost,
			Description:     "Redeemed: " + current.Title,
			TransactionType: model.TransactionTypeRedemption,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
