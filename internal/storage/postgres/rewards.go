package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/loyaltyengine/internal/domain/errors"
	"github.com/polkiloo/loyaltyengine/internal/domain/model"
)

const rewardColumns = `id, title, description, points_cost, is_global, business_id, is_active, kind, percent_off, amount_off::TEXT, item_name`

type rewardRepository struct {
	storage *Storage
}

type redemptionRepository struct {
	storage *Storage
}

func scanReward(row rowScanner) (model.Reward, error) {
	var (
		rw        model.Reward
		amountOff *string
	)
	err := row.Scan(&rw.ID, &rw.Title, &rw.Description, &rw.PointsCost, &rw.IsGlobal, &rw.BusinessID, &rw.IsActive,
		&rw.Terms.Kind, &rw.Terms.PercentOff, &amountOff, &rw.Terms.ItemName)
	if err != nil {
		return model.Reward{}, err
	}
	if rw.Terms.AmountOff, err = decimalFromText(amountOff); err != nil {
		return model.Reward{}, err
	}
	return rw, nil
}

func (r *rewardRepository) GetByID(ctx context.Context, id int64) (*model.Reward, error) {
	const query = `SELECT ` + rewardColumns + ` FROM rewards WHERE id=$1`
	rw, err := scanReward(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &rw, nil
}

// ListActive returns global rewards plus those scoped to businessID.
func (r *rewardRepository) ListActive(ctx context.Context, businessID *int64) ([]model.Reward, error) {
	const query = `SELECT ` + rewardColumns + ` FROM rewards
                   WHERE is_active AND (is_global OR business_id=$1)
                   ORDER BY points_cost, id`
	rows, err := r.storage.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Reward
	for rows.Next() {
		rw, err := scanReward(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *redemptionRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.RedeemedReward, error) {
	const query = `SELECT id, reward_id, customer_id, business_id, points_used, claim_code, redemption_date, expiration_date, is_used
                   FROM redeemed_rewards WHERE customer_id=$1 ORDER BY redemption_date DESC, id DESC`
	rows, err := r.storage.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.RedeemedReward
	for rows.Next() {
		var rr model.RedeemedReward
		if err := rows.Scan(&rr.ID, &rr.RewardID, &rr.CustomerID, &rr.BusinessID, &rr.PointsUsed, &rr.ClaimCode,
			&rr.RedemptionDate, &rr.ExpirationDate, &rr.IsUsed); err != nil {
			return nil, err
		}
		result = append(result, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
