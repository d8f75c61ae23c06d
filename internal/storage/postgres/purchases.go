package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/loyaltyengine/internal/domain/errors"
	"github.com/polkiloo/loyaltyengine/internal/domain/model"
)

const purchaseColumns = `id, customer_id, number, status, business_id, amount::TEXT, points, uploaded_at, updated_at`

type purchaseRepository struct {
	storage *Storage
}

func scanPurchase(row rowScanner) (model.Purchase, error) {
	var (
		p      model.Purchase
		amount *string
	)
	if err := row.Scan(&p.ID, &p.CustomerID, &p.Number, &p.Status, &p.BusinessID, &amount, &p.Points, &p.UploadedAt, &p.UpdatedAt); err != nil {
		return model.Purchase{}, err
	}
	var err error
	if p.Amount, err = decimalFromText(amount); err != nil {
		return model.Purchase{}, err
	}
	return p, nil
}

func (r *purchaseRepository) Create(ctx context.Context, customerID int64, number string) (*model.Purchase, bool, error) {
	const query = `INSERT INTO purchases (customer_id, number, status) VALUES ($1, $2, $3)
                   ON CONFLICT (number) DO NOTHING
                   RETURNING id, status, uploaded_at, updated_at`
	var p model.Purchase
	err := r.storage.pool.QueryRow(ctx, query, customerID, number, model.PurchaseStatusNew).Scan(&p.ID, &p.Status, &p.UploadedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			existing, err := r.GetByNumber(ctx, number)
			if err != nil {
				return nil, false, err
			}
			if existing.CustomerID != customerID {
				return existing, false, domainErrors.ErrAlreadyExists
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	p.CustomerID = customerID
	p.Number = number
	return &p, true, nil
}

func (r *purchaseRepository) GetByNumber(ctx context.Context, number string) (*model.Purchase, error) {
	const query = `SELECT ` + purchaseColumns + ` FROM purchases WHERE number=$1`
	p, err := scanPurchase(r.storage.pool.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *purchaseRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.Purchase, error) {
	const query = `SELECT ` + purchaseColumns + ` FROM purchases WHERE customer_id=$1 ORDER BY uploaded_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SelectBatchForProcessing claims up to limit unfinished purchases. Rows
// locked by another worker are skipped.
func (r *purchaseRepository) SelectBatchForProcessing(ctx context.Context, limit int) ([]model.Purchase, error) {
	const selectQuery = `SELECT ` + purchaseColumns + `
                         FROM purchases
                         WHERE status IN ('NEW', 'PROCESSING')
                         ORDER BY uploaded_at
                         LIMIT $1
                         FOR UPDATE SKIP LOCKED`

	var purchases []model.Purchase
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanPurchase(rows)
			if err != nil {
				return err
			}
			purchases = append(purchases, p)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		rows.Close()

		for i := range purchases {
			if purchases[i].Status == model.PurchaseStatusProcessing {
				continue
			}
			if _, err := tx.Exec(ctx, `UPDATE purchases SET status='PROCESSING', updated_at=NOW() WHERE id=$1`, purchases[i].ID); err != nil {
				return err
			}
			purchases[i].Status = model.PurchaseStatusProcessing
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return purchases, nil
}

func (r *purchaseRepository) Complete(ctx context.Context, purchaseID int64, completion model.PurchaseCompletion) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const updateQuery = `UPDATE purchases SET status=$1, amount=$2::NUMERIC, points=$3, business_id=$4, updated_at=NOW()
                             WHERE id=$5 RETURNING customer_id, number`

		var points *int64
		if completion.Status == model.PurchaseStatusProcessed {
			points = &completion.Points
		}

		var (
			customerID int64
			number     string
		)
		err := tx.QueryRow(ctx, updateQuery, completion.Status, textFromDecimal(completion.Amount), points, completion.BusinessID, purchaseID).
			Scan(&customerID, &number)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		if completion.Status != model.PurchaseStatusProcessed || completion.Points <= 0 {
			return nil
		}
		_, err = insertTransaction(ctx, tx, model.LoyaltyTransaction{
			CustomerID:      customerID,
			BusinessID:      completion.BusinessID,
			Points:          completion.Points,
			Description:     "Purchase " + number,
			TransactionType: model.TransactionTypeAccrual,
		})
		return err
	})
}
