package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/loyaltyengine/internal/domain/errors"
	"github.com/polkiloo/loyaltyengine/internal/domain/model"
)

const uniqueViolation = "23505"

type customerRepository struct {
	storage *Storage
}

func (r *customerRepository) Create(ctx context.Context, login, passwordHash string) (*model.Customer, error) {
	const query = `INSERT INTO customers (login, password_hash) VALUES ($1, $2) RETURNING id, created_at`
	var c model.Customer
	err := r.storage.pool.QueryRow(ctx, query, login, passwordHash).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	c.Login = login
	c.PasswordHash = passwordHash
	return &c, nil
}

func (r *customerRepository) GetByLogin(ctx context.Context, login string) (*model.Customer, error) {
	const query = `SELECT id, login, password_hash, created_at FROM customers WHERE login=$1`
	return r.getOne(ctx, query, login)
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	const query = `SELECT id, login, password_hash, created_at FROM customers WHERE id=$1`
	return r.getOne(ctx, query, id)
}

func (r *customerRepository) getOne(ctx context.Context, query string, arg any) (*model.Customer, error) {
	var c model.Customer
	err := r.storage.pool.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Login, &c.PasswordHash, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
