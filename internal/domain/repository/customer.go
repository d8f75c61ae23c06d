package repository

import (
	"context"

	"github.com/polkiloo/loyaltyengine/internal/domain/model"
)

// CustomerRepository describes persistence operations for customers.
type CustomerRepository interface {
	Create(ctx context.Context, login, passwordHash string) (*model.Customer, error)
	GetByLogin(ctx context.Context, login string) (*model.Customer, error)
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
}
