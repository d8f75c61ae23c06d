package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/loyaltyengine/internal/domain/errors"
	"github.com/polkiloo/loyaltyengine/internal/domain/model"
	"github.com/polkiloo/loyaltyengine/internal/domain/repository"
	pkgAuth "github.com/polkiloo/loyaltyengine/internal/pkg/auth"
)

// AuthUseCase handles customer sign-up, sign-in and token management.
type AuthUseCase struct {
	customers repository.CustomerRepository
	hasher    pkgAuth.PasswordHasher
	tokens    pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(customers repository.CustomerRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{customers: customers, hasher: hasher, tokens: strategy}
}

// Register creates a new customer and returns an auth token for it. An empty
// login or password is an invalid argument; a taken login is
// domainErrors.ErrAlreadyExists.
func (u *AuthUseCase) Register(ctx context.Context, login, password string) (*model.Customer, string, error) {
	login, ok := normalizeCredentials(login, password)
	if !ok {
		return nil, "", fmt.Errorf("register: %w: login and password are required", domainErrors.ErrInvalidArgument)
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, pkgAuth.ErrPasswordTooLong) {
			return nil, "", fmt.Errorf("register: %w: %w", domainErrors.ErrInvalidArgument, err)
		}
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	customer, err := u.customers.Create(ctx, login, hash)
	if err != nil {
		return nil, "", err
	}
	return u.withToken(customer)
}

// Authenticate checks credentials and returns an auth token. Every mismatch,
// including an unknown login, is reported as domainErrors.ErrInvalidCredentials.
func (u *AuthUseCase) Authenticate(ctx context.Context, login, password string) (*model.Customer, string, error) {
	login, ok := normalizeCredentials(login, password)
	if !ok {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	customer, err := u.customers.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(customer.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	return u.withToken(customer)
}

func (u *AuthUseCase) withToken(customer *model.Customer) (*model.Customer, string, error) {
	token, err := u.tokens.IssueToken(customer.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return customer, token, nil
}

func normalizeCredentials(login, password string) (string, bool) {
	login = strings.TrimSpace(login)
	return login, login != "" && password != ""
}

// ParseToken extracts customer ID from provided token.
func (u *AuthUseCase) ParseToken(token string) (int64, error) {
	if token == "" {
		return 0, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByID fetches customer by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	return u.customers.GetByID(ctx, id)
}
