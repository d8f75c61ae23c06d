package dto

import (
	"time"

	"github.com/polkiloo/loyaltyengine/internal/domain/model"
)

// TransactionResponse is one ledger entry.
type TransactionResponse struct {
	ID          int64     `json:"id"`
	Points      int64     `json:"points"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	BusinessID  *int64    `json:"business_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewTransactionResponse(tx model.LoyaltyTransaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		Points:      tx.Points,
		Type:        string(tx.TransactionType),
		Description: tx.Description,
		BusinessID:  tx.BusinessID,
		CreatedAt:   tx.CreatedAt,
	}
}
