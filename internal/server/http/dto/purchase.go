package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/loyaltyengine/internal/domain/model"
)

// PurchaseResponse describes an uploaded purchase.
type PurchaseResponse struct {
	Number     string           `json:"number"`
	Status     string           `json:"status"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Points     *int64           `json:"points,omitempty"`
	BusinessID *int64           `json:"business_id,omitempty"`
	UploadedAt time.Time        `json:"uploaded_at"`
}

func NewPurchaseResponse(p model.Purchase) PurchaseResponse {
	return PurchaseResponse{
		Number:     p.Number,
		Status:     string(p.Status),
		Amount:     p.Amount,
		Points:     p.Points,
		BusinessID: p.BusinessID,
		UploadedAt: p.UploadedAt,
	}
}
