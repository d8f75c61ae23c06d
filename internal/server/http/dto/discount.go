package dto

import "github.com/shopspring/decimal"

// DiscountResponse is the currency value of a points amount.
type DiscountResponse struct {
	Points   int64           `json:"points"`
	Discount decimal.Decimal `json:"discount"`
}
