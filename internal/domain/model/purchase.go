package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseStatus describes processing lifecycle of an uploaded purchase.
type PurchaseStatus string

const (
	PurchaseStatusNew        PurchaseStatus = "NEW"
	PurchaseStatusProcessing PurchaseStatus = "PROCESSING"
	PurchaseStatusInvalid    PurchaseStatus = "INVALID"
	PurchaseStatusProcessed  PurchaseStatus = "PROCESSED"
)

// Purchase is an order number uploaded by a customer to earn points.
type Purchase struct {
	ID         int64
	CustomerID int64
	Number     string
	Status     PurchaseStatus
	BusinessID *int64
	Amount     *decimal.Decimal
	Points     *int64
	UploadedAt time.Time
	UpdatedAt  time.Time
}

// VerificationStatus is reported by the external purchase verification system.
type VerificationStatus string

const (
	VerificationStatusRegistered VerificationStatus = "REGISTERED"
	VerificationStatusInvalid    VerificationStatus = "INVALID"
	VerificationStatusProcessing VerificationStatus = "PROCESSING"
	VerificationStatusProcessed  VerificationStatus = "PROCESSED"
)

// PurchaseVerification carries the verified spend for a purchase.
type PurchaseVerification struct {
	Number     string
	Status     VerificationStatus
	Amount     *decimal.Decimal
	BusinessID *int64
}

// PurchaseCompletion is the outcome the worker persists for a purchase.
type PurchaseCompletion struct {
	Status     PurchaseStatus
	Amount     *decimal.Decimal
	Points     int64
	BusinessID *int64
}
