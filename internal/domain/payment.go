package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrPaymentNotPending    = errors.New("payment has already been reviewed")
	ErrPaymentAmountInvalid = errors.New("payment amount must be positive")
	ErrRemarksRequired      = errors.New("remarks are required when rejecting")
	ErrRemarksTooLong       = errors.New("remarks must be 500 characters or less")
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// Payment is a member's monthly contribution awaiting or after admin review
type Payment struct {
	ID           uuid.UUID       `json:"id"`
	CommitteeID  uuid.UUID       `json:"committeeId"`
	UserID       uuid.UUID       `json:"userId"`
	Amount       decimal.Decimal `json:"amount"`
	Round        int32           `json:"round"`
	ReceiptURL   *string         `json:"receiptUrl,omitempty"`
	Status       PaymentStatus   `json:"status"`
	Remarks      *string         `json:"remarks,omitempty"`
	ReviewedBy   *uuid.UUID      `json:"reviewedBy,omitempty"`
	ReviewerName *string         `json:"reviewerName,omitempty"`
	ReviewedAt   *time.Time      `json:"reviewedAt,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type PaymentRepository interface {
	Create(payment *Payment) (*Payment, error)
	GetByID(id uuid.UUID) (*Payment, error)
	GetAll() ([]*Payment, error)
	GetByStatus(status PaymentStatus) ([]*Payment, error)
	GetByUser(userID uuid.UUID) ([]*Payment, error)
	// Review moves a pending payment to status; ErrPaymentNotPending otherwise
	Review(id uuid.UUID, status PaymentStatus, reviewerID uuid.UUID, remarks *string) (*Payment, error)
	Delete(id uuid.UUID) error
}
