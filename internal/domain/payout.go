package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrPayoutNotFound      = errors.New("payout not found")
	ErrPayoutNotPending    = errors.New("payout is not pending")
	ErrPayoutAmountInvalid = errors.New("payout amount must be positive")
)

// PayoutStatus is the lifecycle state of a payout
type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "pending"
	PayoutStatusCompleted PayoutStatus = "completed"
)

// Payout is one scheduled lump-sum disbursement. The holder of SlotNumber in
// a committee is whoever owns the payout; payouts are the only record of slot
// occupancy.
type Payout struct {
	ID             uuid.UUID       `json:"id"`
	CommitteeID    uuid.UUID       `json:"committeeId"`
	UserID         uuid.UUID       `json:"userId"`
	OriginalAmount decimal.Decimal `json:"originalAmount"`
	FeePercentage  decimal.Decimal `json:"feePercentage"`
	FeeAmount      decimal.Decimal `json:"feeAmount"`
	NetAmount      decimal.Decimal `json:"netAmount"`
	FeeReason      *string         `json:"feeReason,omitempty"`
	SlotNumber     int32           `json:"slotNumber"`
	Round          int32           `json:"round"`
	Status         PayoutStatus    `json:"status"`
	ScheduledDate  time.Time       `json:"scheduledDate"`
	CompletedDate  *time.Time      `json:"completedDate,omitempty"`
	InitiatedBy    uuid.UUID       `json:"initiatedBy"`
	ReceiptURL     *string         `json:"receiptUrl,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type PayoutRepository interface {
	GetByID(id uuid.UUID) (*Payout, error)
	GetAll() ([]*Payout, error)
	GetByUser(userID uuid.UUID) ([]*Payout, error)
	GetByCommittee(committeeID uuid.UUID) ([]*Payout, error)
	GetByCommitteeTx(tx any, committeeID uuid.UUID) ([]*Payout, error)
	// ReserveSlotTx locks the committee, refuses a slot held by another user
	// with ErrSlotTaken, and inserts the payout.
	ReserveSlotTx(tx any, payout *Payout) (*Payout, error)
	Complete(id uuid.UUID, completedAt time.Time) (*Payout, error)
	SetReceipt(id uuid.UUID, receiptURL string) (*Payout, error)
	DeletePending(id uuid.UUID) error
	CountByCommittee(committeeID uuid.UUID) (int64, error)
}
