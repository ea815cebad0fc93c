package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrJoinRequestNotFound   = errors.New("join request not found")
	ErrJoinRequestExists     = errors.New("a pending join request already exists for this committee")
	ErrJoinRequestNotPending = errors.New("join request has already been reviewed")
)

type JoinRequestStatus string

const (
	JoinRequestPending  JoinRequestStatus = "pending"
	JoinRequestApproved JoinRequestStatus = "approved"
	JoinRequestRejected JoinRequestStatus = "rejected"
)

// JoinRequest asks an admin to admit a user into a committee, optionally at a
// preferred payout slot.
type JoinRequest struct {
	ID            uuid.UUID         `json:"id"`
	CommitteeID   uuid.UUID         `json:"committeeId"`
	UserID        uuid.UUID         `json:"userId"`
	PreferredSlot *int32            `json:"preferredSlot,omitempty"`
	AssignedSlot  *int32            `json:"assignedSlot,omitempty"`
	Status        JoinRequestStatus `json:"status"`
	Remarks       *string           `json:"remarks,omitempty"`
	ReviewedBy    *uuid.UUID        `json:"reviewedBy,omitempty"`
	ReviewedAt    *time.Time        `json:"reviewedAt,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// JoinRequestReview is the outcome written when a request leaves pending
type JoinRequestReview struct {
	Status       JoinRequestStatus
	ReviewerID   uuid.UUID
	Remarks      *string
	AssignedSlot *int32
}

type JoinRequestRepository interface {
	Create(req *JoinRequest) (*JoinRequest, error)
	GetByID(id uuid.UUID) (*JoinRequest, error)
	GetAll() ([]*JoinRequest, error)
	GetByStatus(status JoinRequestStatus) ([]*JoinRequest, error)
	GetByUser(userID uuid.UUID) ([]*JoinRequest, error)
	HasPending(committeeID, userID uuid.UUID) (bool, error)
	Review(id uuid.UUID, review JoinRequestReview) (*JoinRequest, error)
	ReviewTx(tx any, id uuid.UUID, review JoinRequestReview) (*JoinRequest, error)
	Delete(id uuid.UUID) error
}
