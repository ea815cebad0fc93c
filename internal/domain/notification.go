package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationType string

const (
	NotificationPaymentDue            NotificationType = "payment_due"
	NotificationPaymentApproved       NotificationType = "payment_approved"
	NotificationPaymentRejected       NotificationType = "payment_rejected"
	NotificationPayoutScheduled       NotificationType = "payout_scheduled"
	NotificationPayoutReceived        NotificationType = "payout_received"
	NotificationCommitteeJoined       NotificationType = "committee_joined"
	NotificationVerificationSubmitted NotificationType = "verification_submitted"
	NotificationProfileCompleted      NotificationType = "profile_completed"
)

type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	RelatedID *uuid.UUID       `json:"relatedId,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}

// DefaultNotificationLimit caps list responses
const DefaultNotificationLimit = 50

type NotificationRepository interface {
	Create(n *Notification) (*Notification, error)
	GetByUser(userID uuid.UUID, limit int32) ([]*Notification, error)
	MarkRead(userID, id uuid.UUID) error
	MarkAllRead(userID uuid.UUID) (int64, error)
	CountUnread(userID uuid.UUID) (int64, error)
}
