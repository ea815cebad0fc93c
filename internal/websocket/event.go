package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to the entity
type EventType string

const (
	EventTypeCreated   EventType = "created"
	EventTypeUpdated   EventType = "updated"
	EventTypeDeleted   EventType = "deleted"
	EventTypeApproved  EventType = "approved"
	EventTypeRejected  EventType = "rejected"
	EventTypeCompleted EventType = "completed"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeNotification EntityType = "notification"
	EntityTypePayout       EntityType = "payout"
	EntityTypePayment      EntityType = "payment"
	EntityTypeJoinRequest  EntityType = "join_request"
	EntityTypeCommittee    EntityType = "committee"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "payout.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "payout"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// NotificationCreated creates a notification.created event
func NotificationCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeNotification, payload)
}

// PayoutCreated creates a payout.created event
func PayoutCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypePayout, payload)
}

// PayoutCompleted creates a payout.completed event
func PayoutCompleted(payload interface{}) Event {
	return NewEvent(EventTypeCompleted, EntityTypePayout, payload)
}

// PaymentApproved creates a payment.approved event
func PaymentApproved(payload interface{}) Event {
	return NewEvent(EventTypeApproved, EntityTypePayment, payload)
}

// PaymentRejected creates a payment.rejected event
func PaymentRejected(payload interface{}) Event {
	return NewEvent(EventTypeRejected, EntityTypePayment, payload)
}

// JoinRequestApproved creates a join_request.approved event
func JoinRequestApproved(payload interface{}) Event {
	return NewEvent(EventTypeApproved, EntityTypeJoinRequest, payload)
}

// JoinRequestRejected creates a join_request.rejected event
func JoinRequestRejected(payload interface{}) Event {
	return NewEvent(EventTypeRejected, EntityTypeJoinRequest, payload)
}

// CommitteeUpdated creates a committee.updated event
func CommitteeUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeCommittee, payload)
}
