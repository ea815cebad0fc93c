package websocket

import "github.com/google/uuid"

// EventPublisher defines the interface for publishing events to WebSocket clients
type EventPublisher interface {
	// Publish sends an event to every connection of the given user
	Publish(userID uuid.UUID, event Event)
}

var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher
func (h *Hub) Publish(userID uuid.UUID, event Event) {
	h.SendToUser(userID, event)
}

// NoOpPublisher is a publisher that does nothing (for testing or when WebSocket is disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(userID uuid.UUID, event Event) {}
