package service

import (
	"fmt"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/dafibh/committee/committee-backend/internal/metrics"
	"github.com/dafibh/committee/committee-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// fanOutLimit bounds concurrent inserts when one notification goes to many users
const fanOutLimit = 4

// NotificationService stores notifications and pushes them to connected clients
type NotificationService struct {
	notificationRepo domain.NotificationRepository
	userRepo         domain.UserRepository
	eventPublisher   websocket.EventPublisher
	metrics          *metrics.Metrics
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo domain.NotificationRepository, userRepo domain.UserRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *NotificationService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the metrics collectors
func (s *NotificationService) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// Notify stores a notification for userID and pushes it over the websocket
func (s *NotificationService) Notify(userID uuid.UUID, notificationType domain.NotificationType, title, message string, relatedID *uuid.UUID) (*domain.Notification, error) {
	n, err := s.notificationRepo.Create(&domain.Notification{
		UserID:    userID,
		Type:      notificationType,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.metrics.ObserveNotification(string(notificationType))
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, websocket.NotificationCreated(n))
	}
	return n, nil
}

// NotifyAdmins sends the same notification to every admin
func (s *NotificationService) NotifyAdmins(notificationType domain.NotificationType, title, message string, relatedID *uuid.UUID) error {
	admins, err := s.userRepo.GetByRole(domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to list admins: %w", err)
	}

	var g errgroup.Group
	g.SetLimit(fanOutLimit)
	for _, admin := range admins {
		adminID := admin.ID
		g.Go(func() error {
			_, err := s.Notify(adminID, notificationType, title, message, relatedID)
			return err
		})
	}
	return g.Wait()
}

// notifyQuietly is used after a state change has already committed; a failed
// notification is logged and does not fail the operation.
func (s *NotificationService) notifyQuietly(userID uuid.UUID, notificationType domain.NotificationType, title, message string, relatedID *uuid.UUID) {
	if s == nil {
		return
	}
	if _, err := s.Notify(userID, notificationType, title, message, relatedID); err != nil {
		log.Warn().Err(err).
			Str("user_id", userID.String()).
			Str("type", string(notificationType)).
			Msg("Failed to send notification")
	}
}

// List returns the user's most recent notifications, newest first
func (s *NotificationService) List(userID uuid.UUID, limit int32) ([]*domain.Notification, error) {
	if limit <= 0 || limit > domain.DefaultNotificationLimit {
		limit = domain.DefaultNotificationLimit
	}
	return s.notificationRepo.GetByUser(userID, limit)
}

// MarkRead marks one notification read
func (s *NotificationService) MarkRead(userID, id uuid.UUID) error {
	return s.notificationRepo.MarkRead(userID, id)
}

// MarkAllRead marks every notification of the user read
func (s *NotificationService) MarkAllRead(userID uuid.UUID) (int64, error) {
	return s.notificationRepo.MarkAllRead(userID)
}

// UnreadCount counts the user's unread notifications
func (s *NotificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}
