package services

import (
	"context"
	"log"

	"github.com/Taboada40/PinoyHiratage/internal/backend"
	"github.com/Taboada40/PinoyHiratage/internal/metrics"
	"github.com/Taboada40/PinoyHiratage/internal/models"
)

// NotificationService reads and mutates the actor's notifications. Delivery
// is polled, never pushed; read failures degrade to empty data.
type NotificationService struct {
	backend *backend.Client
	metrics *metrics.AppMetrics
}

// NewNotificationService creates a new notification service
func NewNotificationService(bc *backend.Client, m *metrics.AppMetrics) *NotificationService {
	return &NotificationService{
		backend: bc,
		metrics: m,
	}
}

// List returns the actor's notifications, empty on read failure.
func (s *NotificationService) List(ctx context.Context, actor models.Actor) ([]models.Notification, error) {
	if actor.IsGuest() {
		return []models.Notification{}, nil
	}
	notifications, err := s.backend.Notifications(ctx, actor.ID)
	if err != nil {
		log.Printf("notifications: list failed for user %s: %v", actor.ID, err)
		return []models.Notification{}, err
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, nil
}

// UnreadCount returns the unread badge count, zero when unavailable.
func (s *NotificationService) UnreadCount(ctx context.Context, actor models.Actor) int {
	if actor.IsGuest() {
		return 0
	}
	count, err := s.backend.UnreadNotificationCount(ctx, actor.ID)
	if err != nil {
		return 0
	}
	return count
}

// MarkAllRead marks every notification read for the actor.
func (s *NotificationService) MarkAllRead(ctx context.Context, actor models.Actor) error {
	if actor.IsGuest() {
		return nil
	}
	return s.backend.MarkAllNotificationsRead(ctx, actor.ID)
}

// Delete removes one notification.
func (s *NotificationService) Delete(ctx context.Context, notificationID int64) error {
	return s.backend.DeleteNotification(ctx, notificationID)
}
