package notification

import (
	"context"
	"fmt"
	"time"

	notificationRepo "stagelink/database/repository/notification"
	userRepo "stagelink/database/repository/user"
	"stagelink/models"
	"stagelink/services/relay"
	"stagelink/utils"

	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Repo     notificationRepo.NotificationRepository
	UserRepo userRepo.UserRepository
	Hub      *relay.Hub
}

// Notify persists the notification, then pushes it over the relay and FCM.
// Push failures are logged and swallowed: losing a live signal is tolerable,
// losing the stored notification is not.
func (s *DefaultNotificationService) Notify(ctx context.Context, n *models.Notification) error {
	logger := utils.GetLogger()

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if err := s.Repo.Create(n); err != nil {
		return fmt.Errorf("failed to persist notification for user %s: %w", n.UserID, err)
	}

	if s.Hub != nil {
		s.Hub.Deliver(n.UserID, relay.Event{Type: relay.EventNotification, Data: n})
	}

	if err := s.sendPush(ctx, n); err != nil {
		logger.Warn("notification push failed",
			zap.String("userID", n.UserID), zap.Error(err))
	}
	return nil
}

// sendPush looks up the user's FCM token and sends a push message.
func (s *DefaultNotificationService) sendPush(ctx context.Context, n *models.Notification) error {
	if utils.FCMClient == nil {
		return nil
	}
	u, err := s.UserRepo.GetByID(n.UserID)
	if err != nil {
		return fmt.Errorf("could not find user %s: %w", n.UserID, err)
	}
	if u.FCMToken == "" {
		return nil
	}

	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Message,
		},
		Data: map[string]string{
			"type":      n.Type,
			"bookingId": n.BookingID,
			"actionUrl": n.ActionURL,
		},
	}
	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	return nil
}

// ListForUser returns the user's most recent notifications.
func (s *DefaultNotificationService) ListForUser(userID string) ([]models.Notification, error) {
	return s.Repo.ListByUser(userID, 100)
}

// MarkRead marks one notification read.
func (s *DefaultNotificationService) MarkRead(id, userID string) error {
	return s.Repo.MarkRead(id, userID)
}

// MarkAllRead marks every unread notification of the user read.
func (s *DefaultNotificationService) MarkAllRead(userID string) error {
	return s.Repo.MarkAllRead(userID)
}

// NewBookingNotification builds a booking-scoped notification with an action
// link into the app.
func NewBookingNotification(userID, notifType, title, message, bookingID, baseURL string) *models.Notification {
	n := &models.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		BookingID: bookingID,
		CreatedAt: time.Now(),
	}
	if bookingID != "" && baseURL != "" {
		n.ActionURL = fmt.Sprintf("%s/bookings/%s", baseURL, bookingID)
	}
	return n
}
