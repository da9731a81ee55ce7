package notification

import (
	"context"

	"stagelink/models"
)

// NotificationService persists in-app notifications and fans them out over
// the best-effort channels (relay stream, FCM push). The persisted row is the
// durable record; both push channels may silently fail.
type NotificationService interface {
	Notify(ctx context.Context, n *models.Notification) error
	ListForUser(userID string) ([]models.Notification, error)
	MarkRead(id, userID string) error
	MarkAllRead(userID string) error
}
