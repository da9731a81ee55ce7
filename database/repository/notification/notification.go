// File: database/repository/notification/notification.go
package notificationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stagelink/database"
	"stagelink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotificationNotFound is returned when no notification matches the query.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository defines the interface for notification data access.
type NotificationRepository interface {
	Create(n *models.Notification) error
	ListByUser(userID string, limit int64) ([]models.Notification, error)
	MarkRead(id, userID string) error
	MarkAllRead(userID string) error
	Reassign(fromUserID, toUserID string) error
}

// MongoNotificationRepo implements NotificationRepository using the mongo driver.
type MongoNotificationRepo struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepo returns a repository backed by the "notifications" collection.
func NewMongoNotificationRepo() *MongoNotificationRepo {
	return &MongoNotificationRepo{coll: database.Collection("notifications")}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Create inserts a new notification document.
func (r *MongoNotificationRepo) Create(n *models.Notification) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListByUser returns a user's notifications, newest first.
func (r *MongoNotificationRepo) ListByUser(userID string, limit int64) ([]models.Notification, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead sets the read flag; the user filter stops cross-account marking.
func (r *MongoNotificationRepo) MarkRead(id, userID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "user_id": userID}
	update := bson.M{"$set": bson.M{"read": true, "updated_at": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead sets the read flag on every unread notification of a user.
func (r *MongoNotificationRepo) MarkAllRead(userID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"user_id": userID, "read": false}
	update := bson.M{"$set": bson.M{"read": true, "updated_at": time.Now()}}
	if _, err := r.coll.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to mark notifications read for user %s: %w", userID, err)
	}
	return nil
}

// Reassign moves notifications from one account to another (duplicate merge).
func (r *MongoNotificationRepo) Reassign(fromUserID, toUserID string) error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"user_id": toUserID, "updated_at": time.Now()}}
	if _, err := r.coll.UpdateMany(ctx, bson.M{"user_id": fromUserID}, update); err != nil {
		return fmt.Errorf("failed to reassign notifications: %w", err)
	}
	return nil
}
