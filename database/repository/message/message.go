// File: database/repository/message/message.go
package messageRepo

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

// ErrMessageNotFound is returned when no message matches the query.
var ErrMessageNotFound = errors.New("message not found")

// MessageRepository defines the interface for message data access.
type MessageRepository interface {
	Create(m *models.Message) error
	GetByID(id string) (*models.Message, error)
	ListByBooking(bookingID string) ([]models.Message, error)
	// MarkRead flips the read flag; applied=false means it was already read.
	MarkRead(id, recipientID string, at time.Time) (applied bool, err error)
	Reassign(fromUserID, toUserID string) error
}

// MongoMessageRepo implements MessageRepository using the mongo driver.
type MongoMessageRepo struct {
	coll *mongo.Collection
}

// NewMongoMessageRepo returns a repository backed by the "messages" collection.
func NewMongoMessageRepo() *MongoMessageRepo {
	return &MongoMessageRepo{coll: database.Collection("messages")}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Create inserts a new message document.
func (r *MongoMessageRepo) Create(m *models.Message) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	m.CreatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// GetByID fetches a message by its ID.
func (r *MongoMessageRepo) GetByID(id string) (*models.Message, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var m models.Message
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to fetch message %s: %w", id, err)
	}
	return &m, nil
}

// ListByBooking returns a booking's messages in send order.
func (r *MongoMessageRepo) ListByBooking(bookingID string) ([]models.Message, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cursor, err := r.coll.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages for booking %s: %w", bookingID, err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return messages, nil
}

// MarkRead records the read receipt; only the recipient may mark a message
// read, and only once.
func (r *MongoMessageRepo) MarkRead(id, recipientID string, at time.Time) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "recipient_id": recipientID, "read": false}
	update := bson.M{"$set": bson.M{"read": true, "read_at": at}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to mark message %s read: %w", id, err)
	}
	return result.ModifiedCount == 1, nil
}

// Reassign moves messages from one account to another (duplicate merge).
func (r *MongoMessageRepo) Reassign(fromUserID, toUserID string) error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if _, err := r.coll.UpdateMany(ctx,
		bson.M{"sender_id": fromUserID},
		bson.M{"$set": bson.M{"sender_id": toUserID}},
	); err != nil {
		return fmt.Errorf("failed to reassign sent messages: %w", err)
	}
	if _, err := r.coll.UpdateMany(ctx,
		bson.M{"recipient_id": fromUserID},
		bson.M{"$set": bson.M{"recipient_id": toUserID}},
	); err != nil {
		return fmt.Errorf("failed to reassign received messages: %w", err)
	}
	return nil
}
