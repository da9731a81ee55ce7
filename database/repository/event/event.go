// File: database/repository/event/event.go
package eventRepo

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

// ErrEventNotFound is returned when no event matches the query.
var ErrEventNotFound = errors.New("event not found")

// EventRepository defines the interface for event data access.
type EventRepository interface {
	Create(event *models.Event) error
	GetByID(id string) (*models.Event, error)
	ListByOrganizer(organizerID string) ([]models.Event, error)
}

// MongoEventRepo implements EventRepository using the mongo driver.
type MongoEventRepo struct {
	coll *mongo.Collection
}

// NewMongoEventRepo returns a repository backed by the "events" collection.
func NewMongoEventRepo() *MongoEventRepo {
	return &MongoEventRepo{coll: database.Collection("events")}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Create inserts a new event document.
func (r *MongoEventRepo) Create(event *models.Event) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// GetByID fetches an event by its ID.
func (r *MongoEventRepo) GetByID(id string) (*models.Event, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var event models.Event
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to fetch event %s: %w", id, err)
	}
	return &event, nil
}

// ListByOrganizer returns an organizer's events, newest first.
func (r *MongoEventRepo) ListByOrganizer(organizerID string) ([]models.Event, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.coll.Find(ctx, bson.M{"organizer_id": organizerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for organizer %s: %w", organizerID, err)
	}
	defer cursor.Close(ctx)

	var events []models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, nil
}
