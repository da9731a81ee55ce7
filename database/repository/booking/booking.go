// File: database/repository/booking/booking.go
package bookingRepo

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

// ErrBookingNotFound is returned when no booking matches the query.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepository defines the interface for booking data access.
type BookingRepository interface {
	Create(booking *models.Booking) error
	GetByID(id string) (*models.Booking, error)
	ListByOrganizer(organizerID string) ([]models.Booking, error)
	ListByTalent(talentID string) ([]models.Booking, error)
	// UpdateStatusFrom transitions status only when the stored status matches
	// from; it reports whether the transition was applied.
	UpdateStatusFrom(id, from, to string) (bool, error)
	// MarkPaidOut flips is_paid_out from false to true; it reports whether
	// this call performed the flip.
	MarkPaidOut(id string) (bool, error)
	Reassign(fromUserID, toUserID string) error
}

// MongoBookingRepo implements BookingRepository using the mongo driver.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo returns a repository backed by the "bookings" collection.
func NewMongoBookingRepo() *MongoBookingRepo {
	return &MongoBookingRepo{coll: database.Collection("bookings")}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(booking *models.Booking) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetByID fetches a booking by its ID.
func (r *MongoBookingRepo) GetByID(id string) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &booking, nil
}

// ListByOrganizer returns an organizer's bookings, newest first.
func (r *MongoBookingRepo) ListByOrganizer(organizerID string) ([]models.Booking, error) {
	return r.list(bson.M{"organizer_id": organizerID})
}

// ListByTalent returns a talent's bookings, newest first.
func (r *MongoBookingRepo) ListByTalent(talentID string) ([]models.Booking, error) {
	return r.list(bson.M{"talent_id": talentID})
}

func (r *MongoBookingRepo) list(filter bson.M) ([]models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// UpdateStatusFrom is a conditional status transition: the filter carries the
// expected current status so two concurrent transitions cannot both win.
func (r *MongoBookingRepo) UpdateStatusFrom(id, from, to string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to transition booking %s from %s to %s: %w", id, from, to, err)
	}
	return result.ModifiedCount == 1, nil
}

// MarkPaidOut flips is_paid_out exactly once; a repeat call matches nothing.
func (r *MongoBookingRepo) MarkPaidOut(id string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "is_paid_out": false}
	update := bson.M{"$set": bson.M{"is_paid_out": true, "updated_at": time.Now()}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to mark booking %s paid out: %w", id, err)
	}
	return result.ModifiedCount == 1, nil
}

// Reassign moves bookings from one account to another (duplicate merge).
func (r *MongoBookingRepo) Reassign(fromUserID, toUserID string) error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	now := time.Now()
	if _, err := r.coll.UpdateMany(ctx,
		bson.M{"organizer_id": fromUserID},
		bson.M{"$set": bson.M{"organizer_id": toUserID, "updated_at": now}},
	); err != nil {
		return fmt.Errorf("failed to reassign organizer bookings: %w", err)
	}
	if _, err := r.coll.UpdateMany(ctx,
		bson.M{"talent_id": fromUserID},
		bson.M{"$set": bson.M{"talent_id": toUserID, "updated_at": now}},
	); err != nil {
		return fmt.Errorf("failed to reassign talent bookings: %w", err)
	}
	return nil
}
