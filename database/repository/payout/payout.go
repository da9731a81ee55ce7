// File: database/repository/payout/payout.go
package payoutRepo

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

// ErrPayoutNotFound is returned when no payout matches the query.
var ErrPayoutNotFound = errors.New("payout not found")

// PayoutRepository defines the interface for payout data access.
type PayoutRepository interface {
	Create(payout *models.Payout) error
	GetByID(id string) (*models.Payout, error)
	ListByTalent(talentID string) ([]models.Payout, error)
	ListPending(limit int64) ([]models.Payout, error)
	// UpdateStatusAndSnapshot persists the reconciled status and the raw
	// gateway transfer snapshot in one write.
	UpdateStatusAndSnapshot(id, status string, transfer *models.PaystackTransfer) error
	// UpdateSnapshot records the transfer snapshot without touching status.
	UpdateSnapshot(id string, transfer *models.PaystackTransfer) error
}

// MongoPayoutRepo implements PayoutRepository using the mongo driver.
type MongoPayoutRepo struct {
	coll *mongo.Collection
}

// NewMongoPayoutRepo returns a repository backed by the "payouts" collection.
func NewMongoPayoutRepo() *MongoPayoutRepo {
	return &MongoPayoutRepo{coll: database.Collection("payouts")}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Create inserts a new payout document.
func (r *MongoPayoutRepo) Create(payout *models.Payout) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	payout.CreatedAt = now
	payout.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, payout); err != nil {
		return fmt.Errorf("failed to create payout: %w", err)
	}
	return nil
}

// GetByID fetches a payout by its ID.
func (r *MongoPayoutRepo) GetByID(id string) (*models.Payout, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var payout models.Payout
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&payout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPayoutNotFound
		}
		return nil, fmt.Errorf("failed to fetch payout %s: %w", id, err)
	}
	return &payout, nil
}

// ListByTalent returns a talent's payouts, newest first.
func (r *MongoPayoutRepo) ListByTalent(talentID string) ([]models.Payout, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.coll.Find(ctx, bson.M{"talent_id": talentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list payouts for talent %s: %w", talentID, err)
	}
	defer cursor.Close(ctx)

	var payouts []models.Payout
	if err := cursor.All(ctx, &payouts); err != nil {
		return nil, fmt.Errorf("failed to decode payouts: %w", err)
	}
	return payouts, nil
}

// ListPending returns payouts still awaiting gateway confirmation, oldest
// first so the verifier worker drains the backlog in order.
func (r *MongoPayoutRepo) ListPending(limit int64) ([]models.Payout, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"created_at": 1}).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{"status": models.PayoutStatusPending}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending payouts: %w", err)
	}
	defer cursor.Close(ctx)

	var payouts []models.Payout
	if err := cursor.All(ctx, &payouts); err != nil {
		return nil, fmt.Errorf("failed to decode pending payouts: %w", err)
	}
	return payouts, nil
}

// UpdateStatusAndSnapshot persists the new status and transfer snapshot.
func (r *MongoPayoutRepo) UpdateStatusAndSnapshot(id, status string, transfer *models.PaystackTransfer) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":     status,
		"transfer":   transfer,
		"updated_at": time.Now(),
	}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update payout %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrPayoutNotFound
	}
	return nil
}

// UpdateSnapshot records the latest gateway transfer without changing status.
func (r *MongoPayoutRepo) UpdateSnapshot(id string, transfer *models.PaystackTransfer) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"transfer":   transfer,
		"updated_at": time.Now(),
	}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update payout snapshot %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrPayoutNotFound
	}
	return nil
}
