// File: database/repository/kyc/kyc.go
package kycRepo

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

// ErrSubmissionNotFound is returned when no KYC submission matches the query.
var ErrSubmissionNotFound = errors.New("kyc submission not found")

// KYCRepository defines the interface for KYC submission data access.
type KYCRepository interface {
	Create(sub *models.KYCSubmission) error
	GetByID(id string) (*models.KYCSubmission, error)
	GetLatestByTalent(talentID string) (*models.KYCSubmission, error)
	ListPending(limit int64) ([]models.KYCSubmission, error)
	// Review records the decision on a pending submission; applied=false means
	// it was already reviewed.
	Review(id, status, reason, reviewerID string) (applied bool, err error)
}

// MongoKYCRepo implements KYCRepository using the mongo driver.
type MongoKYCRepo struct {
	coll *mongo.Collection
}

// NewMongoKYCRepo returns a repository backed by the "kyc_submissions" collection.
func NewMongoKYCRepo() *MongoKYCRepo {
	return &MongoKYCRepo{coll: database.Collection("kyc_submissions")}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Create inserts a new submission.
func (r *MongoKYCRepo) Create(sub *models.KYCSubmission) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, sub); err != nil {
		return fmt.Errorf("failed to create kyc submission: %w", err)
	}
	return nil
}

// GetByID fetches a submission by its ID.
func (r *MongoKYCRepo) GetByID(id string) (*models.KYCSubmission, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var sub models.KYCSubmission
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&sub)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to fetch kyc submission %s: %w", id, err)
	}
	return &sub, nil
}

// GetLatestByTalent fetches a talent's most recent submission.
func (r *MongoKYCRepo) GetLatestByTalent(talentID string) (*models.KYCSubmission, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.FindOne().SetSort(bson.M{"created_at": -1})
	var sub models.KYCSubmission
	err := r.coll.FindOne(ctx, bson.M{"talent_id": talentID}, opts).Decode(&sub)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to fetch kyc submission for talent %s: %w", talentID, err)
	}
	return &sub, nil
}

// ListPending returns submissions awaiting review, oldest first.
func (r *MongoKYCRepo) ListPending(limit int64) ([]models.KYCSubmission, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"created_at": 1}).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{"status": models.KYCStatusPending}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending kyc submissions: %w", err)
	}
	defer cursor.Close(ctx)

	var subs []models.KYCSubmission
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("failed to decode kyc submissions: %w", err)
	}
	return subs, nil
}

// Review records the decision; the status filter keeps reviews one-shot.
func (r *MongoKYCRepo) Review(id, status, reason, reviewerID string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.KYCStatusPending}
	update := bson.M{"$set": bson.M{
		"status":      status,
		"reason":      reason,
		"reviewed_by": reviewerID,
		"updated_at":  time.Now(),
	}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to review kyc submission %s: %w", id, err)
	}
	return result.ModifiedCount == 1, nil
}
