// File: database/repository/user/user.go
package userRepo

import (
	"context"
	"time"

	"stagelink/database"
	"stagelink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	Delete(id string) error
	GetByID(id string) (*models.User, error)
	GetByIDWithProjection(id string, projection bson.M) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByReferralCode(code string) (*models.User, error)
	UpdateSetDocument(id string, updateDoc bson.M) error
	IncrementReferralCredits(id string, amount int) error
	ListByRole(role string, limit int64) ([]models.User, error)
	FindDuplicateCandidates() ([]models.User, error)
	MarkMerged(duplicateID, primaryID string) error
}

// MongoUserRepo implements UserRepository using the mongo driver.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo returns a repository backed by the "users" collection.
func NewMongoUserRepo() *MongoUserRepo {
	return &MongoUserRepo{coll: database.Collection("users")}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
