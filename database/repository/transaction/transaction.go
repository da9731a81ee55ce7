// File: database/repository/transaction/transaction.go
package transactionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stagelink/database"
	"stagelink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrTransactionNotFound is returned when no transaction matches the query.
var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionRepository defines the interface for payment-transaction data access.
type TransactionRepository interface {
	Create(tx *models.Transaction) error
	GetByReference(reference string) (*models.Transaction, error)
	MarkFailed(reference string) error
	// CompleteWithBooking marks the transaction COMPLETED and its booking
	// ACCEPTED inside one store transaction. The status filter doubles as a
	// compare-and-set: applied=false means another caller completed it first
	// (or it was never PENDING), and nothing was written.
	CompleteWithBooking(ctx context.Context, reference, bookingID string) (applied bool, err error)
}

// MongoTransactionRepo implements TransactionRepository using the mongo driver.
type MongoTransactionRepo struct {
	txColl      *mongo.Collection
	bookingColl *mongo.Collection
}

// NewMongoTransactionRepo returns a repository over the "transactions" and
// "bookings" collections; it needs both for the completion transaction.
func NewMongoTransactionRepo() *MongoTransactionRepo {
	return &MongoTransactionRepo{
		txColl:      database.Collection("transactions"),
		bookingColl: database.Collection("bookings"),
	}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Create inserts a new transaction document.
func (r *MongoTransactionRepo) Create(tx *models.Transaction) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	if _, err := r.txColl.InsertOne(ctx, tx); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByReference fetches a transaction by its gateway reference.
func (r *MongoTransactionRepo) GetByReference(reference string) (*models.Transaction, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var tx models.Transaction
	err := r.txColl.FindOne(ctx, bson.M{"reference": reference}).Decode(&tx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to fetch transaction %s: %w", reference, err)
	}
	return &tx, nil
}

// MarkFailed records a failed payment attempt. Completed transactions are
// never downgraded.
func (r *MongoTransactionRepo) MarkFailed(reference string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"reference": reference, "status": models.TransactionStatusPending}
	update := bson.M{"$set": bson.M{"status": models.TransactionStatusFailed, "updated_at": time.Now()}}
	if _, err := r.txColl.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to mark transaction %s failed: %w", reference, err)
	}
	return nil
}

// CompleteWithBooking runs both writes in a mongo session so a concurrent
// reader never sees the transaction completed without the booking accepted,
// or vice versa.
func (r *MongoTransactionRepo) CompleteWithBooking(ctx context.Context, reference, bookingID string) (bool, error) {
	client := r.txColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return false, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	now := time.Now()
	applied := false

	txnFn := func(sc mongo.SessionContext) error {
		res, err := r.txColl.UpdateOne(sc,
			bson.M{"reference": reference, "status": models.TransactionStatusPending},
			bson.M{"$set": bson.M{"status": models.TransactionStatusCompleted, "updated_at": now}},
		)
		if err != nil {
			return fmt.Errorf("complete transaction failed: %w", err)
		}
		if res.ModifiedCount == 0 {
			// Lost the race or already completed; leave everything untouched.
			return nil
		}
		applied = true

		if _, err := r.bookingColl.UpdateOne(sc,
			bson.M{"id": bookingID, "status": models.BookingStatusPending},
			bson.M{"$set": bson.M{"status": models.BookingStatusAccepted, "updated_at": now}},
		); err != nil {
			return fmt.Errorf("accept booking failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return false, fmt.Errorf("payment completion transaction failed: %w", err)
	}

	return applied, nil
}
