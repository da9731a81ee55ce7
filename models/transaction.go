package models

import "time"

// Transaction statuses.
const (
	TransactionStatusPending   = "PENDING"
	TransactionStatusCompleted = "COMPLETED"
	TransactionStatusFailed    = "FAILED"
)

// Transaction is one payment attempt for a booking. Reference is the gateway's
// external payment reference and is unique per attempt. Only the reconciler
// mutates a transaction after creation.
type Transaction struct {
	ID        string    `bson:"id" json:"id"`
	BookingID string    `bson:"booking_id" json:"bookingId"`
	PayerID   string    `bson:"payer_id" json:"payerId"`
	Amount    float64   `bson:"amount" json:"amount"`
	Currency  string    `bson:"currency" json:"currency"`
	Reference string    `bson:"reference" json:"reference"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
