package models

import "time"

// Notification types.
const (
	NotificationTypePayment  = "payment"
	NotificationTypeBooking  = "booking"
	NotificationTypeKYC      = "kyc"
	NotificationTypeMessage  = "message"
	NotificationTypeReferral = "referral"
)

// Notification is a persisted in-app notification. Real-time delivery through
// the relay is separate and best-effort; this row is the durable record.
type Notification struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"user_id" json:"userId"`
	Type      string    `bson:"type" json:"type"`
	Title     string    `bson:"title" json:"title"`
	Message   string    `bson:"message" json:"message"`
	BookingID string    `bson:"booking_id,omitempty" json:"bookingId,omitempty"`
	ActionURL string    `bson:"action_url,omitempty" json:"actionUrl,omitempty"`
	Read      bool      `bson:"read" json:"read"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
