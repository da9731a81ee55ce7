package models

import "time"

// Message is a booking-scoped message between an organizer and a talent.
type Message struct {
	ID          string     `bson:"id" json:"id"`
	BookingID   string     `bson:"booking_id" json:"bookingId"`
	SenderID    string     `bson:"sender_id" json:"senderId"`
	RecipientID string     `bson:"recipient_id" json:"recipientId"`
	Body        string     `bson:"body" json:"body"`
	Read        bool       `bson:"read" json:"read"`
	ReadAt      *time.Time `bson:"read_at,omitempty" json:"readAt,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"createdAt"`
}
