package models

import "time"

// Booking statuses.
const (
	BookingStatusPending    = "PENDING"
	BookingStatusAccepted   = "ACCEPTED"
	BookingStatusInProgress = "IN_PROGRESS"
	BookingStatusCompleted  = "COMPLETED"
	BookingStatusCancelled  = "CANCELLED"
	BookingStatusDeclined   = "DECLINED"
)

// Booking links an organizer, a talent and an event, with its payment lifecycle.
// Amount is the gross amount the organizer pays; TalentAmount is what the talent
// earns after the platform fee.
type Booking struct {
	ID           string    `bson:"id" json:"id"`
	OrganizerID  string    `bson:"organizer_id" json:"organizerId"`
	TalentID     string    `bson:"talent_id" json:"talentId"`
	EventID      string    `bson:"event_id" json:"eventId"`
	Status       string    `bson:"status" json:"status"`
	Amount       float64   `bson:"amount" json:"amount"`
	Currency     string    `bson:"currency" json:"currency"`
	PlatformFee  float64   `bson:"platform_fee" json:"platformFee"`
	TalentAmount float64   `bson:"talent_amount" json:"talentAmount"`
	IsPaidOut    bool      `bson:"is_paid_out" json:"isPaidOut"`
	Notes        string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// Event is an organizer's event that talents get booked for.
type Event struct {
	ID          string    `bson:"id" json:"id"`
	OrganizerID string    `bson:"organizer_id" json:"organizerId"`
	Title       string    `bson:"title" json:"title"`
	Venue       string    `bson:"venue" json:"venue"`
	Date        string    `bson:"date" json:"date"` // "YYYY-MM-DD"
	Budget      float64   `bson:"budget" json:"budget"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}
