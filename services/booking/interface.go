package booking

import (
	"context"

	"stagelink/models"
)

// CreateBookingRequest is the organizer's booking request.
type CreateBookingRequest struct {
	OrganizerID string  `json:"-"`
	TalentID    string  `json:"talentId"`
	EventID     string  `json:"eventId"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Notes       string  `json:"notes,omitempty"`
}

// BookingService owns the booking lifecycle from creation through completion
// and the payout hand-off.
type BookingService interface {
	Create(ctx context.Context, req CreateBookingRequest) (*models.Booking, error)
	Accept(ctx context.Context, bookingID, talentID string) (*models.Booking, error)
	Decline(ctx context.Context, bookingID, talentID string) (*models.Booking, error)
	Start(ctx context.Context, bookingID, talentID string) (*models.Booking, error)
	Complete(ctx context.Context, bookingID, organizerID string) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID, organizerID string) (*models.Booking, error)
	GetForUser(bookingID, userID string) (*models.Booking, error)
	ListForUser(userID, role string) ([]models.Booking, error)
}
