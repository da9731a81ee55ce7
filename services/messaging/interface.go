package messaging

import (
	"context"

	"stagelink/models"
)

// SendMessageRequest is one chat message inside a booking conversation.
type SendMessageRequest struct {
	SenderID  string `json:"-"`
	BookingID string `json:"bookingId"`
	Body      string `json:"body"`
}

// MessagingService owns booking-scoped conversations between an organizer and
// a talent, including live delivery and read receipts.
type MessagingService interface {
	Send(ctx context.Context, req SendMessageRequest) (*models.Message, error)
	MarkRead(ctx context.Context, messageID, readerID string) error
	ListForBooking(bookingID, userID string) ([]models.Message, error)
}
