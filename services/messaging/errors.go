package messaging

import "errors"

var (
	// ErrBookingNotFound means the conversation's booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrMessageNotFound means no message carries the given id.
	ErrMessageNotFound = errors.New("message not found")
	// ErrNotParticipant means the caller is not on either side of the booking.
	ErrNotParticipant = errors.New("caller is not a participant of this conversation")
	// ErrNotRecipient means someone other than the recipient tried to mark a
	// message read.
	ErrNotRecipient = errors.New("only the recipient can mark a message read")
	// ErrEmptyBody means the message has no content.
	ErrEmptyBody = errors.New("message body is empty")
)
