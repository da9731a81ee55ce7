package booking

import "errors"

var (
	// ErrBookingNotFound means no booking carries the given id.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrEventNotFound means the referenced event does not exist.
	ErrEventNotFound = errors.New("event not found")
	// ErrTalentNotFound means the referenced talent does not exist.
	ErrTalentNotFound = errors.New("talent not found")
	// ErrNotBookable means the referenced account cannot receive bookings.
	ErrNotBookable = errors.New("account is not a bookable talent")
	// ErrInvalidTransition means the requested status change is not allowed
	// from the booking's current status.
	ErrInvalidTransition = errors.New("invalid booking status transition")
	// ErrNotParticipant means the caller is neither the booking's organizer
	// nor its talent.
	ErrNotParticipant = errors.New("caller is not a participant of this booking")
)
