package payout

import "errors"

var (
	// ErrPayoutNotFound means no payout carries the given id.
	ErrPayoutNotFound = errors.New("payout not found")
	// ErrBookingNotFound means the payout points at a missing booking.
	ErrBookingNotFound = errors.New("booking not found for payout")
	// ErrTransferNotFound means no gateway transfer mentions the booking id;
	// the message names the id so an operator can cross-check manually.
	ErrTransferNotFound = errors.New("no gateway transfer matches booking")
)
