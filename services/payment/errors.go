package payment

import "errors"

var (
	// ErrTransactionNotFound means no transaction carries the given reference.
	ErrTransactionNotFound = errors.New("transaction not found for reference")
	// ErrBookingNotFound means the transaction points at a missing booking.
	ErrBookingNotFound = errors.New("booking not found for transaction")
	// ErrChargeNotSuccessful means the gateway does not (yet) report the
	// charge as successful, so local state was left untouched.
	ErrChargeNotSuccessful = errors.New("gateway reports charge not successful")
)
