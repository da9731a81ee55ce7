package payment

import (
	"context"

	"stagelink/models"
)

// Verification sources. A webhook arrives signed from the gateway; a poll is
// user-triggered and must re-check the gateway first. Both funnel into the
// same completion path.
const (
	SourceWebhook = "webhook"
	SourcePoll    = "poll"
)

// PaymentService owns the payment lifecycle of a booking: initiating a charge
// and reconciling local state against the gateway's confirmation.
type PaymentService interface {
	InitializePayment(ctx context.Context, bookingID, payerID string) (*models.PaystackInitData, error)
	VerifyPayment(ctx context.Context, reference, source string) (*models.Transaction, error)
	FailPayment(ctx context.Context, reference string) error
}

// Gateway is the slice of the Paystack client the payment service uses.
type Gateway interface {
	InitializeTransaction(ctx context.Context, email, reference string, amount float64, currency string) (*models.PaystackInitData, error)
	VerifyTransaction(ctx context.Context, reference string) (*models.PaystackTransactionData, error)
}
