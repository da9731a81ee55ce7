package models

import "encoding/json"

// Paystack transfer statuses as returned by the gateway.
const (
	PaystackTransferSuccess  = "success"
	PaystackTransferFailed   = "failed"
	PaystackTransferReversed = "reversed"
	PaystackTransferRejected = "rejected"
	PaystackTransferPending  = "pending"
)

// PaystackTransfer is one entry of the gateway's transfer list. Reason is
// free text; transfers created by us embed the booking id in it, which the
// payout verifier uses as its correlation token.
type PaystackTransfer struct {
	ID        int64   `bson:"id" json:"id"`
	Reference string  `bson:"reference" json:"reference"`
	Reason    string  `bson:"reason" json:"reason"`
	Status    string  `bson:"status" json:"status"`
	Amount    float64 `bson:"amount" json:"amount"`
	Currency  string  `bson:"currency" json:"currency"`
	CreatedAt string  `bson:"createdAt" json:"createdAt"`
}

// PaystackTransactionData is the verification payload for a single transaction.
type PaystackTransactionData struct {
	ID        int64   `json:"id"`
	Reference string  `json:"reference"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	PaidAt    string  `json:"paid_at"`
}

// PaystackInitData is returned when a transaction is initialized.
type PaystackInitData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// PaystackWebhookEvent is the envelope Paystack posts to our webhook endpoint.
type PaystackWebhookEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}
