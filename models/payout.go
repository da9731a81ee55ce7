package models

import "time"

// Payout statuses. Ranks are monotonic: once a payout reaches a terminal
// status, a later gateway poll reporting an earlier status is ignored.
const (
	PayoutStatusPending   = "PENDING"
	PayoutStatusFailed    = "FAILED"
	PayoutStatusCompleted = "COMPLETED"
)

// PayoutStatusRank orders payout statuses for the monotonic-advance rule:
// PENDING < FAILED < COMPLETED. A FAILED payout can still complete when the
// gateway later reports the transfer succeeded. Unknown statuses rank below
// everything so they never overwrite known state.
func PayoutStatusRank(status string) int {
	switch status {
	case PayoutStatusPending:
		return 1
	case PayoutStatusFailed:
		return 2
	case PayoutStatusCompleted:
		return 3
	default:
		return 0
	}
}

// Payout is an outbound transfer of earned funds to a talent, tracked against
// the gateway's transfer object. Transfer holds the raw gateway snapshot from
// the most recent verification.
type Payout struct {
	ID        string            `bson:"id" json:"id"`
	TalentID  string            `bson:"talent_id" json:"talentId"`
	BookingID string            `bson:"booking_id" json:"bookingId"`
	Amount    float64           `bson:"amount" json:"amount"`
	Currency  string            `bson:"currency" json:"currency"`
	Status    string            `bson:"status" json:"status"`
	Transfer  *PaystackTransfer `bson:"transfer,omitempty" json:"transfer,omitempty"`
	CreatedAt time.Time         `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time         `bson:"updated_at" json:"updatedAt"`
}
