package models

import "time"

// User roles.
const (
	RoleOrganizer = "organizer"
	RoleTalent    = "talent"
	RoleAdmin     = "admin"
)

// KYC statuses for talent accounts.
const (
	KYCStatusNone     = "NONE"
	KYCStatusPending  = "PENDING"
	KYCStatusApproved = "APPROVED"
	KYCStatusRejected = "REJECTED"
)

// Device holds a signed-in device for a user account.
type Device struct {
	DeviceID   string    `bson:"device_id" json:"deviceId"`
	DeviceName string    `bson:"device_name" json:"deviceName"`
	TokenHash  string    `bson:"token_hash" json:"-"`
	LastSeenAt time.Time `bson:"last_seen_at" json:"lastSeenAt"`
}

// User is any account on the platform: organizer, talent or admin.
type User struct {
	ID           string `bson:"id" json:"id"`
	Role         string `bson:"role" json:"role"`
	Name         string `bson:"name" json:"name"`
	Email        string `bson:"email" json:"email"`
	Phone        string `bson:"phone" json:"phone"`
	PasswordHash string `bson:"password_hash" json:"-"`
	FCMToken     string `bson:"fcm_token,omitempty" json:"-"`

	// Talent-only fields.
	StageName  string   `bson:"stage_name,omitempty" json:"stageName,omitempty"`
	Categories []string `bson:"categories,omitempty" json:"categories,omitempty"` // e.g. "dj", "mc", "band"
	KYCStatus  string   `bson:"kyc_status,omitempty" json:"kycStatus,omitempty"`
	// PaystackRecipientCode is the gateway-side transfer recipient for payouts.
	PaystackRecipientCode string `bson:"paystack_recipient_code,omitempty" json:"-"`

	// Referral program.
	ReferralCode    string `bson:"referral_code" json:"referralCode"`
	ReferredBy      string `bson:"referred_by,omitempty" json:"referredBy,omitempty"`
	ReferralCredits int    `bson:"referral_credits" json:"referralCredits"`

	// Account lifecycle.
	Active     bool   `bson:"active" json:"active"`
	MergedInto string `bson:"merged_into,omitempty" json:"mergedInto,omitempty"`

	Devices   []Device  `bson:"devices,omitempty" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsTalent reports whether the account can receive bookings and payouts.
func (u *User) IsTalent() bool {
	return u.Role == RoleTalent
}
