package user

import "errors"

var (
	// ErrUserNotFound means no account matches the query.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken means the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the two cases are indistinguishable to a caller.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidRole means the requested role cannot be self-assigned.
	ErrInvalidRole = errors.New("invalid account role")
	// ErrAccountInactive means the account was deactivated or merged away.
	ErrAccountInactive = errors.New("account is inactive")
	// ErrBadReferralCode means the supplied referral code matches no account.
	ErrBadReferralCode = errors.New("unknown referral code")
)
