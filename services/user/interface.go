package user

import (
	"context"

	"stagelink/models"
)

// SignUpRequest registers a new organizer or talent account.
type SignUpRequest struct {
	Role         string   `json:"role"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Password     string   `json:"password"`
	StageName    string   `json:"stageName,omitempty"`
	Categories   []string `json:"categories,omitempty"`
	ReferralCode string   `json:"referralCode,omitempty"` // referrer's code, optional
}

// SignInRequest authenticates an existing account.
type SignInRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	DeviceID   string `json:"deviceId"`
	DeviceName string `json:"deviceName"`
}

// AuthResponse carries the signed token and the account it belongs to.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UserService owns accounts: registration, authentication, profiles and the
// referral program.
type UserService interface {
	SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error)
	SignIn(ctx context.Context, req SignInRequest) (*AuthResponse, error)
	SignOut(ctx context.Context, token string) error
	GetProfile(userID string) (*models.User, error)
	UpdateProfile(userID string, updates map[string]any) (*models.User, error)
	UpdateFCMToken(userID, token string) error
	ListTalents(limit int64) ([]models.User, error)
}
