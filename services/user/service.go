package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	userRepo "stagelink/database/repository/user"
	"stagelink/models"
	"stagelink/services/notification"
	"stagelink/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenDuration  = 72 * time.Hour
	referralReward = 10 // credits per successful referral
)

// DefaultUserService implements UserService.
type DefaultUserService struct {
	Repo     userRepo.UserRepository
	Notifier notification.NotificationService
}

// SignUp registers a new organizer or talent. If the request names a referral
// code, the referrer is credited and notified.
func (s *DefaultUserService) SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error) {
	logger := utils.GetLogger()

	if req.Role != models.RoleOrganizer && req.Role != models.RoleTalent {
		return nil, ErrInvalidRole
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, errors.New("name, email and password are required")
	}

	if _, err := s.Repo.GetByEmail(req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, userRepo.ErrUserNotFound) {
		return nil, err
	}

	var referrer *models.User
	if req.ReferralCode != "" {
		var err error
		referrer, err = s.Repo.GetByReferralCode(req.ReferralCode)
		if err != nil {
			if errors.Is(err, userRepo.ErrUserNotFound) {
				return nil, ErrBadReferralCode
			}
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{
		ID:           uuid.New().String(),
		Role:         req.Role,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		ReferralCode: newReferralCode(),
		Active:       true,
	}
	if req.Role == models.RoleTalent {
		u.StageName = req.StageName
		u.Categories = req.Categories
		u.KYCStatus = models.KYCStatusNone
	}
	if referrer != nil {
		u.ReferredBy = referrer.ID
	}
	if err := s.Repo.Create(u); err != nil {
		return nil, err
	}

	if referrer != nil {
		if err := s.Repo.IncrementReferralCredits(referrer.ID, referralReward); err != nil {
			logger.Error("failed to credit referrer",
				zap.String("referrerID", referrer.ID), zap.Error(err))
		} else if s.Notifier != nil {
			n := notification.NewBookingNotification(referrer.ID, models.NotificationTypeReferral,
				"Referral reward",
				fmt.Sprintf("%s joined with your code. You earned %d credits.", u.Name, referralReward),
				"", "")
			if err := s.Notifier.Notify(ctx, n); err != nil {
				logger.Warn("referral notification failed",
					zap.String("referrerID", referrer.ID), zap.Error(err))
			}
		}
	}

	token, err := s.issueToken(ctx, u, "", "")
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, User: u}, nil
}

// SignIn verifies credentials and issues a signed token. The token's hash is
// cached so the auth middleware can skip signature checks on the hot path.
func (s *DefaultUserService) SignIn(ctx context.Context, req SignInRequest) (*AuthResponse, error) {
	u, err := s.Repo.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.Active || u.MergedInto != "" {
		return nil, ErrAccountInactive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, u, req.DeviceID, req.DeviceName)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, User: u}, nil
}

// issueToken signs a JWT, caches its hash for the auth middleware, and records
// the signing device on the account.
func (s *DefaultUserService) issueToken(ctx context.Context, u *models.User, deviceID, deviceName string) (string, error) {
	token, err := utils.GenerateToken(u.ID, u.Role, tokenDuration)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	tokenHash := utils.HashToken(token)

	if utils.AuthCacheClient != nil {
		if err := utils.AuthCacheClient.Set(ctx,
			utils.AuthCachePrefix+tokenHash, u.ID, utils.AuthCacheTTL).Err(); err != nil {
			utils.GetLogger().Warn("failed to cache auth token", zap.Error(err))
		}
	}

	if deviceID != "" {
		device := models.Device{
			DeviceID:   deviceID,
			DeviceName: deviceName,
			TokenHash:  tokenHash,
			LastSeenAt: time.Now(),
		}
		devices := make([]models.Device, 0, len(u.Devices)+1)
		for _, d := range u.Devices {
			if d.DeviceID != deviceID {
				devices = append(devices, d)
			}
		}
		devices = append(devices, device)
		if err := s.Repo.UpdateSetDocument(u.ID, bson.M{"devices": devices}); err != nil {
			utils.GetLogger().Warn("failed to record device",
				zap.String("userID", u.ID), zap.Error(err))
		}
	}
	return token, nil
}

// SignOut drops the token's cache entry so the middleware stops honoring it.
func (s *DefaultUserService) SignOut(ctx context.Context, token string) error {
	if utils.AuthCacheClient == nil {
		return nil
	}
	return utils.AuthCacheClient.Del(ctx, utils.AuthCachePrefix+utils.HashToken(token)).Err()
}

// GetProfile returns the account for the given id.
func (s *DefaultUserService) GetProfile(userID string) (*models.User, error) {
	u, err := s.Repo.GetByID(userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// profileFields are the only keys UpdateProfile accepts from callers.
var profileFields = map[string]string{
	"name":       "name",
	"phone":      "phone",
	"stageName":  "stage_name",
	"categories": "categories",
}

// UpdateProfile applies a whitelisted partial update and returns the fresh
// account document.
func (s *DefaultUserService) UpdateProfile(userID string, updates map[string]any) (*models.User, error) {
	doc := bson.M{}
	for key, value := range updates {
		if field, ok := profileFields[key]; ok {
			doc[field] = value
		}
	}
	if len(doc) == 0 {
		return nil, errors.New("no updatable fields in request")
	}
	if err := s.Repo.UpdateSetDocument(userID, doc); err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.GetProfile(userID)
}

// UpdateFCMToken stores the device push token used by notification pushes.
func (s *DefaultUserService) UpdateFCMToken(userID, token string) error {
	if err := s.Repo.UpdateSetDocument(userID, bson.M{"fcm_token": token}); err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// ListTalents returns active talent profiles for discovery.
func (s *DefaultUserService) ListTalents(limit int64) ([]models.User, error) {
	return s.Repo.ListByRole(models.RoleTalent, limit)
}

// newReferralCode builds a short shareable code.
func newReferralCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "SL-" + strings.ToUpper(raw[:8])
}
