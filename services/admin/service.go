package admin

import (
	"errors"
	"fmt"

	bookingRepo "stagelink/database/repository/booking"
	messageRepo "stagelink/database/repository/message"
	notificationRepo "stagelink/database/repository/notification"
	userRepo "stagelink/database/repository/user"
	"stagelink/models"
	"stagelink/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

var (
	// ErrUserNotFound means one of the referenced accounts does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrSameAccount means primary and duplicate are the same account.
	ErrSameAccount = errors.New("cannot merge an account into itself")
	// ErrAlreadyMerged means the duplicate was already folded into another
	// account.
	ErrAlreadyMerged = errors.New("account is already merged")
	// ErrRoleMismatch means the two accounts play different marketplace roles.
	ErrRoleMismatch = errors.New("accounts with different roles cannot be merged")
)

// DuplicateGroup is a set of accounts that look like the same person.
type DuplicateGroup struct {
	Key   string        `json:"key"` // shared email or phone
	Users []models.User `json:"users"`
}

// AdminService owns platform moderation: account listings, deactivation, and
// duplicate-account detection and merging.
type AdminService interface {
	ListUsers(role string, limit int64) ([]models.User, error)
	SetActive(userID string, active bool) error
	FindDuplicates() ([]DuplicateGroup, error)
	MergeAccounts(primaryID, duplicateID string) (*models.User, error)
}

// DefaultAdminService implements AdminService.
type DefaultAdminService struct {
	UserRepo         userRepo.UserRepository
	BookingRepo      bookingRepo.BookingRepository
	MessageRepo      messageRepo.MessageRepository
	NotificationRepo notificationRepo.NotificationRepository
}

// ListUsers returns accounts, optionally filtered by role.
func (s *DefaultAdminService) ListUsers(role string, limit int64) ([]models.User, error) {
	return s.UserRepo.ListByRole(role, limit)
}

// SetActive toggles an account's active flag.
func (s *DefaultAdminService) SetActive(userID string, active bool) error {
	if err := s.UserRepo.UpdateSetDocument(userID, bson.M{"active": active}); err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// FindDuplicates groups candidate accounts by the contact field they share.
// Groups are keyed by email when emails collide, otherwise by phone.
func (s *DefaultAdminService) FindDuplicates() ([]DuplicateGroup, error) {
	candidates, err := s.UserRepo.FindDuplicateCandidates()
	if err != nil {
		return nil, err
	}

	byEmail := map[string][]models.User{}
	byPhone := map[string][]models.User{}
	for _, u := range candidates {
		if u.Email != "" {
			byEmail[u.Email] = append(byEmail[u.Email], u)
		}
		if u.Phone != "" {
			byPhone[u.Phone] = append(byPhone[u.Phone], u)
		}
	}

	var groups []DuplicateGroup
	seen := map[string]bool{}
	for key, users := range byEmail {
		if len(users) < 2 {
			continue
		}
		groups = append(groups, DuplicateGroup{Key: key, Users: users})
		for _, u := range users {
			seen[u.ID] = true
		}
	}
	for key, users := range byPhone {
		if len(users) < 2 {
			continue
		}
		fresh := users[:0:0]
		for _, u := range users {
			if !seen[u.ID] {
				fresh = append(fresh, u)
			}
		}
		if len(fresh) >= 2 {
			groups = append(groups, DuplicateGroup{Key: key, Users: fresh})
		}
	}
	return groups, nil
}

// MergeAccounts folds the duplicate account into the primary: bookings,
// messages and notifications move over, referral credits are combined, and the
// duplicate is deactivated with a pointer at the account that absorbed it.
func (s *DefaultAdminService) MergeAccounts(primaryID, duplicateID string) (*models.User, error) {
	logger := utils.GetLogger()

	if primaryID == duplicateID {
		return nil, ErrSameAccount
	}
	primary, err := s.UserRepo.GetByID(primaryID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, primaryID)
		}
		return nil, err
	}
	duplicate, err := s.UserRepo.GetByID(duplicateID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, duplicateID)
		}
		return nil, err
	}
	if duplicate.MergedInto != "" {
		return nil, ErrAlreadyMerged
	}
	if primary.MergedInto != "" {
		return nil, fmt.Errorf("%w: primary %s", ErrAlreadyMerged, primaryID)
	}
	if primary.Role != duplicate.Role {
		return nil, ErrRoleMismatch
	}

	// Mark the duplicate first so a crash mid-merge leaves it locked out
	// rather than half-owning its history.
	if err := s.UserRepo.MarkMerged(duplicateID, primaryID); err != nil {
		return nil, err
	}

	if err := s.BookingRepo.Reassign(duplicateID, primaryID); err != nil {
		logger.Error("failed to reassign bookings during merge",
			zap.String("duplicateID", duplicateID), zap.Error(err))
		return nil, err
	}
	if err := s.MessageRepo.Reassign(duplicateID, primaryID); err != nil {
		logger.Error("failed to reassign messages during merge",
			zap.String("duplicateID", duplicateID), zap.Error(err))
		return nil, err
	}
	if err := s.NotificationRepo.Reassign(duplicateID, primaryID); err != nil {
		logger.Error("failed to reassign notifications during merge",
			zap.String("duplicateID", duplicateID), zap.Error(err))
		return nil, err
	}

	if duplicate.ReferralCredits > 0 {
		if err := s.UserRepo.IncrementReferralCredits(primaryID, duplicate.ReferralCredits); err != nil {
			logger.Error("failed to move referral credits during merge",
				zap.String("primaryID", primaryID), zap.Error(err))
		}
	}

	logger.Info("accounts merged",
		zap.String("primaryID", primaryID), zap.String("duplicateID", duplicateID))
	return s.UserRepo.GetByID(primaryID)
}
