package kyc

import (
	"context"
	"errors"
	"fmt"

	kycRepo "stagelink/database/repository/kyc"
	userRepo "stagelink/database/repository/user"
	"stagelink/models"
	"stagelink/services/notification"
	"stagelink/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

var (
	// ErrSubmissionNotFound means no submission carries the given id.
	ErrSubmissionNotFound = errors.New("kyc submission not found")
	// ErrNotTalent means only talent accounts go through verification.
	ErrNotTalent = errors.New("only talents submit kyc documents")
	// ErrAlreadyPending means the talent already has a submission under review.
	ErrAlreadyPending = errors.New("a kyc submission is already under review")
	// ErrAlreadyReviewed means the submission was decided by another reviewer.
	ErrAlreadyReviewed = errors.New("kyc submission already reviewed")
	// ErrBadDecision means the review decision is not APPROVED or REJECTED.
	ErrBadDecision = errors.New("review decision must approve or reject")
)

// SubmitRequest is a talent's identity-verification request. DocumentRefs are
// storage references produced by the upload endpoint, never raw documents.
type SubmitRequest struct {
	TalentID     string   `json:"-"`
	DocumentType string   `json:"documentType"`
	DocumentRefs []string `json:"documentRefs"`
}

// KYCService owns talent identity verification.
type KYCService interface {
	Submit(ctx context.Context, req SubmitRequest) (*models.KYCSubmission, error)
	LatestForTalent(talentID string) (*models.KYCSubmission, error)
	ListPending(limit int64) ([]models.KYCSubmission, error)
	Review(ctx context.Context, submissionID, decision, reason, reviewerID string) (*models.KYCSubmission, error)
}

// DefaultKYCService implements KYCService.
type DefaultKYCService struct {
	Repo     kycRepo.KYCRepository
	UserRepo userRepo.UserRepository
	Notifier notification.NotificationService
}

// Submit files a new verification request and flips the talent's account to
// PENDING while it waits for review.
func (s *DefaultKYCService) Submit(ctx context.Context, req SubmitRequest) (*models.KYCSubmission, error) {
	talent, err := s.UserRepo.GetByID(req.TalentID)
	if err != nil {
		return nil, err
	}
	if !talent.IsTalent() {
		return nil, ErrNotTalent
	}
	if req.DocumentType == "" || len(req.DocumentRefs) == 0 {
		return nil, errors.New("document type and at least one document are required")
	}

	latest, err := s.Repo.GetLatestByTalent(req.TalentID)
	if err != nil && !errors.Is(err, kycRepo.ErrSubmissionNotFound) {
		return nil, err
	}
	if latest != nil && latest.Status == models.KYCStatusPending {
		return nil, ErrAlreadyPending
	}

	sub := &models.KYCSubmission{
		ID:           uuid.New().String(),
		TalentID:     req.TalentID,
		DocumentType: req.DocumentType,
		DocumentRefs: req.DocumentRefs,
		Status:       models.KYCStatusPending,
	}
	if err := s.Repo.Create(sub); err != nil {
		return nil, err
	}
	if err := s.UserRepo.UpdateSetDocument(req.TalentID, bson.M{"kyc_status": models.KYCStatusPending}); err != nil {
		utils.GetLogger().Error("failed to flag talent kyc pending",
			zap.String("talentID", req.TalentID), zap.Error(err))
	}
	return sub, nil
}

// LatestForTalent returns the talent's most recent submission.
func (s *DefaultKYCService) LatestForTalent(talentID string) (*models.KYCSubmission, error) {
	sub, err := s.Repo.GetLatestByTalent(talentID)
	if err != nil {
		if errors.Is(err, kycRepo.ErrSubmissionNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return sub, nil
}

// ListPending returns the review queue, oldest first.
func (s *DefaultKYCService) ListPending(limit int64) ([]models.KYCSubmission, error) {
	return s.Repo.ListPending(limit)
}

// Review decides a pending submission, mirrors the decision onto the talent's
// account and notifies them. Reviews are one-shot: a second decision on the
// same submission fails with ErrAlreadyReviewed.
func (s *DefaultKYCService) Review(ctx context.Context, submissionID, decision, reason, reviewerID string) (*models.KYCSubmission, error) {
	if decision != models.KYCStatusApproved && decision != models.KYCStatusRejected {
		return nil, ErrBadDecision
	}

	sub, err := s.Repo.GetByID(submissionID)
	if err != nil {
		if errors.Is(err, kycRepo.ErrSubmissionNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSubmissionNotFound, submissionID)
		}
		return nil, err
	}

	applied, err := s.Repo.Review(submissionID, decision, reason, reviewerID)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrAlreadyReviewed
	}
	sub.Status = decision
	sub.Reason = reason
	sub.ReviewedBy = reviewerID

	if err := s.UserRepo.UpdateSetDocument(sub.TalentID, bson.M{"kyc_status": decision}); err != nil {
		utils.GetLogger().Error("failed to update talent kyc status",
			zap.String("talentID", sub.TalentID), zap.Error(err))
	}

	s.notifyDecision(ctx, sub)
	return sub, nil
}

func (s *DefaultKYCService) notifyDecision(ctx context.Context, sub *models.KYCSubmission) {
	if s.Notifier == nil {
		return
	}
	title := "Identity verification approved"
	message := "Your identity documents were approved. You can now receive bookings."
	if sub.Status == models.KYCStatusRejected {
		title = "Identity verification rejected"
		message = "Your identity documents were rejected."
		if sub.Reason != "" {
			message = fmt.Sprintf("Your identity documents were rejected: %s", sub.Reason)
		}
	}
	n := notification.NewBookingNotification(sub.TalentID, models.NotificationTypeKYC,
		title, message, "", "")
	if err := s.Notifier.Notify(ctx, n); err != nil {
		utils.GetLogger().Warn("kyc decision notification failed",
			zap.String("talentID", sub.TalentID), zap.Error(err))
	}
}
