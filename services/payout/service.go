package payout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stagelink/config"
	bookingRepo "stagelink/database/repository/booking"
	payoutRepo "stagelink/database/repository/payout"
	"stagelink/models"
	"stagelink/services/notification"
	"stagelink/services/paystack"
	"stagelink/utils"

	"go.uber.org/zap"
)

// TransferLister is the slice of the Paystack client the verifier uses. The
// gateway offers no payout-scoped filter, only the full transfer list.
type TransferLister interface {
	ListTransfers(ctx context.Context) ([]models.PaystackTransfer, error)
}

// PayoutService reconciles local payout records against the gateway's
// authoritative transfer list.
type PayoutService interface {
	VerifyPayout(ctx context.Context, payoutID string) (*models.Payout, error)
	ListForTalent(talentID string) ([]models.Payout, error)
	PendingIDs(limit int64) ([]string, error)
}

// DefaultPayoutService implements PayoutService.
type DefaultPayoutService struct {
	Repo        payoutRepo.PayoutRepository
	BookingRepo bookingRepo.BookingRepository
	Gateway     TransferLister
	Notifier    notification.NotificationService
	// SecretConfigured mirrors the gateway credential check so verification
	// fails fast before any lookup when the key is absent.
	SecretConfigured func() bool
}

func defaultSecretConfigured() bool {
	return config.AppConfig.PaystackSecretKey != ""
}

// VerifyPayout matches the payout's booking against the gateway transfer list
// and advances local status. Correlation is by substring: transfers are
// created with the booking id embedded in their free-text reason.
func (s *DefaultPayoutService) VerifyPayout(ctx context.Context, payoutID string) (*models.Payout, error) {
	logger := utils.GetLogger()

	secretConfigured := s.SecretConfigured
	if secretConfigured == nil {
		secretConfigured = defaultSecretConfigured
	}
	if !secretConfigured() {
		return nil, paystack.ErrNotConfigured
	}

	payout, err := s.Repo.GetByID(payoutID)
	if err != nil {
		if errors.Is(err, payoutRepo.ErrPayoutNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPayoutNotFound, payoutID)
		}
		return nil, err
	}

	booking, err := s.BookingRepo.GetByID(payout.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, payout.BookingID)
		}
		return nil, err
	}

	transfers, err := s.Gateway.ListTransfers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list gateway transfers: %w", err)
	}

	// First match in gateway list order wins; this is the defined tie-break
	// when several transfers mention the same booking.
	var matched *models.PaystackTransfer
	for i := range transfers {
		if strings.Contains(transfers[i].Reason, booking.ID) {
			matched = &transfers[i]
			break
		}
	}
	if matched == nil {
		return nil, fmt.Errorf("%w %s", ErrTransferNotFound, booking.ID)
	}

	newStatus := mapTransferStatus(matched.Status)
	if newStatus == "" {
		// Unrecognized gateway status: keep local status, still record what
		// the gateway returned.
		logger.Warn("unrecognized transfer status, leaving payout unchanged",
			zap.String("payoutID", payout.ID), zap.String("status", matched.Status))
		if err := s.Repo.UpdateSnapshot(payout.ID, matched); err != nil {
			return nil, err
		}
		payout.Transfer = matched
		return payout, nil
	}

	// Statuses advance monotonically: a poll reporting an earlier stage than
	// what we already recorded is ignored.
	if models.PayoutStatusRank(newStatus) <= models.PayoutStatusRank(payout.Status) && newStatus != payout.Status {
		logger.Warn("ignoring payout status regression",
			zap.String("payoutID", payout.ID),
			zap.String("stored", payout.Status),
			zap.String("reported", newStatus))
		if err := s.Repo.UpdateSnapshot(payout.ID, matched); err != nil {
			return nil, err
		}
		payout.Transfer = matched
		return payout, nil
	}

	if err := s.Repo.UpdateStatusAndSnapshot(payout.ID, newStatus, matched); err != nil {
		return nil, err
	}
	payout.Status = newStatus
	payout.Transfer = matched

	if newStatus == models.PayoutStatusCompleted && !booking.IsPaidOut {
		flipped, err := s.BookingRepo.MarkPaidOut(booking.ID)
		if err != nil {
			return nil, err
		}
		if flipped {
			logger.Info("booking marked paid out",
				zap.String("bookingID", booking.ID), zap.String("payoutID", payout.ID))
			s.notifyPaidOut(ctx, payout, booking)
		}
	}

	return payout, nil
}

// mapTransferStatus maps the gateway's transfer vocabulary onto the local
// payout status enum. Unknown statuses map to "" and leave state unchanged.
func mapTransferStatus(gatewayStatus string) string {
	switch gatewayStatus {
	case models.PaystackTransferSuccess:
		return models.PayoutStatusCompleted
	case models.PaystackTransferFailed, models.PaystackTransferReversed, models.PaystackTransferRejected:
		return models.PayoutStatusFailed
	case models.PaystackTransferPending:
		return models.PayoutStatusPending
	default:
		return ""
	}
}

func (s *DefaultPayoutService) notifyPaidOut(ctx context.Context, payout *models.Payout, booking *models.Booking) {
	if s.Notifier == nil {
		return
	}
	logger := utils.GetLogger()
	n := notification.NewBookingNotification(
		payout.TalentID,
		models.NotificationTypePayment,
		"Payout completed",
		fmt.Sprintf("Your payout of %s %.2f has been sent.", payout.Currency, payout.Amount),
		booking.ID,
		config.AppConfig.AppBaseURL,
	)
	if err := s.Notifier.Notify(ctx, n); err != nil {
		logger.Warn("failed to notify talent about payout",
			zap.String("payoutID", payout.ID), zap.Error(err))
	}
}

// ListForTalent returns a talent's payout history.
func (s *DefaultPayoutService) ListForTalent(talentID string) ([]models.Payout, error) {
	return s.Repo.ListByTalent(talentID)
}

// PendingIDs returns ids of payouts still awaiting gateway confirmation; the
// background worker feeds these back into VerifyPayout.
func (s *DefaultPayoutService) PendingIDs(limit int64) ([]string, error) {
	payouts, err := s.Repo.ListPending(limit)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(payouts))
	for _, p := range payouts {
		ids = append(ids, p.ID)
	}
	return ids, nil
}
