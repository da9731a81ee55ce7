package payment

import (
	"context"
	"errors"
	"fmt"

	"stagelink/config"
	bookingRepo "stagelink/database/repository/booking"
	transactionRepo "stagelink/database/repository/transaction"
	userRepo "stagelink/database/repository/user"
	"stagelink/models"
	"stagelink/services/notification"
	"stagelink/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultPaymentService implements PaymentService.
type DefaultPaymentService struct {
	TxRepo      transactionRepo.TransactionRepository
	BookingRepo bookingRepo.BookingRepository
	UserRepo    userRepo.UserRepository
	Gateway     Gateway
	Notifier    notification.NotificationService
}

// InitializePayment creates a PENDING transaction for the booking and asks the
// gateway for an authorization URL the payer is redirected to.
func (s *DefaultPaymentService) InitializePayment(ctx context.Context, bookingID, payerID string) (*models.PaystackInitData, error) {
	booking, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.OrganizerID != payerID {
		return nil, fmt.Errorf("booking %s does not belong to payer", bookingID)
	}
	if booking.Status != models.BookingStatusPending {
		return nil, fmt.Errorf("booking %s is not awaiting payment (status %s)", bookingID, booking.Status)
	}

	payer, err := s.UserRepo.GetByID(payerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payer %s: %w", payerID, err)
	}

	reference := "sl_" + uuid.New().String()
	initData, err := s.Gateway.InitializeTransaction(ctx, payer.Email, reference, booking.Amount, booking.Currency)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gateway transaction: %w", err)
	}

	tx := &models.Transaction{
		ID:        uuid.New().String(),
		BookingID: booking.ID,
		PayerID:   payerID,
		Amount:    booking.Amount,
		Currency:  booking.Currency,
		Reference: initData.Reference,
		Status:    models.TransactionStatusPending,
	}
	if err := s.TxRepo.Create(tx); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}
	return initData, nil
}

// VerifyPayment brings the booking's state into agreement with the gateway's
// confirmation for one external reference. It is idempotent: an already
// completed transaction returns success with no further side effects.
func (s *DefaultPaymentService) VerifyPayment(ctx context.Context, reference, source string) (*models.Transaction, error) {
	logger := utils.GetLogger()

	tx, err := s.TxRepo.GetByReference(reference)
	if err != nil {
		if errors.Is(err, transactionRepo.ErrTransactionNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTransactionNotFound, reference)
		}
		return nil, err
	}

	booking, err := s.BookingRepo.GetByID(tx.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, tx.BookingID)
		}
		return nil, err
	}

	// Duplicate gateway callbacks and repeated user polls land here.
	if tx.Status == models.TransactionStatusCompleted {
		return tx, nil
	}

	// A poll is user-triggered; the gateway is re-checked before anything is
	// written. Webhook events were already verified against the signature.
	if source == SourcePoll {
		data, err := s.Gateway.VerifyTransaction(ctx, reference)
		if err != nil {
			return nil, fmt.Errorf("gateway verification failed for %s: %w", reference, err)
		}
		if data.Status != "success" {
			return nil, fmt.Errorf("%w: %s", ErrChargeNotSuccessful, data.Status)
		}
	}

	// Transaction COMPLETED + booking ACCEPTED as one atomic unit. The
	// conditional update doubles as a compare-and-set: losing the race to a
	// concurrent verification means no duplicate side effects.
	applied, err := s.TxRepo.CompleteWithBooking(ctx, reference, tx.BookingID)
	if err != nil {
		return nil, err
	}
	tx.Status = models.TransactionStatusCompleted
	if !applied {
		logger.Info("payment already reconciled",
			zap.String("reference", reference), zap.String("source", source))
		return tx, nil
	}

	logger.Info("payment reconciled",
		zap.String("reference", reference),
		zap.String("bookingID", booking.ID),
		zap.String("source", source))

	// Notifications are best-effort: failures here never roll back the
	// financial state change.
	s.notifyPaymentCompleted(ctx, booking)

	return tx, nil
}

// FailPayment records a gateway-reported charge failure. The underlying update
// only touches PENDING transactions, so a completed payment is never
// downgraded by a stale failure event.
func (s *DefaultPaymentService) FailPayment(ctx context.Context, reference string) error {
	tx, err := s.TxRepo.GetByReference(reference)
	if err != nil {
		if errors.Is(err, transactionRepo.ErrTransactionNotFound) {
			return fmt.Errorf("%w: %s", ErrTransactionNotFound, reference)
		}
		return err
	}
	if tx.Status != models.TransactionStatusPending {
		return nil
	}
	if err := s.TxRepo.MarkFailed(reference); err != nil {
		return err
	}
	utils.GetLogger().Info("payment marked failed",
		zap.String("reference", reference), zap.String("bookingID", tx.BookingID))
	return nil
}

func (s *DefaultPaymentService) notifyPaymentCompleted(ctx context.Context, booking *models.Booking) {
	logger := utils.GetLogger()
	baseURL := config.AppConfig.AppBaseURL

	payerNote := notification.NewBookingNotification(
		booking.OrganizerID,
		models.NotificationTypePayment,
		"Payment successful",
		fmt.Sprintf("Your payment of %s %.2f was received. The booking is confirmed.", booking.Currency, booking.Amount),
		booking.ID,
		baseURL,
	)
	if err := s.Notifier.Notify(ctx, payerNote); err != nil {
		logger.Warn("failed to notify payer", zap.String("bookingID", booking.ID), zap.Error(err))
	}

	payeeNote := notification.NewBookingNotification(
		booking.TalentID,
		models.NotificationTypePayment,
		"Booking paid",
		fmt.Sprintf("A booking was paid. You will earn %s %.2f after completion.", booking.Currency, booking.TalentAmount),
		booking.ID,
		baseURL,
	)
	if err := s.Notifier.Notify(ctx, payeeNote); err != nil {
		logger.Warn("failed to notify payee", zap.String("bookingID", booking.ID), zap.Error(err))
	}
}
