package booking

import (
	"context"
	"errors"
	"fmt"

	"stagelink/config"
	bookingRepo "stagelink/database/repository/booking"
	eventRepo "stagelink/database/repository/event"
	payoutRepo "stagelink/database/repository/payout"
	userRepo "stagelink/database/repository/user"
	"stagelink/models"
	"stagelink/services/notification"
	"stagelink/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TransferInitiator is the slice of the Paystack client used when a completed
// booking hands off to a payout.
type TransferInitiator interface {
	InitiateTransfer(ctx context.Context, recipientCode, reason string, amount float64, currency string) (*models.PaystackTransfer, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo       bookingRepo.BookingRepository
	EventRepo  eventRepo.EventRepository
	UserRepo   userRepo.UserRepository
	PayoutRepo payoutRepo.PayoutRepository
	Gateway    TransferInitiator
	Notifier   notification.NotificationService
}

// Create records a new PENDING booking. The platform fee is carved out of the
// gross amount; the rest is what the talent earns on completion.
func (s *DefaultBookingService) Create(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	event, err := s.EventRepo.GetByID(req.EventID)
	if err != nil {
		if errors.Is(err, eventRepo.ErrEventNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrEventNotFound, req.EventID)
		}
		return nil, err
	}
	if event.OrganizerID != req.OrganizerID {
		return nil, fmt.Errorf("event %s does not belong to organizer", req.EventID)
	}

	talent, err := s.UserRepo.GetByID(req.TalentID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTalentNotFound, req.TalentID)
		}
		return nil, err
	}
	if !talent.IsTalent() || !talent.Active {
		return nil, ErrNotBookable
	}

	if req.Amount <= 0 {
		return nil, fmt.Errorf("invalid booking amount %.2f", req.Amount)
	}
	if req.Currency == "" {
		req.Currency = "NGN"
	}

	fee := req.Amount * config.AppConfig.PlatformFeePercent / 100
	booking := &models.Booking{
		ID:           uuid.New().String(),
		OrganizerID:  req.OrganizerID,
		TalentID:     req.TalentID,
		EventID:      req.EventID,
		Status:       models.BookingStatusPending,
		Amount:       req.Amount,
		Currency:     req.Currency,
		PlatformFee:  fee,
		TalentAmount: req.Amount - fee,
		Notes:        req.Notes,
	}
	if err := s.Repo.Create(booking); err != nil {
		return nil, err
	}

	s.notify(ctx, booking.TalentID, "New booking request",
		fmt.Sprintf("You have a new booking request for %s.", event.Title), booking.ID)
	return booking, nil
}

// Accept lets the talent confirm a request ahead of payment.
func (s *DefaultBookingService) Accept(ctx context.Context, bookingID, talentID string) (*models.Booking, error) {
	booking, err := s.transition(bookingID, talentID, roleTalent,
		models.BookingStatusPending, models.BookingStatusAccepted)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, booking.OrganizerID, "Booking accepted",
		"Your booking request was accepted.", booking.ID)
	return booking, nil
}

// Decline rejects a pending request.
func (s *DefaultBookingService) Decline(ctx context.Context, bookingID, talentID string) (*models.Booking, error) {
	booking, err := s.transition(bookingID, talentID, roleTalent,
		models.BookingStatusPending, models.BookingStatusDeclined)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, booking.OrganizerID, "Booking declined",
		"Your booking request was declined.", booking.ID)
	return booking, nil
}

// Start moves an accepted booking into progress on event day.
func (s *DefaultBookingService) Start(ctx context.Context, bookingID, talentID string) (*models.Booking, error) {
	return s.transition(bookingID, talentID, roleTalent,
		models.BookingStatusAccepted, models.BookingStatusInProgress)
}

// Complete closes out the engagement and hands off to the payout flow: a
// PENDING payout is recorded and a gateway transfer initiated with the
// booking id embedded in the transfer reason, which is what the payout
// verifier later correlates on.
func (s *DefaultBookingService) Complete(ctx context.Context, bookingID, organizerID string) (*models.Booking, error) {
	logger := utils.GetLogger()

	booking, err := s.transition(bookingID, organizerID, roleOrganizer,
		models.BookingStatusInProgress, models.BookingStatusCompleted)
	if err != nil {
		return nil, err
	}

	payout := &models.Payout{
		ID:        uuid.New().String(),
		TalentID:  booking.TalentID,
		BookingID: booking.ID,
		Amount:    booking.TalentAmount,
		Currency:  booking.Currency,
		Status:    models.PayoutStatusPending,
	}
	if err := s.PayoutRepo.Create(payout); err != nil {
		return nil, fmt.Errorf("failed to record payout for booking %s: %w", booking.ID, err)
	}

	// Transfer initiation is best-effort here: a failure leaves the payout
	// PENDING with no matching transfer, which the verifier reports as
	// not-found for an operator to chase.
	talent, err := s.UserRepo.GetByID(booking.TalentID)
	if err != nil {
		logger.Error("failed to load talent for transfer", zap.String("bookingID", booking.ID), zap.Error(err))
		return booking, nil
	}
	reason := fmt.Sprintf("StageLink payout for booking %s", booking.ID)
	if _, err := s.Gateway.InitiateTransfer(ctx, talent.PaystackRecipientCode, reason, payout.Amount, payout.Currency); err != nil {
		logger.Error("failed to initiate transfer",
			zap.String("bookingID", booking.ID),
			zap.String("payoutID", payout.ID),
			zap.Error(err))
	}

	s.notify(ctx, booking.TalentID, "Booking completed",
		fmt.Sprintf("The booking is complete. Your payout of %s %.2f is on its way.", payout.Currency, payout.Amount),
		booking.ID)
	return booking, nil
}

// Cancel withdraws a booking that has not started yet.
func (s *DefaultBookingService) Cancel(ctx context.Context, bookingID, organizerID string) (*models.Booking, error) {
	booking, err := s.transition(bookingID, organizerID, roleOrganizer,
		models.BookingStatusPending, models.BookingStatusCancelled)
	if err != nil {
		if !errors.Is(err, ErrInvalidTransition) {
			return nil, err
		}
		// Accepted bookings can still be cancelled before they start.
		booking, err = s.transition(bookingID, organizerID, roleOrganizer,
			models.BookingStatusAccepted, models.BookingStatusCancelled)
		if err != nil {
			return nil, err
		}
	}
	s.notify(ctx, booking.TalentID, "Booking cancelled",
		"A booking you were engaged for was cancelled.", booking.ID)
	return booking, nil
}

const (
	roleOrganizer = "organizer"
	roleTalent    = "talent"
)

// transition loads the booking, checks the caller's side of it, and applies a
// conditional status update so concurrent transitions cannot both win.
func (s *DefaultBookingService) transition(bookingID, callerID, side, from, to string) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
		}
		return nil, err
	}

	switch side {
	case roleOrganizer:
		if booking.OrganizerID != callerID {
			return nil, ErrNotParticipant
		}
	case roleTalent:
		if booking.TalentID != callerID {
			return nil, ErrNotParticipant
		}
	}

	applied, err := s.Repo.UpdateStatusFrom(bookingID, from, to)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, fmt.Errorf("%w: %s -> %s (current %s)", ErrInvalidTransition, from, to, booking.Status)
	}
	booking.Status = to
	return booking, nil
}

// GetForUser returns a booking the caller participates in.
func (s *DefaultBookingService) GetForUser(bookingID, userID string) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
		}
		return nil, err
	}
	if booking.OrganizerID != userID && booking.TalentID != userID {
		return nil, ErrNotParticipant
	}
	return booking, nil
}

// ListForUser returns the caller's bookings for their side of the marketplace.
func (s *DefaultBookingService) ListForUser(userID, role string) ([]models.Booking, error) {
	if role == models.RoleTalent {
		return s.Repo.ListByTalent(userID)
	}
	return s.Repo.ListByOrganizer(userID)
}

func (s *DefaultBookingService) notify(ctx context.Context, userID, title, message, bookingID string) {
	if s.Notifier == nil {
		return
	}
	n := notification.NewBookingNotification(userID, models.NotificationTypeBooking,
		title, message, bookingID, config.AppConfig.AppBaseURL)
	if err := s.Notifier.Notify(ctx, n); err != nil {
		utils.GetLogger().Warn("booking notification failed",
			zap.String("bookingID", bookingID), zap.Error(err))
	}
}
