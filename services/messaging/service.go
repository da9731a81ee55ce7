package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bookingRepo "stagelink/database/repository/booking"
	messageRepo "stagelink/database/repository/message"
	"stagelink/models"
	"stagelink/services/notification"
	"stagelink/services/relay"
	"stagelink/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMessagingService implements MessagingService.
type DefaultMessagingService struct {
	Repo        messageRepo.MessageRepository
	BookingRepo bookingRepo.BookingRepository
	Hub         *relay.Hub
	Notifier    notification.NotificationService
}

// Send persists the message and pushes a message_sent event to the recipient's
// live stream. The recipient is whichever booking participant the sender is
// not.
func (s *DefaultMessagingService) Send(ctx context.Context, req SendMessageRequest) (*models.Message, error) {
	if strings.TrimSpace(req.Body) == "" {
		return nil, ErrEmptyBody
	}

	booking, err := s.BookingRepo.GetByID(req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, req.BookingID)
		}
		return nil, err
	}

	var recipientID string
	switch req.SenderID {
	case booking.OrganizerID:
		recipientID = booking.TalentID
	case booking.TalentID:
		recipientID = booking.OrganizerID
	default:
		return nil, ErrNotParticipant
	}

	msg := &models.Message{
		ID:          uuid.New().String(),
		BookingID:   req.BookingID,
		SenderID:    req.SenderID,
		RecipientID: recipientID,
		Body:        req.Body,
	}
	if err := s.Repo.Create(msg); err != nil {
		return nil, err
	}

	if s.Hub != nil {
		delivered := s.Hub.Deliver(recipientID, relay.Event{Type: relay.EventMessageSent, Data: msg})
		// Offline recipients get a stored notification instead.
		if !delivered && s.Notifier != nil {
			n := notification.NewBookingNotification(recipientID, models.NotificationTypeMessage,
				"New message", "You have a new message.", booking.ID, "")
			if err := s.Notifier.Notify(ctx, n); err != nil {
				utils.GetLogger().Warn("offline message notification failed",
					zap.String("messageID", msg.ID), zap.Error(err))
			}
		}
	}
	return msg, nil
}

// MarkRead records the read receipt and echoes a message_read event back to
// the sender's live stream. Marking an already-read message is a no-op.
func (s *DefaultMessagingService) MarkRead(ctx context.Context, messageID, readerID string) error {
	msg, err := s.Repo.GetByID(messageID)
	if err != nil {
		if errors.Is(err, messageRepo.ErrMessageNotFound) {
			return fmt.Errorf("%w: %s", ErrMessageNotFound, messageID)
		}
		return err
	}
	if msg.RecipientID != readerID {
		return ErrNotRecipient
	}

	now := time.Now()
	applied, err := s.Repo.MarkRead(messageID, readerID, now)
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}

	if s.Hub != nil {
		s.Hub.Deliver(msg.SenderID, relay.Event{Type: relay.EventMessageRead, Data: map[string]any{
			"messageId": msg.ID,
			"bookingId": msg.BookingID,
			"readAt":    now,
		}})
	}
	return nil
}

// ListForBooking returns the conversation for a booking the caller is part of.
func (s *DefaultMessagingService) ListForBooking(bookingID, userID string) ([]models.Message, error) {
	booking, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
		}
		return nil, err
	}
	if booking.OrganizerID != userID && booking.TalentID != userID {
		return nil, ErrNotParticipant
	}
	return s.Repo.ListByBooking(bookingID)
}
