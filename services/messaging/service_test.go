package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	bookingRepo "stagelink/database/repository/booking"
	messageRepo "stagelink/database/repository/message"
	"stagelink/models"
	"stagelink/services/relay"

	"go.uber.org/zap"
)

type mockMessageRepo struct {
	byID map[string]*models.Message
}

func (m *mockMessageRepo) Create(msg *models.Message) error {
	m.byID[msg.ID] = msg
	return nil
}

func (m *mockMessageRepo) GetByID(id string) (*models.Message, error) {
	msg, ok := m.byID[id]
	if !ok {
		return nil, messageRepo.ErrMessageNotFound
	}
	cp := *msg
	return &cp, nil
}

func (m *mockMessageRepo) ListByBooking(bookingID string) ([]models.Message, error) {
	var out []models.Message
	for _, msg := range m.byID {
		if msg.BookingID == bookingID {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (m *mockMessageRepo) MarkRead(id, recipientID string, at time.Time) (bool, error) {
	msg, ok := m.byID[id]
	if !ok || msg.RecipientID != recipientID || msg.Read {
		return false, nil
	}
	msg.Read = true
	msg.ReadAt = &at
	return true, nil
}

func (m *mockMessageRepo) Reassign(string, string) error { return nil }

type mockBookingRepo struct {
	byID map[string]*models.Booking
}

func (m *mockBookingRepo) Create(b *models.Booking) error { m.byID[b.ID] = b; return nil }

func (m *mockBookingRepo) GetByID(id string) (*models.Booking, error) {
	b, ok := m.byID[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *mockBookingRepo) ListByOrganizer(string) ([]models.Booking, error) { return nil, nil }
func (m *mockBookingRepo) ListByTalent(string) ([]models.Booking, error)    { return nil, nil }
func (m *mockBookingRepo) UpdateStatusFrom(string, string, string) (bool, error) {
	return false, nil
}
func (m *mockBookingRepo) MarkPaidOut(string) (bool, error) { return false, nil }
func (m *mockBookingRepo) Reassign(string, string) error    { return nil }

type memStream struct {
	events   []string
	payloads [][]byte
}

func (s *memStream) WriteEvent(eventType string, payload []byte) error {
	s.events = append(s.events, eventType)
	s.payloads = append(s.payloads, payload)
	return nil
}

type mockNotifier struct {
	sent []*models.Notification
}

func (m *mockNotifier) Notify(_ context.Context, n *models.Notification) error {
	m.sent = append(m.sent, n)
	return nil
}
func (m *mockNotifier) ListForUser(string) ([]models.Notification, error) { return nil, nil }
func (m *mockNotifier) MarkRead(string, string) error                     { return nil }
func (m *mockNotifier) MarkAllRead(string) error                          { return nil }

func newMessagingFixture() (*DefaultMessagingService, *mockMessageRepo, *relay.Hub, *mockNotifier) {
	messages := &mockMessageRepo{byID: map[string]*models.Message{}}
	bookings := &mockBookingRepo{byID: map[string]*models.Booking{
		"bk_1": {ID: "bk_1", OrganizerID: "org_1", TalentID: "tal_1", Status: models.BookingStatusAccepted},
	}}
	hub := relay.NewHub(zap.NewNop())
	notifier := &mockNotifier{}
	svc := &DefaultMessagingService{
		Repo:        messages,
		BookingRepo: bookings,
		Hub:         hub,
		Notifier:    notifier,
	}
	return svc, messages, hub, notifier
}

func TestSendDeliversToConnectedRecipient(t *testing.T) {
	svc, _, hub, notifier := newMessagingFixture()
	recipient := &memStream{}
	hub.Register("tal_1", recipient)

	msg, err := svc.Send(context.Background(), SendMessageRequest{
		SenderID: "org_1", BookingID: "bk_1", Body: "soundcheck at 4pm",
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if msg.RecipientID != "tal_1" {
		t.Errorf("recipient = %s, want tal_1", msg.RecipientID)
	}
	if len(recipient.events) != 1 || recipient.events[0] != relay.EventMessageSent {
		t.Errorf("recipient stream frames = %v, want one message_sent", recipient.events)
	}
	if len(notifier.sent) != 0 {
		t.Errorf("connected recipient should not get a stored notification")
	}
}

func TestSendFallsBackToNotificationWhenOffline(t *testing.T) {
	svc, _, _, notifier := newMessagingFixture()

	if _, err := svc.Send(context.Background(), SendMessageRequest{
		SenderID: "tal_1", BookingID: "bk_1", Body: "running late",
	}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].UserID != "org_1" {
		t.Errorf("expected a stored notification for the offline organizer, got %+v", notifier.sent)
	}
}

func TestSendRejectsOutsiders(t *testing.T) {
	svc, _, _, _ := newMessagingFixture()

	_, err := svc.Send(context.Background(), SendMessageRequest{
		SenderID: "stranger", BookingID: "bk_1", Body: "hi",
	})
	if !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}

func TestMarkReadEchoesToSender(t *testing.T) {
	svc, messages, hub, _ := newMessagingFixture()
	sender := &memStream{}
	hub.Register("org_1", sender)

	msg, err := svc.Send(context.Background(), SendMessageRequest{
		SenderID: "org_1", BookingID: "bk_1", Body: "soundcheck at 4pm",
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if err := svc.MarkRead(context.Background(), msg.ID, "tal_1"); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	stored := messages.byID[msg.ID]
	if !stored.Read || stored.ReadAt == nil {
		t.Errorf("read receipt not persisted: %+v", stored)
	}
	if len(sender.events) != 1 || sender.events[0] != relay.EventMessageRead {
		t.Errorf("sender stream frames = %v, want one message_read", sender.events)
	}

	// Marking again is a no-op and must not echo twice.
	if err := svc.MarkRead(context.Background(), msg.ID, "tal_1"); err != nil {
		t.Fatalf("repeat MarkRead failed: %v", err)
	}
	if len(sender.events) != 1 {
		t.Errorf("repeat read echoed %d extra frames", len(sender.events)-1)
	}
}

func TestMarkReadOnlyByRecipient(t *testing.T) {
	svc, _, _, _ := newMessagingFixture()

	msg, err := svc.Send(context.Background(), SendMessageRequest{
		SenderID: "org_1", BookingID: "bk_1", Body: "hello",
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if err := svc.MarkRead(context.Background(), msg.ID, "org_1"); !errors.Is(err, ErrNotRecipient) {
		t.Fatalf("expected ErrNotRecipient, got %v", err)
	}
}

func TestListForBookingGuardsParticipants(t *testing.T) {
	svc, _, _, _ := newMessagingFixture()

	if _, err := svc.ListForBooking("bk_1", "stranger"); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
	if _, err := svc.ListForBooking("bk_1", "org_1"); err != nil {
		t.Fatalf("participant listing failed: %v", err)
	}
}
