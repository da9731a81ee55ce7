package booking

import (
	"context"
	"errors"
	"strings"
	"testing"

	"stagelink/config"
	bookingRepo "stagelink/database/repository/booking"
	eventRepo "stagelink/database/repository/event"
	payoutRepo "stagelink/database/repository/payout"
	userRepo "stagelink/database/repository/user"
	"stagelink/models"

	"go.mongodb.org/mongo-driver/bson"
)

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

func (m *mockBookingRepo) ListByOrganizer(organizerID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.byID {
		if b.OrganizerID == organizerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockBookingRepo) ListByTalent(talentID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.byID {
		if b.TalentID == talentID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockBookingRepo) UpdateStatusFrom(id, from, to string) (bool, error) {
	b, ok := m.byID[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (m *mockBookingRepo) MarkPaidOut(id string) (bool, error) {
	b, ok := m.byID[id]
	if !ok || b.IsPaidOut {
		return false, nil
	}
	b.IsPaidOut = true
	return true, nil
}

func (m *mockBookingRepo) Reassign(string, string) error { return nil }

type mockEventRepo struct {
	byID map[string]*models.Event
}

func (m *mockEventRepo) Create(e *models.Event) error { m.byID[e.ID] = e; return nil }

func (m *mockEventRepo) GetByID(id string) (*models.Event, error) {
	e, ok := m.byID[id]
	if !ok {
		return nil, eventRepo.ErrEventNotFound
	}
	return e, nil
}

func (m *mockEventRepo) ListByOrganizer(string) ([]models.Event, error) { return nil, nil }

type mockUserRepo struct {
	byID map[string]*models.User
}

func (m *mockUserRepo) Create(u *models.User) error { m.byID[u.ID] = u; return nil }
func (m *mockUserRepo) Update(*models.User) error   { return nil }
func (m *mockUserRepo) Delete(string) error         { return nil }

func (m *mockUserRepo) GetByID(id string) (*models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, userRepo.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByIDWithProjection(id string, _ bson.M) (*models.User, error) {
	return m.GetByID(id)
}
func (m *mockUserRepo) GetByEmail(string) (*models.User, error) { return nil, userRepo.ErrUserNotFound }
func (m *mockUserRepo) GetByReferralCode(string) (*models.User, error) {
	return nil, userRepo.ErrUserNotFound
}
func (m *mockUserRepo) UpdateSetDocument(string, bson.M) error          { return nil }
func (m *mockUserRepo) IncrementReferralCredits(string, int) error      { return nil }
func (m *mockUserRepo) ListByRole(string, int64) ([]models.User, error) { return nil, nil }
func (m *mockUserRepo) FindDuplicateCandidates() ([]models.User, error) { return nil, nil }
func (m *mockUserRepo) MarkMerged(string, string) error                 { return nil }

type mockPayoutRepo struct {
	created []*models.Payout
}

func (m *mockPayoutRepo) Create(p *models.Payout) error { m.created = append(m.created, p); return nil }
func (m *mockPayoutRepo) GetByID(string) (*models.Payout, error) {
	return nil, payoutRepo.ErrPayoutNotFound
}
func (m *mockPayoutRepo) ListByTalent(string) ([]models.Payout, error) { return nil, nil }
func (m *mockPayoutRepo) ListPending(int64) ([]models.Payout, error)   { return nil, nil }
func (m *mockPayoutRepo) UpdateStatusAndSnapshot(string, string, *models.PaystackTransfer) error {
	return nil
}
func (m *mockPayoutRepo) UpdateSnapshot(string, *models.PaystackTransfer) error { return nil }

type mockTransferInitiator struct {
	reasons []string
	err     error
}

func (m *mockTransferInitiator) InitiateTransfer(_ context.Context, _, reason string, _ float64, _ string) (*models.PaystackTransfer, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.reasons = append(m.reasons, reason)
	return &models.PaystackTransfer{ID: 1, Reason: reason, Status: models.PaystackTransferPending}, nil
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

func newBookingFixture() (*DefaultBookingService, *mockBookingRepo, *mockPayoutRepo, *mockTransferInitiator, *mockNotifier) {
	config.AppConfig.PlatformFeePercent = 10

	bookings := &mockBookingRepo{byID: map[string]*models.Booking{}}
	events := &mockEventRepo{byID: map[string]*models.Event{
		"ev_1": {ID: "ev_1", OrganizerID: "org_1", Title: "Garden Wedding"},
	}}
	users := &mockUserRepo{byID: map[string]*models.User{
		"org_1": {ID: "org_1", Role: models.RoleOrganizer, Active: true},
		"tal_1": {ID: "tal_1", Role: models.RoleTalent, Active: true, PaystackRecipientCode: "RCP_1"},
	}}
	payouts := &mockPayoutRepo{}
	gateway := &mockTransferInitiator{}
	notifier := &mockNotifier{}

	svc := &DefaultBookingService{
		Repo:       bookings,
		EventRepo:  events,
		UserRepo:   users,
		PayoutRepo: payouts,
		Gateway:    gateway,
		Notifier:   notifier,
	}
	return svc, bookings, payouts, gateway, notifier
}

func TestCreateBookingComputesFeeSplit(t *testing.T) {
	svc, _, _, _, notifier := newBookingFixture()

	b, err := svc.Create(context.Background(), CreateBookingRequest{
		OrganizerID: "org_1", TalentID: "tal_1", EventID: "ev_1", Amount: 1000,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if b.Status != models.BookingStatusPending {
		t.Errorf("new booking status = %s, want PENDING", b.Status)
	}
	if b.PlatformFee != 100 || b.TalentAmount != 900 {
		t.Errorf("fee split = %.2f/%.2f, want 100/900", b.PlatformFee, b.TalentAmount)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].UserID != "tal_1" {
		t.Errorf("expected a request notification to the talent, got %+v", notifier.sent)
	}
}

func TestCreateBookingRejectsNonTalent(t *testing.T) {
	svc, _, _, _, _ := newBookingFixture()

	_, err := svc.Create(context.Background(), CreateBookingRequest{
		OrganizerID: "org_1", TalentID: "org_1", EventID: "ev_1", Amount: 100,
	})
	if !errors.Is(err, ErrNotBookable) {
		t.Fatalf("expected ErrNotBookable, got %v", err)
	}
}

func TestBookingLifecycleTransitions(t *testing.T) {
	svc, bookings, _, _, _ := newBookingFixture()
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBookingRequest{
		OrganizerID: "org_1", TalentID: "tal_1", EventID: "ev_1", Amount: 1000,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.Accept(ctx, b.ID, "tal_1"); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if _, err := svc.Start(ctx, b.ID, "tal_1"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := svc.Complete(ctx, b.ID, "org_1"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got := bookings.byID[b.ID].Status; got != models.BookingStatusCompleted {
		t.Errorf("final status = %s, want COMPLETED", got)
	}
}

func TestInvalidTransitionRejected(t *testing.T) {
	svc, _, _, _, _ := newBookingFixture()
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBookingRequest{
		OrganizerID: "org_1", TalentID: "tal_1", EventID: "ev_1", Amount: 1000,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Cannot start a booking that was never accepted.
	if _, err := svc.Start(ctx, b.ID, "tal_1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	// Cannot complete a booking that is not in progress.
	if _, err := svc.Complete(ctx, b.ID, "org_1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestTransitionsGuardParticipants(t *testing.T) {
	svc, _, _, _, _ := newBookingFixture()
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBookingRequest{
		OrganizerID: "org_1", TalentID: "tal_1", EventID: "ev_1", Amount: 1000,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.Accept(ctx, b.ID, "someone_else"); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
	if _, err := svc.GetForUser(b.ID, "someone_else"); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant on read, got %v", err)
	}
}

func TestCompleteCreatesPayoutWithBookingIDInReason(t *testing.T) {
	svc, _, payouts, gateway, _ := newBookingFixture()
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBookingRequest{
		OrganizerID: "org_1", TalentID: "tal_1", EventID: "ev_1", Amount: 1000,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Accept(ctx, b.ID, "tal_1"); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if _, err := svc.Start(ctx, b.ID, "tal_1"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := svc.Complete(ctx, b.ID, "org_1"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if len(payouts.created) != 1 {
		t.Fatalf("expected one payout, got %d", len(payouts.created))
	}
	p := payouts.created[0]
	if p.Status != models.PayoutStatusPending || p.Amount != 900 || p.TalentID != "tal_1" {
		t.Errorf("payout misrecorded: %+v", p)
	}
	if len(gateway.reasons) != 1 || !strings.Contains(gateway.reasons[0], b.ID) {
		t.Errorf("transfer reason must carry the booking id, got %v", gateway.reasons)
	}
}

func TestCompleteSurvivesTransferFailure(t *testing.T) {
	svc, bookings, payouts, gateway, _ := newBookingFixture()
	gateway.err = errors.New("gateway down")
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBookingRequest{
		OrganizerID: "org_1", TalentID: "tal_1", EventID: "ev_1", Amount: 1000,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Accept(ctx, b.ID, "tal_1"); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if _, err := svc.Start(ctx, b.ID, "tal_1"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if _, err := svc.Complete(ctx, b.ID, "org_1"); err != nil {
		t.Fatalf("Complete should tolerate a transfer failure, got %v", err)
	}
	if bookings.byID[b.ID].Status != models.BookingStatusCompleted {
		t.Errorf("booking not completed after transfer failure")
	}
	if len(payouts.created) != 1 || payouts.created[0].Status != models.PayoutStatusPending {
		t.Errorf("pending payout should remain for the verifier to chase")
	}
}
