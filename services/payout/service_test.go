package payout

import (
	"context"
	"errors"
	"strings"
	"testing"

	bookingRepo "stagelink/database/repository/booking"
	payoutRepo "stagelink/database/repository/payout"
	"stagelink/models"
)

type mockPayoutRepo struct {
	byID map[string]*models.Payout
}

func (m *mockPayoutRepo) Create(p *models.Payout) error { m.byID[p.ID] = p; return nil }

func (m *mockPayoutRepo) GetByID(id string) (*models.Payout, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, payoutRepo.ErrPayoutNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPayoutRepo) ListByTalent(talentID string) ([]models.Payout, error) {
	var out []models.Payout
	for _, p := range m.byID {
		if p.TalentID == talentID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockPayoutRepo) ListPending(limit int64) ([]models.Payout, error) {
	var out []models.Payout
	for _, p := range m.byID {
		if p.Status == models.PayoutStatusPending && int64(len(out)) < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockPayoutRepo) UpdateStatusAndSnapshot(id, status string, transfer *models.PaystackTransfer) error {
	p, ok := m.byID[id]
	if !ok {
		return payoutRepo.ErrPayoutNotFound
	}
	p.Status = status
	p.Transfer = transfer
	return nil
}

func (m *mockPayoutRepo) UpdateSnapshot(id string, transfer *models.PaystackTransfer) error {
	p, ok := m.byID[id]
	if !ok {
		return payoutRepo.ErrPayoutNotFound
	}
	p.Transfer = transfer
	return nil
}

type mockBookingRepo struct {
	byID         map[string]*models.Booking
	paidOutCalls int
	paidOutFlips int
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

func (m *mockBookingRepo) UpdateStatusFrom(id, from, to string) (bool, error) {
	b, ok := m.byID[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (m *mockBookingRepo) MarkPaidOut(id string) (bool, error) {
	m.paidOutCalls++
	b, ok := m.byID[id]
	if !ok || b.IsPaidOut {
		return false, nil
	}
	b.IsPaidOut = true
	m.paidOutFlips++
	return true, nil
}

func (m *mockBookingRepo) Reassign(string, string) error { return nil }

type mockTransferLister struct {
	transfers []models.PaystackTransfer
	err       error
}

func (m *mockTransferLister) ListTransfers(context.Context) ([]models.PaystackTransfer, error) {
	return m.transfers, m.err
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

func newPayoutFixture(transfers []models.PaystackTransfer) (*DefaultPayoutService, *mockPayoutRepo, *mockBookingRepo, *mockNotifier) {
	payouts := &mockPayoutRepo{byID: map[string]*models.Payout{
		"po_1": {
			ID: "po_1", TalentID: "tal_1", BookingID: "bk_9",
			Amount: 450, Currency: "NGN", Status: models.PayoutStatusPending,
		},
	}}
	bookings := &mockBookingRepo{byID: map[string]*models.Booking{
		"bk_9": {
			ID: "bk_9", OrganizerID: "org_1", TalentID: "tal_1",
			Status: models.BookingStatusCompleted,
		},
	}}
	notifier := &mockNotifier{}
	svc := &DefaultPayoutService{
		Repo:             payouts,
		BookingRepo:      bookings,
		Gateway:          &mockTransferLister{transfers: transfers},
		Notifier:         notifier,
		SecretConfigured: func() bool { return true },
	}
	return svc, payouts, bookings, notifier
}

func TestVerifyPayoutSuccessMarksPaidOutOnce(t *testing.T) {
	svc, payouts, bookings, notifier := newPayoutFixture([]models.PaystackTransfer{
		{ID: 1, Reason: "StageLink payout for booking bk_9", Status: models.PaystackTransferSuccess},
	})

	p, err := svc.VerifyPayout(context.Background(), "po_1")
	if err != nil {
		t.Fatalf("VerifyPayout failed: %v", err)
	}
	if p.Status != models.PayoutStatusCompleted {
		t.Errorf("payout status = %s, want COMPLETED", p.Status)
	}
	if p.Transfer == nil || p.Transfer.ID != 1 {
		t.Errorf("transfer snapshot not recorded: %+v", p.Transfer)
	}
	if !bookings.byID["bk_9"].IsPaidOut {
		t.Errorf("booking not marked paid out")
	}
	if len(notifier.sent) != 1 || notifier.sent[0].UserID != "tal_1" {
		t.Errorf("expected one payout notification to the talent, got %+v", notifier.sent)
	}

	// A second verification must not flip the flag or notify again.
	if _, err := svc.VerifyPayout(context.Background(), "po_1"); err != nil {
		t.Fatalf("repeat VerifyPayout failed: %v", err)
	}
	if bookings.paidOutFlips != 1 {
		t.Errorf("paid-out flag flipped %d times, want exactly once", bookings.paidOutFlips)
	}
	if len(notifier.sent) != 1 {
		t.Errorf("repeat verification sent extra notifications: %d", len(notifier.sent))
	}
	if payouts.byID["po_1"].Status != models.PayoutStatusCompleted {
		t.Errorf("stored payout status changed on repeat: %s", payouts.byID["po_1"].Status)
	}
}

func TestVerifyPayoutFailureStatuses(t *testing.T) {
	for _, gatewayStatus := range []string{
		models.PaystackTransferFailed,
		models.PaystackTransferReversed,
		models.PaystackTransferRejected,
	} {
		t.Run(gatewayStatus, func(t *testing.T) {
			svc, payouts, bookings, notifier := newPayoutFixture([]models.PaystackTransfer{
				{ID: 7, Reason: "payout bk_9", Status: gatewayStatus},
			})

			p, err := svc.VerifyPayout(context.Background(), "po_1")
			if err != nil {
				t.Fatalf("VerifyPayout failed: %v", err)
			}
			if p.Status != models.PayoutStatusFailed {
				t.Errorf("payout status = %s, want FAILED", p.Status)
			}
			if payouts.byID["po_1"].Transfer == nil {
				t.Errorf("failing transfer snapshot not recorded")
			}
			if bookings.byID["bk_9"].IsPaidOut {
				t.Errorf("failed transfer marked booking paid out")
			}
			if len(notifier.sent) != 0 {
				t.Errorf("failed transfer sent %d notifications", len(notifier.sent))
			}
		})
	}
}

func TestVerifyPayoutUnknownStatusLeavesPayoutUnchanged(t *testing.T) {
	svc, payouts, _, _ := newPayoutFixture([]models.PaystackTransfer{
		{ID: 3, Reason: "payout bk_9", Status: "otp"},
	})

	p, err := svc.VerifyPayout(context.Background(), "po_1")
	if err != nil {
		t.Fatalf("VerifyPayout failed: %v", err)
	}
	if p.Status != models.PayoutStatusPending {
		t.Errorf("unknown gateway status changed payout to %s", p.Status)
	}
	if payouts.byID["po_1"].Transfer == nil || payouts.byID["po_1"].Transfer.ID != 3 {
		t.Errorf("snapshot not recorded for unknown status")
	}
}

func TestVerifyPayoutNoMatchingTransfer(t *testing.T) {
	svc, payouts, _, _ := newPayoutFixture([]models.PaystackTransfer{
		{ID: 4, Reason: "payout for booking bk_7", Status: models.PaystackTransferSuccess},
	})

	_, err := svc.VerifyPayout(context.Background(), "po_1")
	if !errors.Is(err, ErrTransferNotFound) {
		t.Fatalf("expected ErrTransferNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "bk_9") {
		t.Errorf("error should name the booking id for operators: %v", err)
	}
	if payouts.byID["po_1"].Status != models.PayoutStatusPending {
		t.Errorf("payout status changed on a failed match: %s", payouts.byID["po_1"].Status)
	}
}

func TestVerifyPayoutFirstMatchWins(t *testing.T) {
	svc, _, _, _ := newPayoutFixture([]models.PaystackTransfer{
		{ID: 10, Reason: "retry payout bk_9", Status: models.PaystackTransferPending},
		{ID: 11, Reason: "original payout bk_9", Status: models.PaystackTransferSuccess},
	})

	p, err := svc.VerifyPayout(context.Background(), "po_1")
	if err != nil {
		t.Fatalf("VerifyPayout failed: %v", err)
	}
	if p.Transfer == nil || p.Transfer.ID != 10 {
		t.Errorf("expected the first matching transfer (id 10), got %+v", p.Transfer)
	}
	if p.Status != models.PayoutStatusPending {
		t.Errorf("payout status = %s, want PENDING from the first match", p.Status)
	}
}

func TestVerifyPayoutFailedThenSuccessCompletes(t *testing.T) {
	svc, payouts, bookings, notifier := newPayoutFixture([]models.PaystackTransfer{
		{ID: 8, Reason: "payout bk_9", Status: models.PaystackTransferSuccess},
	})
	payouts.byID["po_1"].Status = models.PayoutStatusFailed

	p, err := svc.VerifyPayout(context.Background(), "po_1")
	if err != nil {
		t.Fatalf("VerifyPayout failed: %v", err)
	}
	if p.Status != models.PayoutStatusCompleted {
		t.Errorf("successful transfer left a FAILED payout at %s", p.Status)
	}
	if !bookings.byID["bk_9"].IsPaidOut {
		t.Errorf("booking not marked paid out after late success")
	}
	if len(notifier.sent) != 1 || notifier.sent[0].UserID != "tal_1" {
		t.Errorf("expected one payout notification to the talent, got %+v", notifier.sent)
	}
}

func TestVerifyPayoutIgnoresStatusRegression(t *testing.T) {
	svc, payouts, _, _ := newPayoutFixture([]models.PaystackTransfer{
		{ID: 12, Reason: "payout bk_9", Status: models.PaystackTransferPending},
	})
	payouts.byID["po_1"].Status = models.PayoutStatusCompleted

	p, err := svc.VerifyPayout(context.Background(), "po_1")
	if err != nil {
		t.Fatalf("VerifyPayout failed: %v", err)
	}
	if p.Status != models.PayoutStatusCompleted {
		t.Errorf("regression overwrote COMPLETED with %s", p.Status)
	}
	if payouts.byID["po_1"].Transfer == nil || payouts.byID["po_1"].Transfer.ID != 12 {
		t.Errorf("snapshot should still be recorded on a regression")
	}
}

func TestVerifyPayoutFailsFastWithoutSecret(t *testing.T) {
	svc, payouts, _, _ := newPayoutFixture(nil)
	svc.SecretConfigured = func() bool { return false }

	if _, err := svc.VerifyPayout(context.Background(), "po_1"); err == nil {
		t.Fatal("expected configuration error")
	}
	if payouts.byID["po_1"].Status != models.PayoutStatusPending {
		t.Errorf("payout mutated despite missing credentials")
	}
}

func TestVerifyPayoutUnknownPayout(t *testing.T) {
	svc, _, _, _ := newPayoutFixture(nil)

	if _, err := svc.VerifyPayout(context.Background(), "po_missing"); !errors.Is(err, ErrPayoutNotFound) {
		t.Fatalf("expected ErrPayoutNotFound, got %v", err)
	}
}
