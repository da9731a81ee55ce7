package payment

import (
	"context"
	"errors"
	"testing"

	bookingRepo "stagelink/database/repository/booking"
	transactionRepo "stagelink/database/repository/transaction"
	userRepo "stagelink/database/repository/user"
	"stagelink/models"

	"go.mongodb.org/mongo-driver/bson"
)

type mockTxRepo struct {
	byReference map[string]*models.Transaction
	bookings    *mockBookingRepo
	// stale, when set, is returned by GetByReference instead of the stored
	// row, simulating a read that raced a concurrent completion.
	stale *models.Transaction
}

func (m *mockTxRepo) Create(tx *models.Transaction) error {
	m.byReference[tx.Reference] = tx
	return nil
}

func (m *mockTxRepo) GetByReference(reference string) (*models.Transaction, error) {
	if m.stale != nil && m.stale.Reference == reference {
		cp := *m.stale
		return &cp, nil
	}
	tx, ok := m.byReference[reference]
	if !ok {
		return nil, transactionRepo.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

func (m *mockTxRepo) MarkFailed(reference string) error {
	tx, ok := m.byReference[reference]
	if !ok {
		return transactionRepo.ErrTransactionNotFound
	}
	if tx.Status == models.TransactionStatusPending {
		tx.Status = models.TransactionStatusFailed
	}
	return nil
}

func (m *mockTxRepo) CompleteWithBooking(ctx context.Context, reference, bookingID string) (bool, error) {
	tx, ok := m.byReference[reference]
	if !ok || tx.Status != models.TransactionStatusPending {
		return false, nil
	}
	tx.Status = models.TransactionStatusCompleted
	if b, ok := m.bookings.byID[bookingID]; ok && b.Status == models.BookingStatusPending {
		b.Status = models.BookingStatusAccepted
	}
	return true, nil
}

type mockBookingRepo struct {
	byID map[string]*models.Booking
}

func (m *mockBookingRepo) Create(b *models.Booking) error {
	m.byID[b.ID] = b
	return nil
}

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
	b, ok := m.byID[id]
	if !ok || b.IsPaidOut {
		return false, nil
	}
	b.IsPaidOut = true
	return true, nil
}

func (m *mockBookingRepo) Reassign(string, string) error { return nil }

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
func (m *mockUserRepo) UpdateSetDocument(string, bson.M) error     { return nil }
func (m *mockUserRepo) IncrementReferralCredits(string, int) error { return nil }
func (m *mockUserRepo) ListByRole(string, int64) ([]models.User, error) {
	return nil, nil
}
func (m *mockUserRepo) FindDuplicateCandidates() ([]models.User, error) { return nil, nil }
func (m *mockUserRepo) MarkMerged(string, string) error                 { return nil }

type mockGateway struct {
	verifyStatus string
	verifyErr    error
	initData     *models.PaystackInitData
}

func (m *mockGateway) InitializeTransaction(_ context.Context, _, reference string, _ float64, _ string) (*models.PaystackInitData, error) {
	if m.initData != nil {
		return m.initData, nil
	}
	return &models.PaystackInitData{Reference: reference, AuthorizationURL: "https://checkout.example/" + reference}, nil
}

func (m *mockGateway) VerifyTransaction(_ context.Context, reference string) (*models.PaystackTransactionData, error) {
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	return &models.PaystackTransactionData{Reference: reference, Status: m.verifyStatus}, nil
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

func newPaymentFixture() (*DefaultPaymentService, *mockTxRepo, *mockBookingRepo, *mockNotifier) {
	bookings := &mockBookingRepo{byID: map[string]*models.Booking{
		"bk_1": {
			ID: "bk_1", OrganizerID: "org_1", TalentID: "tal_1",
			Status: models.BookingStatusPending,
			Amount: 500, TalentAmount: 450, Currency: "NGN",
		},
	}}
	txs := &mockTxRepo{
		byReference: map[string]*models.Transaction{
			"ref_pending": {ID: "tx_1", BookingID: "bk_1", Reference: "ref_pending", Status: models.TransactionStatusPending},
		},
		bookings: bookings,
	}
	users := &mockUserRepo{byID: map[string]*models.User{
		"org_1": {ID: "org_1", Role: models.RoleOrganizer, Email: "org@example.com"},
		"tal_1": {ID: "tal_1", Role: models.RoleTalent},
	}}
	notifier := &mockNotifier{}
	svc := &DefaultPaymentService{
		TxRepo:      txs,
		BookingRepo: bookings,
		UserRepo:    users,
		Gateway:     &mockGateway{verifyStatus: "success"},
		Notifier:    notifier,
	}
	return svc, txs, bookings, notifier
}

func TestVerifyPaymentUnknownReference(t *testing.T) {
	svc, txs, bookings, notifier := newPaymentFixture()

	_, err := svc.VerifyPayment(context.Background(), "ref_123", SourceWebhook)
	if !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
	if txs.byReference["ref_pending"].Status != models.TransactionStatusPending {
		t.Errorf("unrelated transaction was mutated")
	}
	if bookings.byID["bk_1"].Status != models.BookingStatusPending {
		t.Errorf("booking was mutated on a failed lookup")
	}
	if len(notifier.sent) != 0 {
		t.Errorf("expected no notifications, got %d", len(notifier.sent))
	}
}

func TestVerifyPaymentCompletesBookingAtomically(t *testing.T) {
	svc, txs, bookings, notifier := newPaymentFixture()

	tx, err := svc.VerifyPayment(context.Background(), "ref_pending", SourceWebhook)
	if err != nil {
		t.Fatalf("VerifyPayment failed: %v", err)
	}
	if tx.Status != models.TransactionStatusCompleted {
		t.Errorf("returned transaction status = %s, want COMPLETED", tx.Status)
	}
	if txs.byReference["ref_pending"].Status != models.TransactionStatusCompleted {
		t.Errorf("stored transaction not completed")
	}
	if bookings.byID["bk_1"].Status != models.BookingStatusAccepted {
		t.Errorf("booking status = %s, want ACCEPTED", bookings.byID["bk_1"].Status)
	}
	if len(notifier.sent) != 2 {
		t.Fatalf("expected notifications to organizer and talent, got %d", len(notifier.sent))
	}
	recipients := map[string]bool{}
	for _, n := range notifier.sent {
		recipients[n.UserID] = true
	}
	if !recipients["org_1"] || !recipients["tal_1"] {
		t.Errorf("unexpected notification recipients: %v", recipients)
	}
}

func TestVerifyPaymentIdempotent(t *testing.T) {
	svc, _, _, notifier := newPaymentFixture()

	if _, err := svc.VerifyPayment(context.Background(), "ref_pending", SourceWebhook); err != nil {
		t.Fatalf("first verification failed: %v", err)
	}
	first := len(notifier.sent)

	tx, err := svc.VerifyPayment(context.Background(), "ref_pending", SourceWebhook)
	if err != nil {
		t.Fatalf("repeat verification failed: %v", err)
	}
	if tx.Status != models.TransactionStatusCompleted {
		t.Errorf("repeat verification status = %s, want COMPLETED", tx.Status)
	}
	if len(notifier.sent) != first {
		t.Errorf("repeat verification sent %d extra notifications", len(notifier.sent)-first)
	}
}

func TestVerifyPaymentLostRaceSendsNothing(t *testing.T) {
	svc, txs, _, notifier := newPaymentFixture()

	// A concurrent verifier wins between our read and our conditional write:
	// the stored row is already COMPLETED while our loaded copy says PENDING.
	txs.byReference["ref_pending"].Status = models.TransactionStatusCompleted
	stale := *txs.byReference["ref_pending"]
	stale.Status = models.TransactionStatusPending
	txs.stale = &stale

	tx, err := svc.VerifyPayment(context.Background(), "ref_pending", SourceWebhook)
	if err != nil {
		t.Fatalf("VerifyPayment failed: %v", err)
	}
	if tx.Status != models.TransactionStatusCompleted {
		t.Errorf("status = %s, want COMPLETED", tx.Status)
	}
	if len(notifier.sent) != 0 {
		t.Errorf("lost race still sent %d notifications", len(notifier.sent))
	}
}

func TestVerifyPaymentPollRejectsUnsuccessfulCharge(t *testing.T) {
	svc, txs, bookings, notifier := newPaymentFixture()
	svc.Gateway = &mockGateway{verifyStatus: "abandoned"}

	_, err := svc.VerifyPayment(context.Background(), "ref_pending", SourcePoll)
	if !errors.Is(err, ErrChargeNotSuccessful) {
		t.Fatalf("expected ErrChargeNotSuccessful, got %v", err)
	}
	if txs.byReference["ref_pending"].Status != models.TransactionStatusPending {
		t.Errorf("transaction mutated on unsuccessful charge")
	}
	if bookings.byID["bk_1"].Status != models.BookingStatusPending {
		t.Errorf("booking mutated on unsuccessful charge")
	}
	if len(notifier.sent) != 0 {
		t.Errorf("expected no notifications, got %d", len(notifier.sent))
	}
}

func TestInitializePaymentRecordsPendingTransaction(t *testing.T) {
	svc, txs, _, _ := newPaymentFixture()

	init, err := svc.InitializePayment(context.Background(), "bk_1", "org_1")
	if err != nil {
		t.Fatalf("InitializePayment failed: %v", err)
	}
	tx, ok := txs.byReference[init.Reference]
	if !ok {
		t.Fatalf("no transaction recorded for reference %s", init.Reference)
	}
	if tx.Status != models.TransactionStatusPending {
		t.Errorf("new transaction status = %s, want PENDING", tx.Status)
	}
	if tx.BookingID != "bk_1" || tx.PayerID != "org_1" {
		t.Errorf("transaction misattributed: %+v", tx)
	}
}

func TestInitializePaymentRejectsForeignBooking(t *testing.T) {
	svc, _, _, _ := newPaymentFixture()

	if _, err := svc.InitializePayment(context.Background(), "bk_1", "tal_1"); err == nil {
		t.Fatal("expected error when payer is not the booking's organizer")
	}
}

func TestFailPaymentMarksPendingTransaction(t *testing.T) {
	svc, txs, bookings, _ := newPaymentFixture()

	if err := svc.FailPayment(context.Background(), "ref_pending"); err != nil {
		t.Fatalf("FailPayment failed: %v", err)
	}
	if got := txs.byReference["ref_pending"].Status; got != models.TransactionStatusFailed {
		t.Errorf("transaction status = %s, want FAILED", got)
	}
	if bookings.byID["bk_1"].Status != models.BookingStatusPending {
		t.Errorf("charge failure touched the booking: %s", bookings.byID["bk_1"].Status)
	}
}

func TestFailPaymentNeverDowngradesCompleted(t *testing.T) {
	svc, txs, _, _ := newPaymentFixture()
	txs.byReference["ref_pending"].Status = models.TransactionStatusCompleted

	if err := svc.FailPayment(context.Background(), "ref_pending"); err != nil {
		t.Fatalf("FailPayment failed: %v", err)
	}
	if got := txs.byReference["ref_pending"].Status; got != models.TransactionStatusCompleted {
		t.Errorf("stale failure event downgraded a completed payment to %s", got)
	}
}

func TestFailPaymentUnknownReference(t *testing.T) {
	svc, _, _, _ := newPaymentFixture()

	if err := svc.FailPayment(context.Background(), "ref_ghost"); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}
