package payment

import (
	"context"
	"sync"
	"time"

	"salonify/database"
	"salonify/models"
	"salonify/services/events"

	"github.com/stretchr/testify/mock"
)

type fakeReservations struct {
	mu   sync.Mutex
	byID map[string]*models.Reservation
}

func newFakeReservations(rs ...*models.Reservation) *fakeReservations {
	f := &fakeReservations{byID: map[string]*models.Reservation{}}
	for _, r := range rs {
		f.byID[r.ID] = r
	}
	return f
}

func (f *fakeReservations) get(id string) models.Reservation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.byID[id]
}

func (f *fakeReservations) Create(_ context.Context, r *models.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[r.ID] = r
	return nil
}

func (f *fakeReservations) GetByID(_ context.Context, id string) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReservations) List(context.Context, models.ReservationFilter, int64, int) ([]models.Reservation, int64, error) {
	return nil, 0, nil
}

func (f *fakeReservations) HasOverlap(context.Context, string, time.Time, time.Time, string) (bool, error) {
	return false, nil
}

func (f *fakeReservations) SetPaymentIntent(_ context.Context, id, intentID string, attempts int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok || r.Status != models.ReservationPending {
		return database.ErrNotFound
	}
	r.PaymentIntentID = intentID
	r.IntentAttempts = attempts
	return nil
}

func (f *fakeReservations) AppendPaymentAttempt(_ context.Context, id string, a models.PaymentAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.byID[id]
	r.PaymentAttempts = append(r.PaymentAttempts, a)
	return nil
}

func (f *fakeReservations) MarkConfirmed(_ context.Context, id, recordID string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.byID[id]
	if recordID == "" || r.Status != models.ReservationPending {
		return false, nil
	}
	r.Status = models.ReservationConfirmed
	r.PaymentRecordID = recordID
	r.ConfirmedAt = &at
	return true, nil
}

func (f *fakeReservations) Cancel(_ context.Context, id, reason string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.byID[id]
	if r.Status == models.ReservationCancelled {
		return false, nil
	}
	r.Status = models.ReservationCancelled
	r.CancelReason = reason
	r.CancelledAt = &at
	return true, nil
}

type fakePayments struct {
	mu    sync.Mutex
	byRef map[string]*models.PaymentRecord
}

func newFakePayments() *fakePayments {
	return &fakePayments{byRef: map[string]*models.PaymentRecord{}}
}

func (f *fakePayments) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byRef)
}

func (f *fakePayments) InsertOrGet(_ context.Context, rec *models.PaymentRecord) (*models.PaymentRecord, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.byRef[rec.ProviderReference]; ok {
		return existing, false, nil
	}
	f.byRef[rec.ProviderReference] = rec
	return rec, true, nil
}

func (f *fakePayments) GetByProviderReference(_ context.Context, ref string) (*models.PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.byRef[ref]; ok {
		return rec, nil
	}
	return nil, database.ErrNotFound
}

func (f *fakePayments) GetByReservation(_ context.Context, reservationID string) (*models.PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.byRef {
		if rec.ReservationID == reservationID {
			return rec, nil
		}
	}
	return nil, database.ErrNotFound
}

type fakeUsers struct{}

func (fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	return &models.User{ID: id, Name: "Ama", Email: "ama@example.com", Role: models.RoleClient}, nil
}
func (fakeUsers) GetByEmail(context.Context, string) (*models.User, error) { return nil, database.ErrNotFound }
func (fakeUsers) Create(context.Context, *models.User) error              { return nil }

type fakeCatalog struct{}

func (fakeCatalog) CreateBranch(context.Context, *models.Branch) error { return nil }
func (fakeCatalog) GetBranch(_ context.Context, id string) (*models.Branch, error) {
	return &models.Branch{ID: id, Name: "Downtown", Address: "1 Main St", Active: true}, nil
}
func (fakeCatalog) ListBranches(context.Context, int64, int) ([]models.Branch, int64, error) {
	return nil, 0, nil
}
func (fakeCatalog) CreateService(context.Context, *models.Service) error { return nil }
func (fakeCatalog) GetService(_ context.Context, id string) (*models.Service, error) {
	return &models.Service{ID: id, Name: "Cut", DurationMinutes: 45, Price: 5000, Active: true}, nil
}
func (fakeCatalog) ListServices(context.Context, int64, int) ([]models.Service, int64, error) {
	return nil, 0, nil
}
func (fakeCatalog) CreateStylist(context.Context, *models.Stylist) error { return nil }
func (fakeCatalog) GetStylist(_ context.Context, id string) (*models.Stylist, error) {
	return &models.Stylist{ID: id, Name: "Kofi", Active: true}, nil
}
func (fakeCatalog) GetStylistByUserID(context.Context, string) (*models.Stylist, error) {
	return nil, database.ErrNotFound
}
func (fakeCatalog) ListStylists(context.Context, models.StylistFilter, int64, int) ([]models.Stylist, int64, error) {
	return nil, 0, nil
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateIntent(ctx context.Context, p CreateIntentParams) (*Intent, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Intent), args.Error(1)
}

func (m *MockGateway) GetIntent(ctx context.Context, id string) (*Intent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Intent), args.Error(1)
}

func (m *MockGateway) ConfirmIntent(ctx context.Context, id, methodID string) (*Intent, error) {
	args := m.Called(ctx, id, methodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Intent), args.Error(1)
}

func (m *MockGateway) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*WebhookEvent), args.Error(1)
}

type fakeLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[string]bool{}}
}

func (l *fakeLocker) Acquire(_ context.Context, key string, _ time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, false, nil
	}
	l.held[key] = true
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
	}, true, nil
}

type fakeRecorder struct {
	mu      sync.Mutex
	actions []string
}

func (r *fakeRecorder) Record(_ context.Context, _, action, _, _ string, _ map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
}

func (r *fakeRecorder) List(context.Context, string, int64, int) ([]models.AuditEntry, int64, error) {
	return nil, 0, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *fakePublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeNotifier struct {
	mu       sync.Mutex
	payloads []models.ConfirmationPayload
}

func (n *fakeNotifier) NotifyConfirmed(_ context.Context, p models.ConfirmationPayload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.payloads = append(n.payloads, p)
	return nil
}

func (n *fakeNotifier) Deliver(context.Context, models.ConfirmationPayload) error { return nil }
