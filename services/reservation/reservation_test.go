package reservation

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"salonify/database"
	"salonify/models"
	"salonify/services/events"
	"salonify/services/promotion"
	"salonify/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) Create(ctx context.Context, r *models.Reservation) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockReservationRepo) List(ctx context.Context, f models.ReservationFilter, skip int64, limit int) ([]models.Reservation, int64, error) {
	args := m.Called(ctx, f, skip, limit)
	return args.Get(0).([]models.Reservation), args.Get(1).(int64), args.Error(2)
}

func (m *MockReservationRepo) HasOverlap(ctx context.Context, stylistID string, start, end time.Time, excludeID string) (bool, error) {
	args := m.Called(ctx, stylistID, start, end, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepo) SetPaymentIntent(ctx context.Context, id, intentID string, attempts int) error {
	return m.Called(ctx, id, intentID, attempts).Error(0)
}

func (m *MockReservationRepo) AppendPaymentAttempt(ctx context.Context, id string, a models.PaymentAttempt) error {
	return m.Called(ctx, id, a).Error(0)
}

func (m *MockReservationRepo) MarkConfirmed(ctx context.Context, id, recordID string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, recordID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepo) Cancel(ctx context.Context, id, reason string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, reason, at)
	return args.Bool(0), args.Error(1)
}

type MockPromotionService struct {
	mock.Mock
}

func (m *MockPromotionService) Validate(ctx context.Context, req promotion.ValidateRequest) (*promotion.Result, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(*promotion.Result), args.Error(1)
}

func (m *MockPromotionService) Redeem(ctx context.Context, req promotion.ValidateRequest) (*promotion.Result, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(*promotion.Result), args.Error(1)
}

func (m *MockPromotionService) Release(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

func (m *MockPromotionService) Create(ctx context.Context, req promotion.CreateRequest) (*models.Promotion, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(*models.Promotion), args.Error(1)
}

func (m *MockPromotionService) List(ctx context.Context, skip int64, limit int) ([]models.Promotion, int64, error) {
	args := m.Called(ctx, skip, limit)
	return args.Get(0).([]models.Promotion), args.Get(1).(int64), args.Error(2)
}

type stubCatalog struct {
	services map[string]*models.Service
	stylists map[string]*models.Stylist
	branches map[string]*models.Branch
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		services: map[string]*models.Service{
			"svc-1": {ID: "svc-1", Name: "Cut", DurationMinutes: 60, Price: 5000, Currency: "USD", Active: true},
			"svc-2": {ID: "svc-2", Name: "Colour", DurationMinutes: 90, Price: 9000, Active: true},
		},
		stylists: map[string]*models.Stylist{
			"sty-1": {ID: "sty-1", UserID: "user-sty-1", Name: "Kofi", BranchID: "br-1", ServiceIDs: []string{"svc-1"}, Active: true},
		},
		branches: map[string]*models.Branch{
			"br-1": {ID: "br-1", Name: "Downtown", Active: true},
			"br-2": {ID: "br-2", Name: "Uptown", Active: true},
		},
	}
}

func (c *stubCatalog) CreateBranch(context.Context, *models.Branch) error { return nil }
func (c *stubCatalog) GetBranch(_ context.Context, id string) (*models.Branch, error) {
	if b, ok := c.branches[id]; ok {
		return b, nil
	}
	return nil, database.ErrNotFound
}
func (c *stubCatalog) ListBranches(context.Context, int64, int) ([]models.Branch, int64, error) {
	return nil, 0, nil
}
func (c *stubCatalog) CreateService(context.Context, *models.Service) error { return nil }
func (c *stubCatalog) GetService(_ context.Context, id string) (*models.Service, error) {
	if s, ok := c.services[id]; ok {
		return s, nil
	}
	return nil, database.ErrNotFound
}
func (c *stubCatalog) ListServices(context.Context, int64, int) ([]models.Service, int64, error) {
	return nil, 0, nil
}
func (c *stubCatalog) CreateStylist(context.Context, *models.Stylist) error { return nil }
func (c *stubCatalog) GetStylist(_ context.Context, id string) (*models.Stylist, error) {
	if s, ok := c.stylists[id]; ok {
		return s, nil
	}
	return nil, database.ErrNotFound
}
func (c *stubCatalog) GetStylistByUserID(_ context.Context, userID string) (*models.Stylist, error) {
	for _, s := range c.stylists {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, database.ErrNotFound
}
func (c *stubCatalog) ListStylists(context.Context, models.StylistFilter, int64, int) ([]models.Stylist, int64, error) {
	return nil, 0, nil
}

type stubLocker struct {
	busy bool
}

func (l *stubLocker) Acquire(context.Context, string, time.Duration) (func(), bool, error) {
	if l.busy {
		return nil, false, nil
	}
	return func() {}, true, nil
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, string, string, string, string, map[string]any) {}
func (nopRecorder) List(context.Context, string, int64, int) ([]models.AuditEntry, int64, error) {
	return nil, 0, nil
}

type capturePublisher struct {
	events []events.Event
}

func (p *capturePublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return nil
}
func (p *capturePublisher) Close() error { return nil }

var (
	now    = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	client = models.Actor{UserID: "client-1", Role: models.RoleClient}
)

type fixture struct {
	svc    *DefaultReservationService
	repo   *MockReservationRepo
	promos *MockPromotionService
	locker *stubLocker
	pub    *capturePublisher
}

func newFixture() *fixture {
	f := &fixture{
		repo:   &MockReservationRepo{},
		promos: &MockPromotionService{},
		locker: &stubLocker{},
		pub:    &capturePublisher{},
	}
	f.svc = NewReservationService(f.repo, newStubCatalog(), f.promos, f.locker, nopRecorder{}, f.pub, "usd")
	f.svc.Now = func() time.Time { return now }
	return f
}

func validRequest() CreateRequest {
	return CreateRequest{
		ServiceID:   "svc-1",
		StylistID:   "sty-1",
		BranchID:    "br-1",
		ScheduledAt: now.Add(48 * time.Hour),
	}
}

func TestCreate_StoresPendingReservation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	req := validRequest()
	end := req.ScheduledAt.Add(time.Hour)

	f.repo.On("HasOverlap", ctx, "sty-1", req.ScheduledAt, end, "").Return(false, nil)
	f.repo.On("Create", ctx, mock.AnythingOfType("*models.Reservation")).Return(nil)

	res, err := f.svc.Create(ctx, client, req)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationPending, res.Status)
	assert.Equal(t, "client-1", res.ClientID)
	assert.Equal(t, end, res.EndsAt)
	assert.Equal(t, int64(5000), res.AmountDue)
	assert.Equal(t, "usd", res.Currency)
	require.Len(t, f.pub.events, 1)
	assert.Equal(t, events.ReservationCreated, f.pub.events[0].Type)
	f.repo.AssertExpectations(t)
}

func TestCreate_AppliesPromotion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	req := validRequest()
	req.PromotionCode = " spring20 "

	f.repo.On("HasOverlap", ctx, "sty-1", mock.Anything, mock.Anything, "").Return(false, nil)
	f.promos.On("Redeem", ctx, promotion.ValidateRequest{Code: "SPRING20", ServiceID: "svc-1", BranchID: "br-1", Amount: 5000}).
		Return(&promotion.Result{Valid: true, Type: models.PromotionPercentage, Discount: 20, DiscountedAmount: 4000, Savings: 1000}, nil)
	f.repo.On("Create", ctx, mock.AnythingOfType("*models.Reservation")).Return(nil)

	res, err := f.svc.Create(ctx, client, req)
	require.NoError(t, err)
	assert.Equal(t, "SPRING20", res.PromotionCode)
	assert.Equal(t, int64(5000), res.Subtotal)
	assert.Equal(t, int64(1000), res.Discount)
	assert.Equal(t, int64(4000), res.AmountDue)
}

func TestCreate_RejectedPromotionIsFieldError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	req := validRequest()
	req.PromotionCode = "OLD"

	f.repo.On("HasOverlap", ctx, "sty-1", mock.Anything, mock.Anything, "").Return(false, nil)
	f.promos.On("Redeem", ctx, mock.Anything).Return(&promotion.Result{Valid: false, Message: promotion.MsgExpired}, nil)

	_, err := f.svc.Create(ctx, client, req)
	apiErr := utils.AsAPIError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, []string{promotion.MsgExpired}, apiErr.Errors["promotion_code"])
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_ReleasesPromotionWhenInsertFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	req := validRequest()
	req.PromotionCode = "SPRING20"

	f.repo.On("HasOverlap", ctx, "sty-1", mock.Anything, mock.Anything, "").Return(false, nil)
	f.promos.On("Redeem", ctx, mock.Anything).Return(&promotion.Result{Valid: true, DiscountedAmount: 4000, Savings: 1000}, nil)
	f.promos.On("Release", ctx, "SPRING20").Return(nil).Once()
	f.repo.On("Create", ctx, mock.Anything).Return(errors.New("write failed"))

	_, err := f.svc.Create(ctx, client, req)
	assert.Equal(t, http.StatusInternalServerError, utils.AsAPIError(err).Status)
	f.promos.AssertExpectations(t)
}

func TestCreate_OverlapConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.repo.On("HasOverlap", ctx, "sty-1", mock.Anything, mock.Anything, "").Return(true, nil)

	_, err := f.svc.Create(ctx, client, validRequest())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Equal(t, http.StatusConflict, utils.AsAPIError(err).Status)
}

func TestCreate_SlotLockedConflicts(t *testing.T) {
	f := newFixture()
	f.locker.busy = true

	_, err := f.svc.Create(context.Background(), client, validRequest())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	f.repo.AssertNotCalled(t, "HasOverlap", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*CreateRequest)
		field string
	}{
		{"past time", func(r *CreateRequest) { r.ScheduledAt = now.Add(-time.Minute) }, "scheduled_at"},
		{"unknown service", func(r *CreateRequest) { r.ServiceID = "nope" }, "service_id"},
		{"unknown stylist", func(r *CreateRequest) { r.StylistID = "nope" }, "stylist_id"},
		{"stylist at other branch", func(r *CreateRequest) { r.BranchID = "br-2" }, "stylist_id"},
		{"service not offered", func(r *CreateRequest) { r.ServiceID = "svc-2" }, "service_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := validRequest()
			tt.edit(&req)

			_, err := f.svc.Create(context.Background(), client, req)
			apiErr := utils.AsAPIError(err)
			assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
			assert.Contains(t, apiErr.Errors, tt.field)
		})
	}
}

func TestGet_HidesOtherClientsReservations(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.repo.On("GetByID", ctx, "res-1").Return(&models.Reservation{ID: "res-1", ClientID: "someone-else"}, nil)

	_, err := f.svc.Get(ctx, client, "res-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_ScopesByRole(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		actor  models.Actor
		filter models.ReservationFilter
	}{
		{"client", client, models.ReservationFilter{ClientID: "client-1"}},
		{"stylist", models.Actor{UserID: "user-sty-1", Role: models.RoleStylist}, models.ReservationFilter{StylistID: "sty-1"}},
		{"admin", models.Actor{UserID: "admin-1", Role: models.RoleAdmin}, models.ReservationFilter{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.repo.On("List", ctx, tt.filter, int64(0), 15).Return([]models.Reservation{}, int64(0), nil).Once()

			_, _, err := f.svc.List(ctx, tt.actor, "", 0, 15)
			require.NoError(t, err)
			f.repo.AssertExpectations(t)
		})
	}
}

func TestCancel_PendingReleasesPromotion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.repo.On("GetByID", ctx, "res-1").Return(&models.Reservation{
		ID: "res-1", ClientID: "client-1", Status: models.ReservationPending, PromotionCode: "SPRING20",
	}, nil)
	f.repo.On("Cancel", ctx, "res-1", "changed plans", now).Return(true, nil)
	f.promos.On("Release", ctx, "SPRING20").Return(nil).Once()

	res, err := f.svc.Cancel(ctx, client, "res-1", "changed plans")
	require.NoError(t, err)
	assert.Equal(t, models.ReservationCancelled, res.Status)
	assert.Equal(t, events.ReservationCancelled, f.pub.events[0].Type)
	f.promos.AssertExpectations(t)
}

func TestCancel_ConfirmedKeepsPromotionUse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.repo.On("GetByID", ctx, "res-1").Return(&models.Reservation{
		ID: "res-1", ClientID: "client-1", Status: models.ReservationConfirmed, PromotionCode: "SPRING20",
	}, nil)
	f.repo.On("Cancel", ctx, "res-1", "", now).Return(true, nil)

	_, err := f.svc.Cancel(ctx, client, "res-1", "")
	require.NoError(t, err)
	f.promos.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.repo.On("GetByID", ctx, "res-1").Return(&models.Reservation{
		ID: "res-1", ClientID: "client-1", Status: models.ReservationCancelled,
	}, nil)

	_, err := f.svc.Cancel(ctx, client, "res-1", "")
	assert.ErrorIs(t, err, ErrNotCancellable)
	f.repo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
