package handlers

import (
	"context"

	"salonify/models"
	"salonify/services/payment"
	"salonify/services/promotion"
	"salonify/services/reservation"
	"salonify/services/user"
	"salonify/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withActor stands in for JWTAuthMiddleware.
func withActor(a models.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(utils.CtxUserID, a.UserID)
		c.Set(utils.CtxRole, a.Role)
		c.Set(utils.CtxToken, "token-"+a.UserID)
		c.Next()
	}
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreateIntent(ctx context.Context, actor models.Actor, reservationID string) (*payment.IntentResult, error) {
	args := m.Called(ctx, actor, reservationID)
	res, _ := args.Get(0).(*payment.IntentResult)
	return res, args.Error(1)
}

func (m *MockPaymentService) Confirm(ctx context.Context, actor models.Actor, req payment.ConfirmRequest) (*payment.ConfirmResult, error) {
	args := m.Called(ctx, actor, req)
	res, _ := args.Get(0).(*payment.ConfirmResult)
	return res, args.Error(1)
}

func (m *MockPaymentService) Reconcile(ctx context.Context, intent *payment.Intent) (*models.PaymentRecord, error) {
	args := m.Called(ctx, intent)
	rec, _ := args.Get(0).(*models.PaymentRecord)
	return rec, args.Error(1)
}

func (m *MockPaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	return m.Called(ctx, payload, signature).Error(0)
}

type MockPromotionService struct {
	mock.Mock
}

func (m *MockPromotionService) Validate(ctx context.Context, req promotion.ValidateRequest) (*promotion.Result, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*promotion.Result)
	return res, args.Error(1)
}

func (m *MockPromotionService) Redeem(ctx context.Context, req promotion.ValidateRequest) (*promotion.Result, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*promotion.Result)
	return res, args.Error(1)
}

func (m *MockPromotionService) Release(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

func (m *MockPromotionService) Create(ctx context.Context, req promotion.CreateRequest) (*models.Promotion, error) {
	args := m.Called(ctx, req)
	p, _ := args.Get(0).(*models.Promotion)
	return p, args.Error(1)
}

func (m *MockPromotionService) List(ctx context.Context, skip int64, limit int) ([]models.Promotion, int64, error) {
	args := m.Called(ctx, skip, limit)
	items, _ := args.Get(0).([]models.Promotion)
	return items, args.Get(1).(int64), args.Error(2)
}

type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) Create(ctx context.Context, actor models.Actor, req reservation.CreateRequest) (*models.Reservation, error) {
	args := m.Called(ctx, actor, req)
	r, _ := args.Get(0).(*models.Reservation)
	return r, args.Error(1)
}

func (m *MockReservationService) Get(ctx context.Context, actor models.Actor, id string) (*models.Reservation, error) {
	args := m.Called(ctx, actor, id)
	r, _ := args.Get(0).(*models.Reservation)
	return r, args.Error(1)
}

func (m *MockReservationService) List(ctx context.Context, actor models.Actor, status models.ReservationStatus, skip int64, limit int) ([]models.Reservation, int64, error) {
	args := m.Called(ctx, actor, status, skip, limit)
	items, _ := args.Get(0).([]models.Reservation)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *MockReservationService) Cancel(ctx context.Context, actor models.Actor, id, reason string) (*models.Reservation, error) {
	args := m.Called(ctx, actor, id, reason)
	r, _ := args.Get(0).(*models.Reservation)
	return r, args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, req user.RegisterRequest, info user.ClientInfo) (*user.AuthResponse, error) {
	args := m.Called(ctx, req, info)
	res, _ := args.Get(0).(*user.AuthResponse)
	return res, args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, req user.LoginRequest, info user.ClientInfo) (*user.AuthResponse, error) {
	args := m.Called(ctx, req, info)
	res, _ := args.Get(0).(*user.AuthResponse)
	return res, args.Error(1)
}

func (m *MockUserService) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}
