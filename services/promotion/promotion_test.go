package promotion

import (
	"context"
	"testing"
	"time"

	"salonify/database"
	"salonify/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPromotionRepo struct {
	mock.Mock
}

func (m *MockPromotionRepo) Create(ctx context.Context, p *models.Promotion) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPromotionRepo) GetByCode(ctx context.Context, code string) (*models.Promotion, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Promotion), args.Error(1)
}

func (m *MockPromotionRepo) List(ctx context.Context, skip int64, limit int) ([]models.Promotion, int64, error) {
	args := m.Called(ctx, skip, limit)
	return args.Get(0).([]models.Promotion), args.Get(1).(int64), args.Error(2)
}

func (m *MockPromotionRepo) Redeem(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockPromotionRepo) Release(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(repo *MockPromotionRepo) *DefaultPromotionService {
	s := NewPromotionService(repo)
	s.Now = func() time.Time { return fixedNow }
	return s
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name       string
		promo      models.Promotion
		amount     int64
		savings    int64
		discounted int64
	}{
		{"percentage", models.Promotion{Type: models.PromotionPercentage, Discount: 20}, 5000, 1000, 4000},
		{"percentage rounds half up", models.Promotion{Type: models.PromotionPercentage, Discount: 12.5}, 1004, 126, 878},
		{"percentage capped by max discount", models.Promotion{Type: models.PromotionPercentage, Discount: 50, MaxDiscount: 700}, 5000, 700, 4300},
		{"fixed", models.Promotion{Type: models.PromotionFixed, Discount: 1500}, 5000, 1500, 3500},
		{"fixed larger than amount", models.Promotion{Type: models.PromotionFixed, Discount: 9000}, 5000, 5000, 0},
		{"free service", models.Promotion{Type: models.PromotionFreeService}, 5000, 5000, 0},
		{"zero amount", models.Promotion{Type: models.PromotionPercentage, Discount: 20}, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Compute(&tt.promo, tt.amount)
			assert.Equal(t, tt.savings, c.Savings)
			assert.Equal(t, tt.discounted, c.DiscountedAmount)
			assert.Equal(t, tt.amount, c.Savings+c.DiscountedAmount)
		})
	}
}

func TestCompute_Deterministic(t *testing.T) {
	p := &models.Promotion{Type: models.PromotionPercentage, Discount: 33.333}
	first := Compute(p, 12345)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Compute(p, 12345))
	}
}

func TestValidate_Accepts(t *testing.T) {
	repo := &MockPromotionRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("GetByCode", ctx, "spring20").Return(&models.Promotion{
		Code: "SPRING20", Type: models.PromotionPercentage, Discount: 20, Active: true,
	}, nil)

	res, err := svc.Validate(ctx, ValidateRequest{Code: "spring20", Amount: 5000})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, models.PromotionPercentage, res.Type)
	assert.Equal(t, int64(4000), res.DiscountedAmount)
	assert.Equal(t, int64(1000), res.Savings)
	assert.Empty(t, res.Message)
	repo.AssertExpectations(t)
}

func TestValidate_Rejections(t *testing.T) {
	past := fixedNow.Add(-time.Hour)
	future := fixedNow.Add(time.Hour)

	tests := []struct {
		name  string
		promo models.Promotion
		req   ValidateRequest
		msg   string
	}{
		{"inactive", models.Promotion{Active: false}, ValidateRequest{Amount: 100}, MsgInactive},
		{"not started", models.Promotion{Active: true, StartsAt: &future}, ValidateRequest{Amount: 100}, MsgNotStarted},
		{"expired", models.Promotion{Active: true, ExpiresAt: &past}, ValidateRequest{Amount: 100}, MsgExpired},
		{"usage limit", models.Promotion{Active: true, MaxUses: 3, TimesUsed: 3}, ValidateRequest{Amount: 100}, MsgUsageLimit},
		{"service mismatch", models.Promotion{Active: true, ServiceIDs: []string{"svc-1"}}, ValidateRequest{ServiceID: "svc-2", Amount: 100}, MsgServiceMismatch},
		{"branch mismatch", models.Promotion{Active: true, BranchIDs: []string{"br-1"}}, ValidateRequest{BranchID: "br-2", Amount: 100}, MsgBranchMismatch},
		{"below minimum", models.Promotion{Active: true, MinAmount: 2000}, ValidateRequest{Amount: 1999}, MsgBelowMinimum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockPromotionRepo{}
			svc := newTestService(repo)
			ctx := context.Background()
			tt.req.Code = "CODE"
			promo := tt.promo
			promo.Type = models.PromotionFixed
			promo.Discount = 10
			repo.On("GetByCode", ctx, "CODE").Return(&promo, nil)

			res, err := svc.Validate(ctx, tt.req)
			require.NoError(t, err)
			assert.False(t, res.Valid)
			assert.Equal(t, tt.msg, res.Message)
			assert.Zero(t, res.Savings)
		})
	}
}

func TestValidate_UnknownCode(t *testing.T) {
	repo := &MockPromotionRepo{}
	svc := newTestService(repo)
	ctx := context.Background()
	repo.On("GetByCode", ctx, "NOPE").Return(nil, database.ErrNotFound)

	res, err := svc.Validate(ctx, ValidateRequest{Code: "NOPE", Amount: 100})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, MsgUnknown, res.Message)
}

func TestValidate_HasNoSideEffects(t *testing.T) {
	repo := &MockPromotionRepo{}
	svc := newTestService(repo)
	ctx := context.Background()
	repo.On("GetByCode", ctx, "FREE").Return(&models.Promotion{Type: models.PromotionFreeService, Active: true}, nil)

	_, err := svc.Validate(ctx, ValidateRequest{Code: "FREE", Amount: 100})
	require.NoError(t, err)
	repo.AssertNotCalled(t, "Redeem", mock.Anything, mock.Anything)
}

func TestRedeem_LostRace(t *testing.T) {
	repo := &MockPromotionRepo{}
	svc := newTestService(repo)
	ctx := context.Background()
	repo.On("GetByCode", ctx, "LAST").Return(&models.Promotion{
		Type: models.PromotionFixed, Discount: 100, Active: true, MaxUses: 1,
	}, nil)
	repo.On("Redeem", ctx, "LAST").Return(false, nil)

	res, err := svc.Redeem(ctx, ValidateRequest{Code: "LAST", Amount: 500})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, MsgUsageLimit, res.Message)
}

func TestCreate_RejectsBadPercentage(t *testing.T) {
	repo := &MockPromotionRepo{}
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateRequest{Code: "TOOMUCH", Type: models.PromotionPercentage, Discount: 150})
	require.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_NormalizesCode(t *testing.T) {
	repo := &MockPromotionRepo{}
	svc := newTestService(repo)
	ctx := context.Background()
	repo.On("Create", ctx, mock.MatchedBy(func(p *models.Promotion) bool {
		return p.Code == "WELCOME" && p.Active && p.ID != ""
	})).Return(nil)

	p, err := svc.Create(ctx, CreateRequest{Code: "  welcome ", Type: models.PromotionFixed, Discount: 500})
	require.NoError(t, err)
	assert.Equal(t, "WELCOME", p.Code)
	repo.AssertExpectations(t)
}
