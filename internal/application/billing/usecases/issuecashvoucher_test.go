package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bajabeat/descargas/internal/application/billing/gateway"
	"github.com/bajabeat/descargas/internal/domain/order"
	vo "github.com/bajabeat/descargas/internal/domain/order/valueobjects"
	apperrors "github.com/bajabeat/descargas/internal/shared/errors"
)

type voucherFixture struct {
	orderRepo *mockOrderRepo
	planRepo  *mockPlanRepo
	userRepo  *mockUserRepo
	voucherGW *mockVoucherGateway
	uc        *IssueCashVoucherUseCase
}

func newVoucherFixture() *voucherFixture {
	f := &voucherFixture{
		orderRepo: new(mockOrderRepo),
		planRepo:  new(mockPlanRepo),
		userRepo:  new(mockUserRepo),
		voucherGW: new(mockVoucherGateway),
	}
	f.uc = NewIssueCashVoucherUseCase(
		f.orderRepo, f.planRepo, f.userRepo, f.voucherGW, 3, testLogger(),
	)
	return f
}

func pendingWithVoucher(t *testing.T, expiresAt time.Time) *order.Order {
	t.Helper()
	ord := pendingOrder(10, 1, 7, vo.PaymentMethodOxxo)
	require.NoError(t, ord.AttachVoucher("pi_1", "930012345678", expiresAt))
	return ord
}

func TestIssueCashVoucher_NewOrder(t *testing.T) {
	f := newVoucherFixture()
	expires := time.Now().UTC().Add(72 * time.Hour)

	f.userRepo.On("GetByID", mock.Anything, uint(1)).Return(testUser(t, 1), nil)
	f.planRepo.On("GetByID", mock.Anything, uint(7)).Return(testPlan(7, 100), nil)
	f.orderRepo.On("GetPendingVoucherOrder", mock.Anything, uint(1), uint(7), vo.PaymentMethodOxxo).
		Return(nil, order.ErrOrderNotFound)
	f.orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
	f.voucherGW.On("CreateVoucher", mock.Anything, mock.MatchedBy(func(req gateway.CreateVoucherRequest) bool {
		return req.AmountInCents == 19900 && req.CustomerEmail == "client@example.com"
	})).Return(&gateway.Voucher{
		ProviderTxnID: "pi_9", Reference: "930099999999", ExpiresAt: expires,
	}, nil)
	f.orderRepo.On("Update", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)

	result, err := f.uc.Execute(context.Background(), IssueCashVoucherCommand{
		UserID: 1, PlanID: 7, Method: "OXXO",
	})
	require.NoError(t, err)

	assert.Equal(t, "930099999999", result.Reference)
	assert.False(t, result.Reused)
	f.voucherGW.AssertExpectations(t)
}

func TestIssueCashVoucher_ReusesLiveVoucher(t *testing.T) {
	f := newVoucherFixture()
	expires := time.Now().UTC().Add(24 * time.Hour)
	pending := pendingWithVoucher(t, expires)

	f.userRepo.On("GetByID", mock.Anything, uint(1)).Return(testUser(t, 1), nil)
	f.planRepo.On("GetByID", mock.Anything, uint(7)).Return(testPlan(7, 100), nil)
	f.orderRepo.On("GetPendingVoucherOrder", mock.Anything, uint(1), uint(7), vo.PaymentMethodOxxo).
		Return(pending, nil)
	f.voucherGW.On("GetVoucher", mock.Anything, "pi_1").Return(&gateway.Voucher{
		ProviderTxnID: "pi_1", Reference: "930012345678", ExpiresAt: expires,
	}, nil)

	result, err := f.uc.Execute(context.Background(), IssueCashVoucherCommand{
		UserID: 1, PlanID: 7, Method: "OXXO",
	})
	require.NoError(t, err)

	assert.True(t, result.Reused)
	assert.Equal(t, "930012345678", result.Reference)
	assert.Equal(t, pending.ID(), result.OrderID)
	// No second charge was issued.
	f.voucherGW.AssertNotCalled(t, "CreateVoucher", mock.Anything, mock.Anything)
	f.orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIssueCashVoucher_ExpiredVoucherGetsFreshOrder(t *testing.T) {
	f := newVoucherFixture()
	stale := pendingWithVoucher(t, time.Now().UTC().Add(-time.Hour))
	freshExpires := time.Now().UTC().Add(72 * time.Hour)

	f.userRepo.On("GetByID", mock.Anything, uint(1)).Return(testUser(t, 1), nil)
	f.planRepo.On("GetByID", mock.Anything, uint(7)).Return(testPlan(7, 100), nil)
	f.orderRepo.On("GetPendingVoucherOrder", mock.Anything, uint(1), uint(7), vo.PaymentMethodOxxo).
		Return(stale, nil)
	f.orderRepo.On("Update", mock.Anything, stale).Return(nil)
	f.orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
	f.voucherGW.On("CreateVoucher", mock.Anything, mock.Anything).Return(&gateway.Voucher{
		ProviderTxnID: "pi_9", Reference: "930099999999", ExpiresAt: freshExpires,
	}, nil)
	f.orderRepo.On("Update", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)

	result, err := f.uc.Execute(context.Background(), IssueCashVoucherCommand{
		UserID: 1, PlanID: 7, Method: "OXXO",
	})
	require.NoError(t, err)

	assert.Equal(t, vo.OrderStatusExpired, stale.Status())
	assert.False(t, result.Reused)
	assert.Equal(t, "930099999999", result.Reference)
}

func TestIssueCashVoucher_RejectsNonVoucherMethod(t *testing.T) {
	f := newVoucherFixture()
	_, err := f.uc.Execute(context.Background(), IssueCashVoucherCommand{
		UserID: 1, PlanID: 7, Method: "STRIPE",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))

	_, err = f.uc.Execute(context.Background(), IssueCashVoucherCommand{
		UserID: 1, PlanID: 7, Method: "bogus",
	})
	require.Error(t, err)
}

func TestIssueCashVoucher_InactivePlanRejected(t *testing.T) {
	f := newVoucherFixture()
	inactive := testPlan(7, 100)
	inactive.Deactivate()

	f.userRepo.On("GetByID", mock.Anything, uint(1)).Return(testUser(t, 1), nil)
	f.planRepo.On("GetByID", mock.Anything, uint(7)).Return(inactive, nil)

	_, err := f.uc.Execute(context.Background(), IssueCashVoucherCommand{
		UserID: 1, PlanID: 7, Method: "OXXO",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}
