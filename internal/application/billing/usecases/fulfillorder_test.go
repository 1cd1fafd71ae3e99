package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	vo "github.com/bajabeat/descargas/internal/domain/order/valueobjects"
	"github.com/bajabeat/descargas/internal/domain/plan"
	"github.com/bajabeat/descargas/internal/domain/quota"
	"github.com/bajabeat/descargas/internal/domain/subscription"
	apperrors "github.com/bajabeat/descargas/internal/shared/errors"
)

type fulfillFixture struct {
	orderRepo   *mockOrderRepo
	planRepo    *mockPlanRepo
	addonRepo   *mockAddonRepo
	subRepo     *mockSubRepo
	userRepo    *mockUserRepo
	limitsRepo  *mockLimitsRepo
	accountRepo *mockAccountRepo
	alerts      *mockAlertNotifier
	uc          *FulfillOrderUseCase
}

func newFulfillFixture() *fulfillFixture {
	f := &fulfillFixture{
		orderRepo:   new(mockOrderRepo),
		planRepo:    new(mockPlanRepo),
		addonRepo:   new(mockAddonRepo),
		subRepo:     new(mockSubRepo),
		userRepo:    new(mockUserRepo),
		limitsRepo:  new(mockLimitsRepo),
		accountRepo: new(mockAccountRepo),
		alerts:      new(mockAlertNotifier),
	}
	f.uc = NewFulfillOrderUseCase(
		passthroughTxManager{},
		f.orderRepo, f.planRepo, f.addonRepo, f.subRepo, f.userRepo,
		f.limitsRepo, f.accountRepo,
		plainHasher{}, f.alerts,
		AddonAccountConfig{HomeDir: "/home/products/", UID: 2001, GID: 2001},
		testLogger(),
	)
	return f
}

func TestFulfillOrder_RenewalIncrementsAllowance(t *testing.T) {
	f := newFulfillFixture()
	ord := pendingOrder(10, 1, 7, vo.PaymentMethodStripe)
	limits := testLimits(t, testAccountKey(), quota.GBToBytes(20))
	sub := activeSubscription(5, 1, 9, 7)

	f.orderRepo.On("GetByIDForUpdate", mock.Anything, uint(10)).Return(ord, nil)
	f.userRepo.On("GetByID", mock.Anything, uint(1)).Return(testUser(t, 1), nil)
	f.planRepo.On("GetByID", mock.Anything, uint(7)).Return(testPlan(7, 100), nil)
	f.accountRepo.On("ExistsByName", mock.Anything, testAccountKey()).Return(true, nil)
	f.limitsRepo.On("GetByName", mock.Anything, testAccountKey()).Return(limits, nil)
	f.limitsRepo.On("Update", mock.Anything, limits).Return(nil)
	f.subRepo.On("GetActiveByUserID", mock.Anything, uint(1)).Return(sub, nil)
	f.subRepo.On("Update", mock.Anything, sub).Return(nil)
	f.orderRepo.On("Update", mock.Anything, ord).Return(nil)

	result, err := f.uc.Execute(context.Background(), FulfillOrderCommand{OrderID: 10, ProviderTxnID: "txn_9"})
	require.NoError(t, err)
	assert.False(t, result.AlreadyPaid)

	// The grant stacks on top of what was left, it does not overwrite.
	assert.Equal(t, quota.GBToBytes(120), limits.BytesOutAvail())
	assert.Equal(t, vo.OrderStatusPaid, ord.Status())
	assert.True(t, ord.IsFulfilled())
	assert.Equal(t, uint(10), sub.OrderID())
	f.orderRepo.AssertExpectations(t)
	f.limitsRepo.AssertExpectations(t)
}

func TestFulfillOrder_ReplayIsNoOp(t *testing.T) {
	f := newFulfillFixture()
	ord := paidOrder(10, 1, 7, vo.PaymentMethodStripe, nil)

	f.orderRepo.On("GetByIDForUpdate", mock.Anything, uint(10)).Return(ord, nil)

	result, err := f.uc.Execute(context.Background(), FulfillOrderCommand{OrderID: 10, ProviderTxnID: "txn_9"})
	require.NoError(t, err)
	assert.True(t, result.AlreadyPaid)

	// No grant, no subscription change, no order write.
	f.limitsRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.limitsRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.subRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestFulfillOrder_FirstPurchaseCreatesSubscription(t *testing.T) {
	f := newFulfillFixture()
	ord := pendingOrder(10, 1, 7, vo.PaymentMethodOxxo)

	f.orderRepo.On("GetByIDForUpdate", mock.Anything, uint(10)).Return(ord, nil)
	f.userRepo.On("GetByID", mock.Anything, uint(1)).Return(testUser(t, 1), nil)
	f.planRepo.On("GetByID", mock.Anything, uint(7)).Return(testPlan(7, 100), nil)
	f.accountRepo.On("ExistsByName", mock.Anything, testAccountKey()).Return(true, nil)
	f.limitsRepo.On("GetByName", mock.Anything, testAccountKey()).Return(nil, quota.ErrLimitsNotFound)
	f.limitsRepo.On("Create", mock.Anything, mock.AnythingOfType("*quota.Limits")).Return(nil)
	f.subRepo.On("GetActiveByUserID", mock.Anything, uint(1)).Return(nil, subscription.ErrNoActiveSubscription)
	f.subRepo.On("Create", mock.Anything, mock.AnythingOfType("*subscription.Subscription")).Return(nil)
	f.orderRepo.On("Update", mock.Anything, ord).Return(nil)

	_, err := f.uc.Execute(context.Background(), FulfillOrderCommand{OrderID: 10, ProviderTxnID: "pi_1"})
	require.NoError(t, err)

	f.limitsRepo.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(l *quota.Limits) bool {
		return l.BytesOutAvail() == quota.GBToBytes(100) && l.Name().Equals(testAccountKey())
	}))
	f.subRepo.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(s *subscription.Subscription) bool {
		return s.UserID() == 1 && s.OrderID() == 10 && s.PlanID() == 7
	}))
}

// A paid order for an account that was never provisioned is a missing
// precondition: the transaction rolls back, no grant happens, and the
// order stays PENDING so a human can reconcile and the event can retry.
func TestFulfillOrder_MissingFTPAccountIsPreconditionFailure(t *testing.T) {
	f := newFulfillFixture()
	ord := pendingOrder(10, 1, 7, vo.PaymentMethodStripe)

	f.orderRepo.On("GetByIDForUpdate", mock.Anything, uint(10)).Return(ord, nil)
	f.userRepo.On("GetByID", mock.Anything, uint(1)).Return(testUser(t, 1), nil)
	f.planRepo.On("GetByID", mock.Anything, uint(7)).Return(testPlan(7, 100), nil)
	f.accountRepo.On("ExistsByName", mock.Anything, testAccountKey()).Return(false, nil)

	_, err := f.uc.Execute(context.Background(), FulfillOrderCommand{OrderID: 10, ProviderTxnID: "txn_9"})
	require.Error(t, err)
	assert.True(t, apperrors.IsPreconditionError(err))
	f.alerts.AssertNotCalled(t, "NotifyConsistencyRisk", mock.Anything, mock.Anything, mock.Anything)
	f.limitsRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFulfillOrder_AddonCreatesDerivedAccount(t *testing.T) {
	f := newFulfillFixture()
	ord := pendingAddonOrder(11, 1, 3, vo.PaymentMethodOxxo)
	addonKey := testAccountKey().Addon()
	addon, err := plan.NewAddonProduct("50GB extra", 50, 9900, "MXN")
	require.NoError(t, err)

	f.orderRepo.On("GetByIDForUpdate", mock.Anything, uint(11)).Return(ord, nil)
	f.userRepo.On("GetByID", mock.Anything, uint(1)).Return(testUser(t, 1), nil)
	f.addonRepo.On("GetByID", mock.Anything, uint(3)).Return(addon, nil)
	f.accountRepo.On("ExistsByName", mock.Anything, addonKey).Return(false, nil)
	f.accountRepo.On("Create", mock.Anything, mock.AnythingOfType("*quota.FTPAccount")).Return(nil)
	f.limitsRepo.On("GetByName", mock.Anything, addonKey).Return(nil, quota.ErrLimitsNotFound)
	f.limitsRepo.On("Create", mock.Anything, mock.AnythingOfType("*quota.Limits")).Return(nil)
	f.orderRepo.On("Update", mock.Anything, ord).Return(nil)

	_, err = f.uc.Execute(context.Background(), FulfillOrderCommand{OrderID: 11, ProviderTxnID: "pi_7"})
	require.NoError(t, err)

	f.accountRepo.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(a *quota.FTPAccount) bool {
		return a.Name().Equals(addonKey) && a.HomeDir() == "/home/products/" && a.UID() == 2001
	}))
	f.limitsRepo.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(l *quota.Limits) bool {
		return l.BytesOutAvail() == quota.GBToBytes(50)
	}))
}

func TestFulfillOrder_AddonStacksOnExistingAccount(t *testing.T) {
	f := newFulfillFixture()
	ord := pendingAddonOrder(11, 1, 3, vo.PaymentMethodOxxo)
	addonKey := testAccountKey().Addon()
	addon, err := plan.NewAddonProduct("50GB extra", 50, 9900, "MXN")
	require.NoError(t, err)
	limits := testLimits(t, addonKey, quota.GBToBytes(30))

	f.orderRepo.On("GetByIDForUpdate", mock.Anything, uint(11)).Return(ord, nil)
	f.userRepo.On("GetByID", mock.Anything, uint(1)).Return(testUser(t, 1), nil)
	f.addonRepo.On("GetByID", mock.Anything, uint(3)).Return(addon, nil)
	f.accountRepo.On("ExistsByName", mock.Anything, addonKey).Return(true, nil)
	f.limitsRepo.On("GetByName", mock.Anything, addonKey).Return(limits, nil)
	f.limitsRepo.On("Update", mock.Anything, limits).Return(nil)
	f.orderRepo.On("Update", mock.Anything, ord).Return(nil)

	_, err = f.uc.Execute(context.Background(), FulfillOrderCommand{OrderID: 11, ProviderTxnID: "pi_7"})
	require.NoError(t, err)

	assert.Equal(t, quota.GBToBytes(80), limits.BytesOutAvail())
	f.accountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFulfillOrder_TerminalStateRejected(t *testing.T) {
	f := newFulfillFixture()
	ord := pendingOrder(10, 1, 7, vo.PaymentMethodStripe)
	require.NoError(t, ord.MarkExpired())

	f.orderRepo.On("GetByIDForUpdate", mock.Anything, uint(10)).Return(ord, nil)

	_, err := f.uc.Execute(context.Background(), FulfillOrderCommand{OrderID: 10, ProviderTxnID: "txn_9"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
}

func TestFulfillOrder_LoadFailureRollsBack(t *testing.T) {
	f := newFulfillFixture()
	f.orderRepo.On("GetByIDForUpdate", mock.Anything, uint(10)).Return(nil, errors.New("db down"))

	_, err := f.uc.Execute(context.Background(), FulfillOrderCommand{OrderID: 10, ProviderTxnID: "txn_9"})
	require.Error(t, err)
}
