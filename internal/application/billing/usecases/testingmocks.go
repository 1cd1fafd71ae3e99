package usecases

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/bajabeat/descargas/internal/application/billing/gateway"
	"github.com/bajabeat/descargas/internal/domain/order"
	vo "github.com/bajabeat/descargas/internal/domain/order/valueobjects"
	"github.com/bajabeat/descargas/internal/domain/plan"
	"github.com/bajabeat/descargas/internal/domain/quota"
	"github.com/bajabeat/descargas/internal/domain/subscription"
	"github.com/bajabeat/descargas/internal/domain/user"
)

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Create(ctx context.Context, ord *order.Order) error {
	args := m.Called(ctx, ord)
	return args.Error(0)
}

func (m *mockOrderRepo) Update(ctx context.Context, ord *order.Order) error {
	args := m.Called(ctx, ord)
	return args.Error(0)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id uint) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepo) GetByIDForUpdate(ctx context.Context, id uint) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepo) GetByReference(ctx context.Context, reference string) (*order.Order, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepo) GetByProviderTxnID(ctx context.Context, providerTxnID string) (*order.Order, error) {
	args := m.Called(ctx, providerTxnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepo) GetPendingVoucherOrder(ctx context.Context, userID, planID uint, method vo.PaymentMethod) (*order.Order, error) {
	args := m.Called(ctx, userID, planID, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepo) ExistsPaidByUserIDs(ctx context.Context, userIDs []uint) (bool, error) {
	args := m.Called(ctx, userIDs)
	return args.Bool(0), args.Error(1)
}

func (m *mockOrderRepo) GetExpiredPendingOrders(ctx context.Context, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *mockOrderRepo) ListByUserID(ctx context.Context, userID uint) ([]*order.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type mockPlanChangeRepo struct {
	mock.Mock
}

func (m *mockPlanChangeRepo) Create(ctx context.Context, record *order.PlanChangeRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockPlanChangeRepo) ListByUserID(ctx context.Context, userID uint) ([]*order.PlanChangeRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.PlanChangeRecord), args.Error(1)
}

type mockPlanRepo struct {
	mock.Mock
}

func (m *mockPlanRepo) GetByID(ctx context.Context, id uint) (*plan.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Plan), args.Error(1)
}

func (m *mockPlanRepo) GetByWalletPlanID(ctx context.Context, walletPlanID string) (*plan.Plan, error) {
	args := m.Called(ctx, walletPlanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Plan), args.Error(1)
}

func (m *mockPlanRepo) ListActive(ctx context.Context) ([]*plan.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*plan.Plan), args.Error(1)
}

func (m *mockPlanRepo) Update(ctx context.Context, pl *plan.Plan) error {
	args := m.Called(ctx, pl)
	return args.Error(0)
}

type mockAddonRepo struct {
	mock.Mock
}

func (m *mockAddonRepo) GetByID(ctx context.Context, id uint) (*plan.AddonProduct, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.AddonProduct), args.Error(1)
}

func (m *mockAddonRepo) ListActive(ctx context.Context) ([]*plan.AddonProduct, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*plan.AddonProduct), args.Error(1)
}

type mockSubRepo struct {
	mock.Mock
}

func (m *mockSubRepo) Create(ctx context.Context, sub *subscription.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *mockSubRepo) Update(ctx context.Context, sub *subscription.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *mockSubRepo) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *mockSubRepo) GetActiveByUserID(ctx context.Context, userID uint) (*subscription.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *mockSubRepo) GetByOrderID(ctx context.Context, orderID uint) (*subscription.Subscription, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *mockSubRepo) ListExpiring(ctx context.Context, cutoff time.Time, limit int) ([]*subscription.Subscription, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscription.Subscription), args.Error(1)
}

type mockFeedbackRepo struct {
	mock.Mock
}

func (m *mockFeedbackRepo) Create(ctx context.Context, feedback *subscription.CancellationFeedback) error {
	args := m.Called(ctx, feedback)
	return args.Error(0)
}

func (m *mockFeedbackRepo) ListByUserID(ctx context.Context, userID uint) ([]*subscription.CancellationFeedback, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscription.CancellationFeedback), args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uint) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepo) ListByPhone(ctx context.Context, phone string) ([]*user.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*user.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, usr *user.User) error {
	args := m.Called(ctx, usr)
	return args.Error(0)
}

type mockLimitsRepo struct {
	mock.Mock
}

func (m *mockLimitsRepo) Create(ctx context.Context, limits *quota.Limits) error {
	args := m.Called(ctx, limits)
	return args.Error(0)
}

func (m *mockLimitsRepo) GetByName(ctx context.Context, name quota.AccountKey) (*quota.Limits, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quota.Limits), args.Error(1)
}

func (m *mockLimitsRepo) Update(ctx context.Context, limits *quota.Limits) error {
	args := m.Called(ctx, limits)
	return args.Error(0)
}

type mockTalliesRepo struct {
	mock.Mock
}

func (m *mockTalliesRepo) GetByName(ctx context.Context, name quota.AccountKey) (*quota.Tallies, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quota.Tallies), args.Error(1)
}

type mockAccountRepo struct {
	mock.Mock
}

func (m *mockAccountRepo) Create(ctx context.Context, account *quota.FTPAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockAccountRepo) GetByName(ctx context.Context, name quota.AccountKey) (*quota.FTPAccount, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quota.FTPAccount), args.Error(1)
}

func (m *mockAccountRepo) ExistsByName(ctx context.Context, name quota.AccountKey) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

type mockCardGateway struct {
	mock.Mock
}

func (m *mockCardGateway) GetRecurringItem(ctx context.Context, subscriptionRef string) (*gateway.RecurringItem, error) {
	args := m.Called(ctx, subscriptionRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.RecurringItem), args.Error(1)
}

func (m *mockCardGateway) UpdateRecurringItemPrice(ctx context.Context, itemRef, priceRef string) error {
	args := m.Called(ctx, itemRef, priceRef)
	return args.Error(0)
}

func (m *mockCardGateway) EnsureRecurringPrice(ctx context.Context, req gateway.EnsureRecurringPriceRequest) (*gateway.RecurringPrice, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.RecurringPrice), args.Error(1)
}

func (m *mockCardGateway) CancelSubscription(ctx context.Context, subscriptionRef string) error {
	args := m.Called(ctx, subscriptionRef)
	return args.Error(0)
}

type mockWalletGateway struct {
	mock.Mock
}

func (m *mockWalletGateway) ReviseSubscriptionPlan(ctx context.Context, subscriptionRef, newWalletPlanID string) error {
	args := m.Called(ctx, subscriptionRef, newWalletPlanID)
	return args.Error(0)
}

func (m *mockWalletGateway) CancelSubscription(ctx context.Context, subscriptionRef, reason string) error {
	args := m.Called(ctx, subscriptionRef, reason)
	return args.Error(0)
}

type mockVoucherGateway struct {
	mock.Mock
}

func (m *mockVoucherGateway) CreateVoucher(ctx context.Context, req gateway.CreateVoucherRequest) (*gateway.Voucher, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Voucher), args.Error(1)
}

func (m *mockVoucherGateway) GetVoucher(ctx context.Context, providerTxnID string) (*gateway.Voucher, error) {
	args := m.Called(ctx, providerTxnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Voucher), args.Error(1)
}

type mockAlertNotifier struct {
	mock.Mock
}

func (m *mockAlertNotifier) NotifyConsistencyRisk(ctx context.Context, subject, body string) error {
	args := m.Called(ctx, subject, body)
	return args.Error(0)
}

// passthroughTxManager runs the function directly; use case tests assert
// on repository calls, not transaction plumbing.
type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// openLocker always grants the lease.
type openLocker struct{}

func (openLocker) Acquire(ctx context.Context, userID uint, ttl time.Duration) (func(), error) {
	return func() {}, nil
}

// heldLocker simulates a lease already held by another plan change.
type heldLocker struct{}

func (heldLocker) Acquire(ctx context.Context, userID uint, ttl time.Duration) (func(), error) {
	return nil, context.DeadlineExceeded
}

type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) {
	return "hashed:" + plain, nil
}
