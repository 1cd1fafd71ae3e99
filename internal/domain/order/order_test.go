package order

import (
	"testing"
	"time"

	vo "github.com/bajabeat/descargas/internal/domain/order/valueobjects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func validMoney() vo.Money {
	return vo.NewMoney(19900, "MXN")
}

func pendingPlanOrder(t *testing.T, method vo.PaymentMethod) *Order {
	t.Helper()
	o, err := NewPlanOrder(1, 7, method, validMoney())
	require.NoError(t, err)
	return o
}

func paidPlanOrder(t *testing.T, method vo.PaymentMethod) *Order {
	t.Helper()
	o := pendingPlanOrder(t, method)
	require.NoError(t, o.MarkPaid("txn_123"))
	return o
}

func TestNewPlanOrder(t *testing.T) {
	o, err := NewPlanOrder(1, 7, vo.PaymentMethodStripe, validMoney())
	require.NoError(t, err)

	assert.Equal(t, vo.OrderStatusPending, o.Status())
	assert.NotEmpty(t, o.Reference())
	require.NotNil(t, o.PlanID())
	assert.Equal(t, uint(7), *o.PlanID())
	assert.Nil(t, o.AddonID())
	assert.False(t, o.IsAddon())
	assert.False(t, o.IsCanceled())
	assert.Nil(t, o.PaidAt())
}

func TestNewPlanOrder_Invalid(t *testing.T) {
	_, err := NewPlanOrder(0, 7, vo.PaymentMethodStripe, validMoney())
	require.Error(t, err)

	_, err = NewPlanOrder(1, 0, vo.PaymentMethodStripe, validMoney())
	require.Error(t, err)

	_, err = NewPlanOrder(1, 7, vo.PaymentMethodStripe, vo.NewMoney(0, "MXN"))
	require.Error(t, err)

	// Plan change orders only exist as clones of paid orders.
	_, err = NewPlanOrder(1, 7, vo.PaymentMethodStripePlanSwap, validMoney())
	require.Error(t, err)
}

func TestNewAddonOrder(t *testing.T) {
	o, err := NewAddonOrder(1, 3, vo.PaymentMethodOxxo, validMoney())
	require.NoError(t, err)

	assert.True(t, o.IsAddon())
	require.NotNil(t, o.AddonID())
	assert.Equal(t, uint(3), *o.AddonID())
	assert.Nil(t, o.PlanID())
}

func TestMarkPaid(t *testing.T) {
	o := pendingPlanOrder(t, vo.PaymentMethodStripe)

	require.NoError(t, o.MarkPaid("sub_abc123"))
	assert.Equal(t, vo.OrderStatusPaid, o.Status())
	require.NotNil(t, o.ProviderTxnID())
	assert.Equal(t, "sub_abc123", *o.ProviderTxnID())
	require.NotNil(t, o.PaidAt())
}

func TestMarkPaid_Replay(t *testing.T) {
	o := paidPlanOrder(t, vo.PaymentMethodStripe)
	paidAt := *o.PaidAt()

	err := o.MarkPaid("sub_abc123")
	assert.ErrorIs(t, err, ErrAlreadyPaid)
	assert.Equal(t, paidAt, *o.PaidAt(), "replay must not move paidAt")
}

func TestMarkPaid_FromTerminal(t *testing.T) {
	o := pendingPlanOrder(t, vo.PaymentMethodStripe)
	require.NoError(t, o.MarkExpired())

	err := o.MarkPaid("sub_abc123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadyPaid)
	assert.Equal(t, vo.OrderStatusExpired, o.Status())
}

func TestMarkFulfilled(t *testing.T) {
	o := paidPlanOrder(t, vo.PaymentMethodStripe)

	require.NoError(t, o.MarkFulfilled())
	require.NotNil(t, o.FulfilledAt())
	first := *o.FulfilledAt()

	// Second call is a no-op.
	require.NoError(t, o.MarkFulfilled())
	assert.Equal(t, first, *o.FulfilledAt())

	pending := pendingPlanOrder(t, vo.PaymentMethodStripe)
	require.Error(t, pending.MarkFulfilled())
}

func TestMarkExpired_Idempotent(t *testing.T) {
	o := paidPlanOrder(t, vo.PaymentMethodStripe)
	require.NoError(t, o.MarkExpired())
	assert.Equal(t, vo.OrderStatusPaid, o.Status(), "expiring a paid order must not change it")
}

func TestCancelKeepsStatus(t *testing.T) {
	o := paidPlanOrder(t, vo.PaymentMethodStripe)
	o.Cancel()

	assert.True(t, o.IsCanceled())
	assert.Equal(t, vo.OrderStatusPaid, o.Status())

	version := o.Version()
	o.Cancel()
	assert.Equal(t, version, o.Version(), "repeated cancel must be a no-op")
}

func TestAttachVoucher(t *testing.T) {
	o, err := NewPlanOrder(1, 7, vo.PaymentMethodOxxo, validMoney())
	require.NoError(t, err)

	expires := time.Now().UTC().Add(72 * time.Hour)
	require.NoError(t, o.AttachVoucher("pi_123", "930012345678", expires))
	assert.True(t, o.HasLiveVoucher())

	expired := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, o.AttachVoucher("pi_456", "930012345679", expired))
	assert.False(t, o.HasLiveVoucher())
}

func TestAttachVoucher_NotPending(t *testing.T) {
	o := paidPlanOrder(t, vo.PaymentMethodStripe)
	err := o.AttachVoucher("pi_123", "930012345678", time.Now().UTC().Add(time.Hour))
	require.Error(t, err)
}

func TestCloneForPlanChange(t *testing.T) {
	o := paidPlanOrder(t, vo.PaymentMethodStripe)
	require.NoError(t, o.AttachProviderSubscription("sub_live_1"))

	clone, err := o.CloneForPlanChange(9, vo.NewMoney(29900, "MXN"))
	require.NoError(t, err)

	assert.Equal(t, vo.OrderStatusPaid, clone.Status())
	assert.Equal(t, vo.PaymentMethodStripePlanSwap, clone.PaymentMethod())
	require.NotNil(t, clone.PlanID())
	assert.Equal(t, uint(9), *clone.PlanID())
	assert.Equal(t, o.UserID(), clone.UserID())
	require.NotNil(t, clone.ProviderSubID())
	assert.Equal(t, "sub_live_1", *clone.ProviderSubID())
	assert.NotEqual(t, o.Reference(), clone.Reference())
	require.NotNil(t, clone.PaidAt())
}

func TestCloneForPlanChange_Invalid(t *testing.T) {
	pending := pendingPlanOrder(t, vo.PaymentMethodStripe)
	_, err := pending.CloneForPlanChange(9, validMoney())
	require.Error(t, err)

	cash := paidPlanOrder(t, vo.PaymentMethodOxxo)
	_, err = cash.CloneForPlanChange(9, validMoney())
	require.Error(t, err, "voucher-settled orders cannot settle a plan change")
}

func TestPaymentMethodClassification(t *testing.T) {
	assert.True(t, vo.PaymentMethodStripe.IsRecurring())
	assert.True(t, vo.PaymentMethodPayPal.IsRecurring())
	assert.False(t, vo.PaymentMethodOxxo.IsRecurring())
	assert.True(t, vo.PaymentMethodOxxo.IsVoucher())
	assert.True(t, vo.PaymentMethodSpei.IsVoucher())
	assert.False(t, vo.PaymentMethodStripe.IsVoucher())
	assert.True(t, vo.PaymentMethodStripePlanSwap.IsPlanChange())
}
