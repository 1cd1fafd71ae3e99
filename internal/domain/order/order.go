package order

import (
	"fmt"
	"time"

	vo "github.com/bajabeat/descargas/internal/domain/order/valueobjects"
	"github.com/bajabeat/descargas/internal/shared/biztime"
	"github.com/bajabeat/descargas/internal/shared/id"
)

// Order is the billing record every grant hangs off. An order is created
// PENDING when a purchase starts and moves to exactly one terminal state.
// Fulfillment side effects key off the PENDING to PAID transition, which is
// why that transition is guarded and everything after it is idempotent.
type Order struct {
	id            uint
	reference     string
	userID        uint
	planID        *uint
	addonID       *uint
	status        vo.OrderStatus
	paymentMethod vo.PaymentMethod
	amount        vo.Money
	isCanceled    bool

	providerTxnID  *string
	providerSubID  *string
	voucherRef     *string
	voucherExpires *time.Time

	paidAt      *time.Time
	fulfilledAt *time.Time

	version   int
	createdAt time.Time
	updatedAt time.Time
}

// NewPlanOrder opens a pending order for a subscription plan purchase.
func NewPlanOrder(userID, planID uint, method vo.PaymentMethod, amount vo.Money) (*Order, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !method.IsValid() {
		return nil, fmt.Errorf("invalid payment method: %s", method)
	}
	if method.IsPlanChange() {
		return nil, fmt.Errorf("plan change orders are cloned, not opened directly")
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}

	now := biztime.NowUTC()
	return &Order{
		reference:     id.NewOrderReference(),
		userID:        userID,
		planID:        &planID,
		status:        vo.OrderStatusPending,
		paymentMethod: method,
		amount:        amount,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// NewAddonOrder opens a pending order for an add-on storage purchase.
func NewAddonOrder(userID, addonID uint, method vo.PaymentMethod, amount vo.Money) (*Order, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if addonID == 0 {
		return nil, fmt.Errorf("addon product ID is required")
	}
	if !method.IsValid() || method.IsPlanChange() {
		return nil, fmt.Errorf("invalid payment method for addon order: %s", method)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}

	now := biztime.NowUTC()
	return &Order{
		reference:     id.NewOrderReference(),
		userID:        userID,
		addonID:       &addonID,
		status:        vo.OrderStatusPending,
		paymentMethod: method,
		amount:        amount,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructOrder rebuilds an order from persistence.
func ReconstructOrder(
	orderID uint,
	reference string,
	userID uint,
	planID, addonID *uint,
	status vo.OrderStatus,
	method vo.PaymentMethod,
	amount vo.Money,
	isCanceled bool,
	providerTxnID, providerSubID, voucherRef *string,
	voucherExpires, paidAt, fulfilledAt *time.Time,
	version int,
	createdAt, updatedAt time.Time,
) *Order {
	return &Order{
		id:             orderID,
		reference:      reference,
		userID:         userID,
		planID:         planID,
		addonID:        addonID,
		status:         status,
		paymentMethod:  method,
		amount:         amount,
		isCanceled:     isCanceled,
		providerTxnID:  providerTxnID,
		providerSubID:  providerSubID,
		voucherRef:     voucherRef,
		voucherExpires: voucherExpires,
		paidAt:         paidAt,
		fulfilledAt:    fulfilledAt,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// ErrAlreadyPaid signals a confirmation replay. Callers treat it as a
// successful no-op, never as a reason to grant again.
var ErrAlreadyPaid = fmt.Errorf("order already paid")

// MarkPaid moves the order to PAID and records the provider transaction.
// A replay on an already paid order returns ErrAlreadyPaid; any other
// terminal state rejects the transition outright.
func (o *Order) MarkPaid(providerTxnID string) error {
	if o.status.IsPaid() {
		return ErrAlreadyPaid
	}
	if o.status.IsFinal() {
		return fmt.Errorf("cannot pay order in status %s", o.status)
	}

	now := biztime.NowUTC()
	o.status = vo.OrderStatusPaid
	if providerTxnID != "" {
		o.providerTxnID = &providerTxnID
	}
	o.paidAt = &now
	o.updatedAt = now
	o.version++
	return nil
}

// MarkFulfilled records that the quota grant for this order was applied.
func (o *Order) MarkFulfilled() error {
	if !o.status.IsPaid() {
		return fmt.Errorf("cannot fulfill order in status %s", o.status)
	}
	if o.fulfilledAt != nil {
		return nil
	}
	now := biztime.NowUTC()
	o.fulfilledAt = &now
	o.updatedAt = now
	o.version++
	return nil
}

// MarkFailed moves a pending order to FAILED.
func (o *Order) MarkFailed() error {
	if o.status.IsFinal() {
		return fmt.Errorf("cannot fail order in terminal status %s", o.status)
	}
	o.status = vo.OrderStatusFailed
	o.updatedAt = biztime.NowUTC()
	o.version++
	return nil
}

// MarkExpired moves a pending order to EXPIRED. Expiring an already
// terminal order is a no-op so the sweep can run unconditionally.
func (o *Order) MarkExpired() error {
	if o.status.IsFinal() {
		return nil
	}
	o.status = vo.OrderStatusExpired
	o.updatedAt = biztime.NowUTC()
	o.version++
	return nil
}

// Cancel flags the order as canceled. Cancellation is an independent flag,
// not a status: a paid order stays PAID so its grant history remains intact.
func (o *Order) Cancel() {
	if o.isCanceled {
		return
	}
	o.isCanceled = true
	o.updatedAt = biztime.NowUTC()
	o.version++
}

// AttachProviderSubscription records the provider-side recurring
// subscription the order settles on.
func (o *Order) AttachProviderSubscription(subID string) error {
	if subID == "" {
		return fmt.Errorf("provider subscription ID is required")
	}
	o.providerSubID = &subID
	o.updatedAt = biztime.NowUTC()
	return nil
}

// AttachVoucher records the pending cash voucher issued for this order.
func (o *Order) AttachVoucher(providerTxnID, voucherRef string, expiresAt time.Time) error {
	if o.status != vo.OrderStatusPending {
		return fmt.Errorf("cannot attach voucher to order in status %s", o.status)
	}
	if providerTxnID == "" || voucherRef == "" {
		return fmt.Errorf("voucher requires a provider transaction ID and a reference")
	}
	o.providerTxnID = &providerTxnID
	o.voucherRef = &voucherRef
	o.voucherExpires = &expiresAt
	o.updatedAt = biztime.NowUTC()
	o.version++
	return nil
}

// HasLiveVoucher reports whether a previously issued voucher is still
// payable, so a retried purchase reuses it instead of issuing another.
func (o *Order) HasLiveVoucher() bool {
	if o.status != vo.OrderStatusPending || o.voucherRef == nil {
		return false
	}
	if o.voucherExpires == nil {
		return true
	}
	return biztime.NowUTC().Before(*o.voucherExpires)
}

// CloneForPlanChange produces the already-paid order that records a plan
// change. The clone carries the new plan and a synthetic payment method so
// reporting can tell plan changes from organic purchases, and it inherits
// the provider subscription the money actually moves on.
func (o *Order) CloneForPlanChange(newPlanID uint, amount vo.Money) (*Order, error) {
	if newPlanID == 0 {
		return nil, fmt.Errorf("new plan ID is required")
	}
	if !o.status.IsPaid() {
		return nil, fmt.Errorf("cannot clone order in status %s for a plan change", o.status)
	}
	method, err := o.paymentMethod.PlanChangeMethod()
	if err != nil {
		return nil, err
	}

	now := biztime.NowUTC()
	planID := newPlanID
	clone := &Order{
		reference:     id.NewOrderReference(),
		userID:        o.userID,
		planID:        &planID,
		status:        vo.OrderStatusPaid,
		paymentMethod: method,
		amount:        amount,
		providerSubID: o.providerSubID,
		paidAt:        &now,
		createdAt:     now,
		updatedAt:     now,
	}
	return clone, nil
}

// IsAddon reports whether this order purchases add-on storage.
func (o *Order) IsAddon() bool {
	return o.addonID != nil
}

func (o *Order) ID() uint                        { return o.id }
func (o *Order) Reference() string               { return o.reference }
func (o *Order) UserID() uint                    { return o.userID }
func (o *Order) PlanID() *uint                   { return o.planID }
func (o *Order) AddonID() *uint                  { return o.addonID }
func (o *Order) Status() vo.OrderStatus          { return o.status }
func (o *Order) PaymentMethod() vo.PaymentMethod { return o.paymentMethod }
func (o *Order) Amount() vo.Money                { return o.amount }
func (o *Order) IsCanceled() bool                { return o.isCanceled }
func (o *Order) ProviderTxnID() *string          { return o.providerTxnID }
func (o *Order) ProviderSubID() *string          { return o.providerSubID }
func (o *Order) VoucherRef() *string             { return o.voucherRef }
func (o *Order) VoucherExpires() *time.Time      { return o.voucherExpires }
func (o *Order) PaidAt() *time.Time              { return o.paidAt }
func (o *Order) FulfilledAt() *time.Time         { return o.fulfilledAt }
func (o *Order) IsFulfilled() bool               { return o.fulfilledAt != nil }
func (o *Order) Version() int                    { return o.version }
func (o *Order) CreatedAt() time.Time            { return o.createdAt }
func (o *Order) UpdatedAt() time.Time            { return o.updatedAt }

// SetID writes back the persistence-generated ID after insert.
func (o *Order) SetID(id uint) {
	o.id = id
}
