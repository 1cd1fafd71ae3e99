// Package gateway declares the provider capabilities the billing flows
// depend on. Implementations adapt concrete provider SDKs; the use cases
// only ever see these interfaces.
package gateway

import (
	"context"
	"time"
)

// RecurringItem is the line item of a card provider subscription.
type RecurringItem struct {
	SubscriptionRef string
	ItemRef         string
	PriceRef        string
	ProductRef      string
}

// RecurringPrice is a provisioned card provider price.
type RecurringPrice struct {
	PriceRef   string
	ProductRef string
}

// EnsureRecurringPriceRequest asks the provider for a recurring price,
// creating product and price on first use. IdempotencyKey must be
// deterministic per plan and price key so retries cannot provision twice.
type EnsureRecurringPriceRequest struct {
	PlanID         uint
	PlanName       string
	PriceKey       string
	AmountInCents  int64
	Currency       string
	IdempotencyKey string
}

// CardGateway is the card provider capability surface.
type CardGateway interface {
	// GetRecurringItem resolves the single line item of a recurring
	// subscription.
	GetRecurringItem(ctx context.Context, subscriptionRef string) (*RecurringItem, error)
	// UpdateRecurringItemPrice swaps the subscription item onto a new
	// price, prorating the difference onto the next invoice.
	UpdateRecurringItemPrice(ctx context.Context, itemRef, priceRef string) error
	// EnsureRecurringPrice returns the provider price for a plan,
	// provisioning it lazily.
	EnsureRecurringPrice(ctx context.Context, req EnsureRecurringPriceRequest) (*RecurringPrice, error)
	// CancelSubscription stops future billing. Already canceled
	// subscriptions are a no-op.
	CancelSubscription(ctx context.Context, subscriptionRef string) error
}

// Voucher is a pending cash payment reference the customer settles at a
// store or by bank transfer.
type Voucher struct {
	ProviderTxnID string
	Reference     string
	BarcodeURL    string
	ExpiresAt     time.Time
}

// CreateVoucherRequest issues a cash voucher for an order. IdempotencyKey
// must be deterministic per order so a retried checkout reuses the charge.
type CreateVoucherRequest struct {
	OrderReference string
	CustomerEmail  string
	AmountInCents  int64
	Currency       string
	ExpiresAt      time.Time
	IdempotencyKey string
}

// VoucherGateway issues and inspects cash vouchers.
type VoucherGateway interface {
	CreateVoucher(ctx context.Context, req CreateVoucherRequest) (*Voucher, error)
	// GetVoucher loads a previously issued voucher by its provider
	// transaction ID.
	GetVoucher(ctx context.Context, providerTxnID string) (*Voucher, error)
}
