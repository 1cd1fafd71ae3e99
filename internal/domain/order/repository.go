package order

import (
	"context"

	vo "github.com/bajabeat/descargas/internal/domain/order/valueobjects"
)

type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	Update(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id uint) (*Order, error)
	// GetByIDForUpdate loads the order under a row lock so concurrent
	// confirmations of the same order serialize.
	GetByIDForUpdate(ctx context.Context, id uint) (*Order, error)
	GetByReference(ctx context.Context, reference string) (*Order, error)
	GetByProviderTxnID(ctx context.Context, providerTxnID string) (*Order, error)
	GetPendingVoucherOrder(ctx context.Context, userID, planID uint, method vo.PaymentMethod) (*Order, error)
	// ExistsPaidByUserIDs reports whether any of the users ever paid a
	// plan order, for trial abuse checks. Add-on orders do not count.
	ExistsPaidByUserIDs(ctx context.Context, userIDs []uint) (bool, error)
	GetExpiredPendingOrders(ctx context.Context, limit int) ([]*Order, error)
	ListByUserID(ctx context.Context, userID uint) ([]*Order, error)
}
