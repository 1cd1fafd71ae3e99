package valueobjects

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "PENDING"
	OrderStatusPaid    OrderStatus = "PAID"
	OrderStatusFailed  OrderStatus = "FAILED"
	OrderStatusExpired OrderStatus = "EXPIRED"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusFailed, OrderStatusExpired:
		return true
	default:
		return false
	}
}

func (s OrderStatus) IsPending() bool {
	return s == OrderStatusPending
}

func (s OrderStatus) IsPaid() bool {
	return s == OrderStatusPaid
}

func (s OrderStatus) IsFinal() bool {
	return s == OrderStatusPaid || s == OrderStatusFailed || s == OrderStatusExpired
}

func (s OrderStatus) String() string {
	return string(s)
}
