package order

import "errors"

var (
	// ErrOrderNotFound indicates the order does not exist.
	ErrOrderNotFound = errors.New("order not found")
)
