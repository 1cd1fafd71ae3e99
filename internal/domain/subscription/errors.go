package subscription

import "errors"

var (
	// ErrSubscriptionNotFound indicates no subscription matched.
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrNoActiveSubscription indicates the user has no current subscription.
	ErrNoActiveSubscription = errors.New("no active subscription")
)
