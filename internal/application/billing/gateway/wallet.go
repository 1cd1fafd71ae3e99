package gateway

import (
	"context"
	"strings"
)

// WalletSubscriptionPrefix marks wallet provider subscription IDs. A
// reference without it belongs to some other provider and must never be
// sent to the wallet API.
const WalletSubscriptionPrefix = "I-"

// IsWalletSubscriptionRef reports whether the reference is a wallet
// provider subscription ID.
func IsWalletSubscriptionRef(ref string) bool {
	return strings.HasPrefix(ref, WalletSubscriptionPrefix)
}

// WalletGateway is the wallet provider capability surface.
type WalletGateway interface {
	// ReviseSubscriptionPlan moves a recurring subscription onto another
	// plan of the same product in place.
	ReviseSubscriptionPlan(ctx context.Context, subscriptionRef, newWalletPlanID string) error
	// CancelSubscription stops future billing.
	CancelSubscription(ctx context.Context, subscriptionRef, reason string) error
}
