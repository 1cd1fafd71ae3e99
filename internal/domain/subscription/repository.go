package subscription

import (
	"context"
	"time"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *Subscription) error
	Update(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id uint) (*Subscription, error)
	// GetActiveByUserID returns the user's current non-expired subscription.
	GetActiveByUserID(ctx context.Context, userID uint) (*Subscription, error)
	GetByOrderID(ctx context.Context, orderID uint) (*Subscription, error)
	// ListExpiring returns active subscriptions whose period ends before the
	// cutoff, for the expiry sweep.
	ListExpiring(ctx context.Context, cutoff time.Time, limit int) ([]*Subscription, error)
}

// CancellationFeedback captures the reason a customer gave when canceling.
type CancellationFeedback struct {
	ID             uint
	UserID         uint
	SubscriptionID uint
	Reason         string
	Comment        string
	CreatedAt      time.Time
}

type CancellationFeedbackRepository interface {
	Create(ctx context.Context, feedback *CancellationFeedback) error
	ListByUserID(ctx context.Context, userID uint) ([]*CancellationFeedback, error)
}
