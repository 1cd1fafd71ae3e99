package subscription

import (
	"fmt"
	"time"

	"github.com/bajabeat/descargas/internal/domain/quota"
	"github.com/bajabeat/descargas/internal/shared/biztime"
)

// Subscription ties a customer to their current paid order, plan and FTP
// account for one service period. At most one non-expired row exists per
// user; renewals extend it and plan changes repoint it, neither creates a
// second live row.
type Subscription struct {
	id          uint
	userID      uint
	orderID     uint
	planID      uint
	accountKey  quota.AccountKey
	periodStart time.Time
	periodEnd   time.Time
	canceledAt  *time.Time
	version     int
	createdAt   time.Time
	updatedAt   time.Time
}

// NewSubscription opens a service period backed by a paid order.
func NewSubscription(userID, orderID, planID uint, accountKey quota.AccountKey, periodEnd time.Time) (*Subscription, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if orderID == 0 {
		return nil, fmt.Errorf("order ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if accountKey.IsZero() {
		return nil, fmt.Errorf("account key is required")
	}
	now := biztime.NowUTC()
	if !periodEnd.After(now) {
		return nil, fmt.Errorf("period end must be in the future")
	}
	return &Subscription{
		userID:      userID,
		orderID:     orderID,
		planID:      planID,
		accountKey:  accountKey,
		periodStart: now,
		periodEnd:   periodEnd,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructSubscription rebuilds a subscription from persistence.
func ReconstructSubscription(
	id, userID, orderID, planID uint,
	accountKey quota.AccountKey,
	periodStart, periodEnd time.Time,
	canceledAt *time.Time,
	version int,
	createdAt, updatedAt time.Time,
) *Subscription {
	return &Subscription{
		id:          id,
		userID:      userID,
		orderID:     orderID,
		planID:      planID,
		accountKey:  accountKey,
		periodStart: periodStart,
		periodEnd:   periodEnd,
		canceledAt:  canceledAt,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (s *Subscription) ID() uint                     { return s.id }
func (s *Subscription) UserID() uint                 { return s.userID }
func (s *Subscription) OrderID() uint                { return s.orderID }
func (s *Subscription) PlanID() uint                 { return s.planID }
func (s *Subscription) AccountKey() quota.AccountKey { return s.accountKey }
func (s *Subscription) PeriodStart() time.Time       { return s.periodStart }
func (s *Subscription) PeriodEnd() time.Time         { return s.periodEnd }
func (s *Subscription) CanceledAt() *time.Time       { return s.canceledAt }
func (s *Subscription) Version() int                 { return s.version }
func (s *Subscription) CreatedAt() time.Time         { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time         { return s.updatedAt }

// IsActive reports whether the period still covers now. Cancellation does
// not end the period early, so a canceled subscription stays active until
// periodEnd passes.
func (s *Subscription) IsActive(now time.Time) bool {
	return s.periodEnd.After(now)
}

func (s *Subscription) IsCanceled() bool {
	return s.canceledAt != nil
}

// Renew extends the period and repoints the subscription at the renewing
// order. The new period runs from the later of now and the current end, so
// an early renewal adds time instead of discarding it.
func (s *Subscription) Renew(orderID uint, durationDays int) error {
	if orderID == 0 {
		return fmt.Errorf("order ID is required")
	}
	if durationDays <= 0 {
		return fmt.Errorf("duration must be positive: %d", durationDays)
	}
	now := biztime.NowUTC()
	base := s.periodEnd
	if base.Before(now) {
		base = now
	}
	s.orderID = orderID
	s.periodEnd = base.AddDate(0, 0, durationDays)
	s.canceledAt = nil
	s.updatedAt = now
	s.version++
	return nil
}

// RepointForPlanChange switches the subscription to the cloned plan change
// order and the new plan. The period is untouched, a plan change never
// grants time.
func (s *Subscription) RepointForPlanChange(orderID, planID uint) error {
	if orderID == 0 {
		return fmt.Errorf("order ID is required")
	}
	if planID == 0 {
		return fmt.Errorf("plan ID is required")
	}
	s.orderID = orderID
	s.planID = planID
	s.updatedAt = biztime.NowUTC()
	s.version++
	return nil
}

// Cancel records the cancellation moment. The paid-through period and the
// granted quota survive, only future renewal stops.
func (s *Subscription) Cancel() error {
	if s.canceledAt != nil {
		return nil
	}
	now := biztime.NowUTC()
	s.canceledAt = &now
	s.updatedAt = now
	s.version++
	return nil
}

// SetID writes back the persistence-generated ID after insert.
func (s *Subscription) SetID(id uint) {
	s.id = id
}
