package order

import (
	"context"
	"time"

	"github.com/bajabeat/descargas/internal/shared/biztime"
)

// QuotaCarry captures the allowance swap applied with a plan change.
// Usage tallies carry across unchanged, so only the avail side is kept.
type QuotaCarry struct {
	FromBytesAvail int64 `json:"from_bytes_avail"`
	ToBytesAvail   int64 `json:"to_bytes_avail"`
}

// PlanChangeRecord is the audit row written for every completed plan
// change, linking the old and new plans to the cloned order and the
// provider subscription the revision happened on.
type PlanChangeRecord struct {
	ID             uint
	UserID         uint
	OrderID        uint
	FromPlanID     uint
	ToPlanID       uint
	ProviderSubRef string
	Quota          QuotaCarry
	CreatedAt      time.Time
}

func NewPlanChangeRecord(userID, orderID, fromPlanID, toPlanID uint, providerSubRef string, quota QuotaCarry) *PlanChangeRecord {
	return &PlanChangeRecord{
		UserID:         userID,
		OrderID:        orderID,
		FromPlanID:     fromPlanID,
		ToPlanID:       toPlanID,
		ProviderSubRef: providerSubRef,
		Quota:          quota,
		CreatedAt:      biztime.NowUTC(),
	}
}

type PlanChangeRecordRepository interface {
	Create(ctx context.Context, record *PlanChangeRecord) error
	ListByUserID(ctx context.Context, userID uint) ([]*PlanChangeRecord, error)
}
