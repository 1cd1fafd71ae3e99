package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/bajabeat/descargas/internal/application/billing/dto"
	"github.com/bajabeat/descargas/internal/domain/plan"
	"github.com/bajabeat/descargas/internal/domain/quota"
	"github.com/bajabeat/descargas/internal/domain/subscription"
	"github.com/bajabeat/descargas/internal/domain/user"
	"github.com/bajabeat/descargas/internal/shared/biztime"
	apperrors "github.com/bajabeat/descargas/internal/shared/errors"
	"github.com/bajabeat/descargas/internal/shared/logger"
)

type GetQuotaSnapshotQuery struct {
	UserID uint
}

// GetQuotaSnapshotUseCase projects the daemon's enforcement and usage rows
// into the customer-facing quota view. It reads what the daemon actually
// enforces rather than recomputing from orders, so the dashboard can never
// disagree with the FTP server.
type GetQuotaSnapshotUseCase struct {
	userRepo    user.UserRepository
	subRepo     subscription.SubscriptionRepository
	planRepo    plan.PlanRepository
	limitsRepo  quota.LimitsRepository
	talliesRepo quota.TalliesRepository
	logger      logger.Interface
}

func NewGetQuotaSnapshotUseCase(
	userRepo user.UserRepository,
	subRepo subscription.SubscriptionRepository,
	planRepo plan.PlanRepository,
	limitsRepo quota.LimitsRepository,
	talliesRepo quota.TalliesRepository,
	logger logger.Interface,
) *GetQuotaSnapshotUseCase {
	return &GetQuotaSnapshotUseCase{
		userRepo:    userRepo,
		subRepo:     subRepo,
		planRepo:    planRepo,
		limitsRepo:  limitsRepo,
		talliesRepo: talliesRepo,
		logger:      logger,
	}
}

func (uc *GetQuotaSnapshotUseCase) Execute(ctx context.Context, query GetQuotaSnapshotQuery) (*dto.QuotaSnapshot, error) {
	if query.UserID == 0 {
		return nil, apperrors.NewValidationError("user ID is required")
	}

	usr, err := uc.userRepo.GetByID(ctx, query.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	snapshot := &dto.QuotaSnapshot{
		UserID:      usr.ID(),
		GeneratedAt: biztime.NowUTC(),
	}

	sub, err := uc.subRepo.GetActiveByUserID(ctx, query.UserID)
	switch {
	case err == nil:
		snapshot.PlanID = sub.PlanID()
		periodEnd := sub.PeriodEnd()
		snapshot.PeriodEnd = &periodEnd
		snapshot.Canceled = sub.IsCanceled()
		if pl, err := uc.planRepo.GetByID(ctx, sub.PlanID()); err == nil {
			snapshot.PlanName = pl.Name()
		}
	case errors.Is(err, subscription.ErrNoActiveSubscription):
		// A lapsed customer still sees their accounts.
	default:
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}

	base, err := uc.accountQuota(ctx, usr.AccountKey())
	if err != nil {
		return nil, err
	}
	snapshot.Base = base

	addon, err := uc.accountQuota(ctx, usr.AccountKey().Addon())
	if err != nil {
		return nil, err
	}
	snapshot.Addon = addon

	return snapshot, nil
}

// accountQuota joins one account's limits and tallies. No limits row means
// the account was never provisioned and the section is omitted; a missing
// tally row just means the daemon has not counted anything yet.
func (uc *GetQuotaSnapshotUseCase) accountQuota(ctx context.Context, key quota.AccountKey) (*dto.AccountQuota, error) {
	limits, err := uc.limitsRepo.GetByName(ctx, key)
	if err != nil {
		if errors.Is(err, quota.ErrLimitsNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load quota limits: %w", err)
	}

	tallies, err := uc.talliesRepo.GetByName(ctx, key)
	if err != nil {
		if errors.Is(err, quota.ErrTalliesNotFound) {
			tallies = quota.ZeroTallies(key)
		} else {
			return nil, fmt.Errorf("failed to load quota tallies: %w", err)
		}
	}

	aq := &dto.AccountQuota{
		Account:        key.String(),
		BytesAvailable: limits.BytesOutAvail(),
		BytesUsed:      tallies.BytesOutUsed(),
		Unlimited:      limits.IsUnlimitedBytesOut(),
	}
	if !aq.Unlimited {
		remaining := limits.BytesOutAvail() - tallies.BytesOutUsed()
		if remaining < 0 {
			remaining = 0
		}
		aq.BytesRemaining = remaining
	}
	return aq, nil
}
