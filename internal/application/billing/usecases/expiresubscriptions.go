package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/bajabeat/descargas/internal/domain/quota"
	"github.com/bajabeat/descargas/internal/domain/subscription"
	"github.com/bajabeat/descargas/internal/shared/biztime"
	"github.com/bajabeat/descargas/internal/shared/logger"
)

// lapsedAllowance is what a lapsed base account can still download. The
// zero value is the unlimited sentinel, so "nothing" has to be one byte,
// the same trick the provisioning defaults use for uploads.
const lapsedAllowance int64 = 1

// ExpireSubscriptionsUseCase cuts off base accounts whose paid period has
// ended without renewal. Add-on accounts are left alone, purchased extra
// storage outlives the subscription that was active when it was bought.
type ExpireSubscriptionsUseCase struct {
	txManager  TxManager
	subRepo    subscription.SubscriptionRepository
	limitsRepo quota.LimitsRepository
	logger     logger.Interface
}

func NewExpireSubscriptionsUseCase(
	txManager TxManager,
	subRepo subscription.SubscriptionRepository,
	limitsRepo quota.LimitsRepository,
	logger logger.Interface,
) *ExpireSubscriptionsUseCase {
	return &ExpireSubscriptionsUseCase{
		txManager:  txManager,
		subRepo:    subRepo,
		limitsRepo: limitsRepo,
		logger:     logger,
	}
}

func (uc *ExpireSubscriptionsUseCase) Execute(ctx context.Context) (int, error) {
	lapsed, err := uc.subRepo.ListExpiring(ctx, biztime.NowUTC(), expireBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list lapsed subscriptions: %w", err)
	}

	cut := 0
	for _, sub := range lapsed {
		if err := uc.cutOff(ctx, sub); err != nil {
			uc.logger.Errorw("failed to cut off lapsed subscription",
				"error", err, "subscription_id", sub.ID(), "user_id", sub.UserID())
			continue
		}
		cut++
	}

	if cut > 0 {
		uc.logger.Infow("cut off lapsed subscriptions", "count", cut)
	}
	return cut, nil
}

func (uc *ExpireSubscriptionsUseCase) cutOff(ctx context.Context, sub *subscription.Subscription) error {
	return uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		limits, err := uc.limitsRepo.GetByName(txCtx, sub.AccountKey())
		if err != nil {
			if errors.Is(err, quota.ErrLimitsNotFound) {
				return nil
			}
			return err
		}
		if limits.BytesOutAvail() == lapsedAllowance {
			return nil
		}
		if err := limits.SetBytesOutAvail(lapsedAllowance); err != nil {
			return err
		}
		return uc.limitsRepo.Update(txCtx, limits)
	})
}
