package usecases

import (
	"context"
	"fmt"

	"github.com/bajabeat/descargas/internal/domain/order"
	"github.com/bajabeat/descargas/internal/shared/logger"
)

const expireBatchSize = 200

// ExpirePendingOrdersUseCase sweeps pending orders whose voucher lapsed
// unpaid into EXPIRED. Runs on a schedule; each order fails independently
// so one bad row cannot stall the sweep.
type ExpirePendingOrdersUseCase struct {
	orderRepo order.OrderRepository
	logger    logger.Interface
}

func NewExpirePendingOrdersUseCase(orderRepo order.OrderRepository, logger logger.Interface) *ExpirePendingOrdersUseCase {
	return &ExpirePendingOrdersUseCase{orderRepo: orderRepo, logger: logger}
}

func (uc *ExpirePendingOrdersUseCase) Execute(ctx context.Context) (int, error) {
	stale, err := uc.orderRepo.GetExpiredPendingOrders(ctx, expireBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired pending orders: %w", err)
	}

	expired := 0
	for _, ord := range stale {
		if err := ord.MarkExpired(); err != nil {
			uc.logger.Errorw("failed to expire order", "error", err, "order_id", ord.ID())
			continue
		}
		if err := uc.orderRepo.Update(ctx, ord); err != nil {
			uc.logger.Errorw("failed to persist expired order", "error", err, "order_id", ord.ID())
			continue
		}
		expired++
	}

	if expired > 0 {
		uc.logger.Infow("expired stale pending orders", "count", expired)
	}
	return expired, nil
}
