package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/bajabeat/descargas/internal/application/billing/gateway"
	"github.com/bajabeat/descargas/internal/domain/order"
	vo "github.com/bajabeat/descargas/internal/domain/order/valueobjects"
	"github.com/bajabeat/descargas/internal/domain/subscription"
	apperrors "github.com/bajabeat/descargas/internal/shared/errors"
	"github.com/bajabeat/descargas/internal/shared/logger"
)

type CancelSubscriptionCommand struct {
	UserID  uint
	Reason  string
	Comment string
}

type CancelSubscriptionResult struct {
	SubscriptionID uint `json:"subscription_id"`
	// PaidThrough is when access actually ends. Cancellation never cuts
	// the already paid period short.
	PaidThrough string `json:"paid_through"`
}

// CancelSubscriptionUseCase stops future billing while leaving the current
// period and its quota untouched. The provider is told first; if it
// refuses, nothing changes locally and the customer keeps renewing.
type CancelSubscriptionUseCase struct {
	txManager    TxManager
	orderRepo    order.OrderRepository
	subRepo      subscription.SubscriptionRepository
	feedbackRepo subscription.CancellationFeedbackRepository
	cardGW       gateway.CardGateway
	walletGW     gateway.WalletGateway
	logger       logger.Interface
}

func NewCancelSubscriptionUseCase(
	txManager TxManager,
	orderRepo order.OrderRepository,
	subRepo subscription.SubscriptionRepository,
	feedbackRepo subscription.CancellationFeedbackRepository,
	cardGW gateway.CardGateway,
	walletGW gateway.WalletGateway,
	logger logger.Interface,
) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		txManager:    txManager,
		orderRepo:    orderRepo,
		subRepo:      subRepo,
		feedbackRepo: feedbackRepo,
		cardGW:       cardGW,
		walletGW:     walletGW,
		logger:       logger,
	}
}

func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, cmd CancelSubscriptionCommand) (*CancelSubscriptionResult, error) {
	if cmd.UserID == 0 {
		return nil, apperrors.NewValidationError("user ID is required")
	}

	sub, err := uc.subRepo.GetActiveByUserID(ctx, cmd.UserID)
	if err != nil {
		if errors.Is(err, subscription.ErrNoActiveSubscription) {
			return nil, apperrors.NewPreconditionError("user has no active subscription")
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub.IsCanceled() {
		// Repeat cancellations are fine, the answer just doesn't change.
		return &CancelSubscriptionResult{
			SubscriptionID: sub.ID(),
			PaidThrough:    sub.PeriodEnd().Format("2006-01-02"),
		}, nil
	}

	ord, err := uc.orderRepo.GetByID(ctx, sub.OrderID())
	if err != nil {
		return nil, apperrors.NewPreconditionError("subscription order is missing")
	}

	uc.recordFeedback(ctx, cmd, sub)

	if err := uc.cancelAtProvider(ctx, ord); err != nil {
		return nil, err
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := sub.Cancel(); err != nil {
			return err
		}
		if err := uc.subRepo.Update(txCtx, sub); err != nil {
			return fmt.Errorf("failed to persist subscription: %w", err)
		}

		ord.Cancel()
		if err := uc.orderRepo.Update(txCtx, ord); err != nil {
			return fmt.Errorf("failed to persist order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("subscription canceled",
		"user_id", cmd.UserID,
		"subscription_id", sub.ID(),
		"paid_through", sub.PeriodEnd(),
	)
	return &CancelSubscriptionResult{
		SubscriptionID: sub.ID(),
		PaidThrough:    sub.PeriodEnd().Format("2006-01-02"),
	}, nil
}

// recordFeedback keeps whatever the customer said about leaving. A failed
// write is logged and forgotten; survey data never blocks a cancellation.
func (uc *CancelSubscriptionUseCase) recordFeedback(ctx context.Context, cmd CancelSubscriptionCommand, sub *subscription.Subscription) {
	if cmd.Reason == "" && cmd.Comment == "" {
		return
	}
	feedback := &subscription.CancellationFeedback{
		UserID:         cmd.UserID,
		SubscriptionID: sub.ID(),
		Reason:         cmd.Reason,
		Comment:        cmd.Comment,
	}
	if err := uc.feedbackRepo.Create(ctx, feedback); err != nil {
		uc.logger.Warnw("failed to record cancellation feedback",
			"error", err, "user_id", cmd.UserID, "subscription_id", sub.ID())
	}
}

// cancelAtProvider stops recurring billing. Voucher-settled orders have
// nothing recurring to stop.
func (uc *CancelSubscriptionUseCase) cancelAtProvider(ctx context.Context, ord *order.Order) error {
	if !ord.PaymentMethod().IsRecurring() {
		return nil
	}
	subRef := ord.ProviderSubID()
	if subRef == nil || *subRef == "" {
		return apperrors.NewPreconditionError("subscription has no provider subscription reference")
	}

	var err error
	switch ord.PaymentMethod() {
	case vo.PaymentMethodPayPal, vo.PaymentMethodPayPalPlanSwap:
		if !gateway.IsWalletSubscriptionRef(*subRef) {
			return apperrors.NewPreconditionError("subscription reference is not a wallet subscription")
		}
		err = uc.walletGW.CancelSubscription(ctx, *subRef, "customer requested cancellation")
	default:
		err = uc.cardGW.CancelSubscription(ctx, *subRef)
	}
	if err != nil {
		return apperrors.NewProviderError("provider rejected the cancellation", err.Error())
	}
	return nil
}
