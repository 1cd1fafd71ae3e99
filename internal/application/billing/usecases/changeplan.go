package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bajabeat/descargas/internal/application/billing/gateway"
	"github.com/bajabeat/descargas/internal/domain/order"
	vo "github.com/bajabeat/descargas/internal/domain/order/valueobjects"
	"github.com/bajabeat/descargas/internal/domain/plan"
	"github.com/bajabeat/descargas/internal/domain/quota"
	"github.com/bajabeat/descargas/internal/domain/subscription"
	"github.com/bajabeat/descargas/internal/domain/user"
	apperrors "github.com/bajabeat/descargas/internal/shared/errors"
	"github.com/bajabeat/descargas/internal/shared/logger"
)

type ChangePlanCommand struct {
	UserID    uint
	NewPlanID uint
}

type ChangePlanResult struct {
	OrderID    uint `json:"order_id"`
	FromPlanID uint `json:"from_plan_id"`
	ToPlanID   uint `json:"to_plan_id"`
}

// ChangePlanUseCase moves a recurring subscriber onto another plan. The
// provider revision happens first and the local bookkeeping second: a
// provider failure leaves everything untouched, while a local failure
// after a successful revision is flagged as a consistency risk because the
// customer is already being billed on the new plan.
type ChangePlanUseCase struct {
	locker      PlanChangeLocker
	lockTTL     time.Duration
	txManager   TxManager
	orderRepo   order.OrderRepository
	planRepo    plan.PlanRepository
	subRepo     subscription.SubscriptionRepository
	userRepo    user.UserRepository
	limitsRepo  quota.LimitsRepository
	talliesRepo quota.TalliesRepository
	changeRepo  order.PlanChangeRecordRepository
	cardGW      gateway.CardGateway
	walletGW    gateway.WalletGateway
	alerts      AlertNotifier
	priceKey    string
	logger      logger.Interface
}

func NewChangePlanUseCase(
	locker PlanChangeLocker,
	lockTTL time.Duration,
	txManager TxManager,
	orderRepo order.OrderRepository,
	planRepo plan.PlanRepository,
	subRepo subscription.SubscriptionRepository,
	userRepo user.UserRepository,
	limitsRepo quota.LimitsRepository,
	talliesRepo quota.TalliesRepository,
	changeRepo order.PlanChangeRecordRepository,
	cardGW gateway.CardGateway,
	walletGW gateway.WalletGateway,
	alerts AlertNotifier,
	priceKey string,
	logger logger.Interface,
) *ChangePlanUseCase {
	return &ChangePlanUseCase{
		locker:      locker,
		lockTTL:     lockTTL,
		txManager:   txManager,
		orderRepo:   orderRepo,
		planRepo:    planRepo,
		subRepo:     subRepo,
		userRepo:    userRepo,
		limitsRepo:  limitsRepo,
		talliesRepo: talliesRepo,
		changeRepo:  changeRepo,
		cardGW:      cardGW,
		walletGW:    walletGW,
		alerts:      alerts,
		priceKey:    priceKey,
		logger:      logger,
	}
}

func (uc *ChangePlanUseCase) Execute(ctx context.Context, cmd ChangePlanCommand) (*ChangePlanResult, error) {
	if cmd.UserID == 0 {
		return nil, apperrors.NewValidationError("user ID is required")
	}
	if cmd.NewPlanID == 0 {
		return nil, apperrors.NewValidationError("new plan ID is required")
	}

	release, err := uc.locker.Acquire(ctx, cmd.UserID, uc.lockTTL)
	if err != nil {
		return nil, apperrors.NewConflictError("a plan change for this user is already in progress")
	}
	defer release()

	usr, currentOrd, sub, currentPlan, newPlan, err := uc.loadAndCheck(ctx, cmd)
	if err != nil {
		return nil, err
	}

	subRef := *currentOrd.ProviderSubID()
	if err := uc.reviseProvider(ctx, currentOrd.PaymentMethod(), subRef, currentPlan, newPlan); err != nil {
		return nil, err
	}

	clone, err := uc.recordLocally(ctx, usr, currentOrd, sub, currentPlan, newPlan, subRef)
	if err != nil {
		uc.notifyRisk(ctx, cmd, subRef, err)
		return nil, apperrors.NewConsistencyRiskError(
			"provider accepted the plan change but local bookkeeping failed; manual reconciliation required")
	}

	uc.logger.Infow("plan changed",
		"user_id", cmd.UserID,
		"from_plan_id", currentPlan.ID(),
		"to_plan_id", newPlan.ID(),
		"order_id", clone.ID(),
	)
	return &ChangePlanResult{
		OrderID:    clone.ID(),
		FromPlanID: currentPlan.ID(),
		ToPlanID:   newPlan.ID(),
	}, nil
}

// loadAndCheck walks the precondition chain: new plan, subscription and
// its order, usage tallies, payment method. Every link has to hold before
// any provider call is made, because provider revisions are not free to
// undo.
func (uc *ChangePlanUseCase) loadAndCheck(ctx context.Context, cmd ChangePlanCommand) (
	*user.User, *order.Order, *subscription.Subscription, *plan.Plan, *plan.Plan, error,
) {
	newPlan, err := uc.planRepo.GetByID(ctx, cmd.NewPlanID)
	if err != nil {
		if errors.Is(err, plan.ErrPlanNotFound) {
			return nil, nil, nil, nil, nil, apperrors.NewNotFoundError("new plan not found")
		}
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to load new plan: %w", err)
	}
	if !newPlan.IsActive() {
		return nil, nil, nil, nil, nil, apperrors.NewValidationError("new plan is not active")
	}

	usr, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, nil, nil, nil, nil, apperrors.NewNotFoundError("user not found")
		}
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to load user: %w", err)
	}

	sub, err := uc.subRepo.GetActiveByUserID(ctx, cmd.UserID)
	if err != nil {
		if errors.Is(err, subscription.ErrNoActiveSubscription) {
			return nil, nil, nil, nil, nil, apperrors.NewPreconditionError("user has no active subscription")
		}
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to load subscription: %w", err)
	}

	currentOrd, err := uc.orderRepo.GetByID(ctx, sub.OrderID())
	if err != nil {
		return nil, nil, nil, nil, nil, apperrors.NewPreconditionError("subscription order is missing")
	}
	if !currentOrd.Status().IsPaid() {
		return nil, nil, nil, nil, nil, apperrors.NewPreconditionError("subscription order is not paid")
	}

	currentPlan, err := uc.planRepo.GetByID(ctx, sub.PlanID())
	if err != nil {
		return nil, nil, nil, nil, nil, apperrors.NewPreconditionError("current plan is missing")
	}
	if newPlan.ID() == currentPlan.ID() {
		return nil, nil, nil, nil, nil, apperrors.NewValidationError("already on the requested plan")
	}

	if err := uc.checkUsageFits(ctx, usr.AccountKey(), newPlan); err != nil {
		return nil, nil, nil, nil, nil, err
	}

	if !currentOrd.PaymentMethod().IsRecurring() {
		return nil, nil, nil, nil, nil, apperrors.NewPreconditionError(
			"plan changes require a recurring payment method")
	}
	if currentOrd.ProviderSubID() == nil || *currentOrd.ProviderSubID() == "" {
		return nil, nil, nil, nil, nil, apperrors.NewPreconditionError(
			"subscription has no provider subscription reference")
	}

	return usr, currentOrd, sub, currentPlan, newPlan, nil
}

// checkUsageFits rejects a move to a plan smaller than what the customer
// has already downloaded this period. The daemon would lock the account
// out immediately, which reads as a broken product. Absent tallies mean
// provisioning is still in flight, and without them the usage comparison
// cannot be made at all, so the change is refused rather than waved past.
func (uc *ChangePlanUseCase) checkUsageFits(ctx context.Context, key quota.AccountKey, newPlan *plan.Plan) error {
	tallies, err := uc.talliesRepo.GetByName(ctx, key)
	if err != nil {
		if errors.Is(err, quota.ErrTalliesNotFound) {
			return apperrors.NewPreconditionError(
				"usage records for the account are not available yet")
		}
		return fmt.Errorf("failed to load quota tallies: %w", err)
	}
	if tallies.BytesOutUsed() > newPlan.BytesAllowance() {
		return apperrors.NewValidationError(
			"current period usage exceeds the new plan's allowance")
	}
	return nil
}

func (uc *ChangePlanUseCase) reviseProvider(ctx context.Context, method vo.PaymentMethod, subRef string, currentPlan, newPlan *plan.Plan) error {
	switch {
	case method == vo.PaymentMethodPayPal || method == vo.PaymentMethodPayPalPlanSwap:
		return uc.reviseWallet(ctx, subRef, currentPlan, newPlan)
	default:
		return uc.reviseCard(ctx, subRef, newPlan)
	}
}

func (uc *ChangePlanUseCase) reviseCard(ctx context.Context, subRef string, newPlan *plan.Plan) error {
	item, err := uc.cardGW.GetRecurringItem(ctx, subRef)
	if err != nil {
		return apperrors.NewProviderError("failed to resolve card subscription", err.Error())
	}

	priceRef, err := uc.ensureCardPrice(ctx, newPlan)
	if err != nil {
		return err
	}
	if item.PriceRef == priceRef {
		return apperrors.NewValidationError("subscription already bills on the requested price")
	}

	if err := uc.cardGW.UpdateRecurringItemPrice(ctx, item.ItemRef, priceRef); err != nil {
		return apperrors.NewProviderError("card provider rejected the plan change", err.Error())
	}
	return nil
}

// ensureCardPrice returns the memoized card price for the plan,
// provisioning one with a deterministic idempotency key on first use so a
// crashed attempt cannot create a duplicate.
func (uc *ChangePlanUseCase) ensureCardPrice(ctx context.Context, pl *plan.Plan) (string, error) {
	if ref := pl.CardPriceRef(); ref != nil && *ref != "" {
		return *ref, nil
	}

	price, err := uc.cardGW.EnsureRecurringPrice(ctx, gateway.EnsureRecurringPriceRequest{
		PlanID:         pl.ID(),
		PlanName:       pl.Name(),
		PriceKey:       uc.priceKey,
		AmountInCents:  pl.PriceInCents(),
		Currency:       pl.Currency(),
		IdempotencyKey: fmt.Sprintf("card-plan-%d-price-%s", pl.ID(), uc.priceKey),
	})
	if err != nil {
		return "", apperrors.NewProviderError("failed to provision card price", err.Error())
	}

	if err := pl.RememberCardPriceRef(price.PriceRef, price.ProductRef); err != nil {
		return "", err
	}
	if err := uc.planRepo.Update(ctx, pl); err != nil {
		uc.logger.Warnw("failed to memoize card price ref",
			"error", err, "plan_id", pl.ID(), "price_ref", price.PriceRef)
	}
	return price.PriceRef, nil
}

func (uc *ChangePlanUseCase) reviseWallet(ctx context.Context, subRef string, currentPlan, newPlan *plan.Plan) error {
	if !gateway.IsWalletSubscriptionRef(subRef) {
		return apperrors.NewPreconditionError("subscription reference is not a wallet subscription")
	}
	if !newPlan.HasWalletPlan() {
		return apperrors.NewPreconditionError("new plan is not sold on the wallet provider")
	}
	if !newPlan.SharesWalletProduct(currentPlan) {
		return apperrors.NewPreconditionError(
			"wallet revisions require both plans under the same wallet product")
	}
	if err := uc.walletGW.ReviseSubscriptionPlan(ctx, subRef, *newPlan.WalletPlanID()); err != nil {
		return apperrors.NewProviderError("wallet provider rejected the plan change", err.Error())
	}
	return nil
}

// recordLocally applies the bookkeeping for an already accepted provider
// revision: the allowance is set to the new plan's absolute value, the
// audit trail and cloned order are written, and the subscription repoints.
// Tallies are never touched; usage carries across plans as is.
func (uc *ChangePlanUseCase) recordLocally(
	ctx context.Context,
	usr *user.User,
	currentOrd *order.Order,
	sub *subscription.Subscription,
	currentPlan, newPlan *plan.Plan,
	subRef string,
) (*order.Order, error) {
	var clone *order.Order
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		limits, err := uc.limitsRepo.GetByName(txCtx, usr.AccountKey())
		if err != nil {
			return fmt.Errorf("failed to load quota limits: %w", err)
		}
		if err := limits.SetBytesOutAvail(newPlan.BytesAllowance()); err != nil {
			return err
		}
		if err := uc.limitsRepo.Update(txCtx, limits); err != nil {
			return fmt.Errorf("failed to persist quota limits: %w", err)
		}

		clone, err = currentOrd.CloneForPlanChange(newPlan.ID(),
			vo.NewMoney(newPlan.PriceInCents(), newPlan.Currency()))
		if err != nil {
			return err
		}
		if err := uc.orderRepo.Create(txCtx, clone); err != nil {
			return fmt.Errorf("failed to create plan change order: %w", err)
		}

		record := order.NewPlanChangeRecord(usr.ID(), clone.ID(), currentPlan.ID(), newPlan.ID(), subRef,
			order.QuotaCarry{
				FromBytesAvail: currentPlan.BytesAllowance(),
				ToBytesAvail:   newPlan.BytesAllowance(),
			})
		if err := uc.changeRepo.Create(txCtx, record); err != nil {
			return fmt.Errorf("failed to record plan change: %w", err)
		}

		if err := sub.RepointForPlanChange(clone.ID(), newPlan.ID()); err != nil {
			return err
		}
		if err := uc.subRepo.Update(txCtx, sub); err != nil {
			return fmt.Errorf("failed to persist subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return clone, nil
}

func (uc *ChangePlanUseCase) notifyRisk(ctx context.Context, cmd ChangePlanCommand, subRef string, cause error) {
	subject := fmt.Sprintf("plan change bookkeeping failed for user %d", cmd.UserID)
	body := fmt.Sprintf("user %d, provider subscription %s, new plan %d: %v\nthe provider revision already went through; reconcile manually.",
		cmd.UserID, subRef, cmd.NewPlanID, cause)
	if err := uc.alerts.NotifyConsistencyRisk(ctx, subject, body); err != nil {
		uc.logger.Errorw("failed to send consistency risk alert", "error", err, "user_id", cmd.UserID)
	}
}
