package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/bajabeat/descargas/internal/domain/order"
	"github.com/bajabeat/descargas/internal/domain/plan"
	"github.com/bajabeat/descargas/internal/domain/quota"
	"github.com/bajabeat/descargas/internal/domain/subscription"
	"github.com/bajabeat/descargas/internal/domain/user"
	apperrors "github.com/bajabeat/descargas/internal/shared/errors"
	"github.com/bajabeat/descargas/internal/shared/id"
	"github.com/bajabeat/descargas/internal/shared/logger"
)

// FulfillOrderCommand confirms a payment and applies its grant. It is the
// single entry point for every provider confirmation, so replays and
// concurrent deliveries of the same event funnel through one code path.
type FulfillOrderCommand struct {
	OrderID       uint
	ProviderTxnID string
}

type FulfillOrderResult struct {
	// AlreadyPaid marks a replayed confirmation. Nothing was granted.
	AlreadyPaid bool
}

// AddonAccountConfig provisions derived add-on FTP accounts.
type AddonAccountConfig struct {
	HomeDir string
	UID     int
	GID     int
}

type FulfillOrderUseCase struct {
	txManager   TxManager
	orderRepo   order.OrderRepository
	planRepo    plan.PlanRepository
	addonRepo   plan.AddonProductRepository
	subRepo     subscription.SubscriptionRepository
	userRepo    user.UserRepository
	limitsRepo  quota.LimitsRepository
	accountRepo quota.FTPAccountRepository
	hasher      PasswordHasher
	alerts      AlertNotifier
	addonCfg    AddonAccountConfig
	logger      logger.Interface
}

func NewFulfillOrderUseCase(
	txManager TxManager,
	orderRepo order.OrderRepository,
	planRepo plan.PlanRepository,
	addonRepo plan.AddonProductRepository,
	subRepo subscription.SubscriptionRepository,
	userRepo user.UserRepository,
	limitsRepo quota.LimitsRepository,
	accountRepo quota.FTPAccountRepository,
	hasher PasswordHasher,
	alerts AlertNotifier,
	addonCfg AddonAccountConfig,
	logger logger.Interface,
) *FulfillOrderUseCase {
	return &FulfillOrderUseCase{
		txManager:   txManager,
		orderRepo:   orderRepo,
		planRepo:    planRepo,
		addonRepo:   addonRepo,
		subRepo:     subRepo,
		userRepo:    userRepo,
		limitsRepo:  limitsRepo,
		accountRepo: accountRepo,
		hasher:      hasher,
		alerts:      alerts,
		addonCfg:    addonCfg,
		logger:      logger,
	}
}

// Execute marks the order paid and applies its quota grant in one
// transaction. The order row is locked first, so two confirmations of the
// same order serialize and the loser sees PAID and grants nothing. Any
// failure rolls the whole transition back, leaving the order PENDING for
// the provider's retry.
func (uc *FulfillOrderUseCase) Execute(ctx context.Context, cmd FulfillOrderCommand) (*FulfillOrderResult, error) {
	if cmd.OrderID == 0 {
		return nil, apperrors.NewValidationError("order ID is required")
	}

	result := &FulfillOrderResult{}
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		ord, err := uc.orderRepo.GetByIDForUpdate(txCtx, cmd.OrderID)
		if err != nil {
			if errors.Is(err, order.ErrOrderNotFound) {
				return apperrors.NewNotFoundError("order not found")
			}
			return fmt.Errorf("failed to load order: %w", err)
		}

		if err := ord.MarkPaid(cmd.ProviderTxnID); err != nil {
			if errors.Is(err, order.ErrAlreadyPaid) {
				uc.logger.Infow("confirmation replay ignored",
					"order_id", ord.ID(),
					"provider_txn_id", cmd.ProviderTxnID,
				)
				result.AlreadyPaid = true
				return nil
			}
			return apperrors.NewConflictError(err.Error())
		}

		usr, err := uc.userRepo.GetByID(txCtx, ord.UserID())
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return apperrors.NewConsistencyRiskError("paid order references unknown user")
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		if ord.IsAddon() {
			if err := uc.applyAddonGrant(txCtx, ord, usr); err != nil {
				return err
			}
		} else {
			if err := uc.applyPlanGrant(txCtx, ord, usr); err != nil {
				return err
			}
		}

		if err := ord.MarkFulfilled(); err != nil {
			return err
		}
		if err := uc.orderRepo.Update(txCtx, ord); err != nil {
			return fmt.Errorf("failed to persist order: %w", err)
		}

		uc.logger.Infow("order fulfilled",
			"order_id", ord.ID(),
			"user_id", usr.ID(),
			"method", ord.PaymentMethod().String(),
			"addon", ord.IsAddon(),
		)
		return nil
	})
	if err != nil {
		if apperrors.IsConsistencyRiskError(err) {
			uc.notifyRisk(ctx, cmd, err)
		}
		if apperrors.IsPreconditionError(err) {
			uc.logger.Warnw("fulfillment precondition missing, order left pending",
				"order_id", cmd.OrderID, "error", err)
		}
		return nil, err
	}
	return result, nil
}

// applyPlanGrant extends the subscription and tops up the base account's
// download allowance. The base FTP account is provisioned out of band; a
// paid plan order for an account that does not exist is an incident, not
// something to paper over by creating one.
func (uc *FulfillOrderUseCase) applyPlanGrant(ctx context.Context, ord *order.Order, usr *user.User) error {
	pl, err := uc.planRepo.GetByID(ctx, *ord.PlanID())
	if err != nil {
		if errors.Is(err, plan.ErrPlanNotFound) {
			return apperrors.NewPreconditionError("paid order references unknown plan")
		}
		return fmt.Errorf("failed to load plan: %w", err)
	}

	key := usr.AccountKey()
	exists, err := uc.accountRepo.ExistsByName(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check ftp account: %w", err)
	}
	if !exists {
		return apperrors.NewPreconditionError(
			fmt.Sprintf("ftp account %s missing for paid order %d", key, ord.ID()))
	}

	if err := uc.grantBytes(ctx, key, pl.BytesAllowance()); err != nil {
		return err
	}

	sub, err := uc.subRepo.GetActiveByUserID(ctx, usr.ID())
	switch {
	case err == nil:
		if err := sub.Renew(ord.ID(), pl.DurationDays()); err != nil {
			return err
		}
		if sub.PlanID() != pl.ID() {
			if err := sub.RepointForPlanChange(ord.ID(), pl.ID()); err != nil {
				return err
			}
		}
		if err := uc.subRepo.Update(ctx, sub); err != nil {
			return fmt.Errorf("failed to persist subscription: %w", err)
		}
	case errors.Is(err, subscription.ErrNoActiveSubscription):
		periodEnd := ord.CreatedAt().AddDate(0, 0, pl.DurationDays())
		if paidAt := ord.PaidAt(); paidAt != nil {
			periodEnd = paidAt.AddDate(0, 0, pl.DurationDays())
		}
		sub, err := subscription.NewSubscription(usr.ID(), ord.ID(), pl.ID(), key, periodEnd)
		if err != nil {
			return err
		}
		if err := uc.subRepo.Create(ctx, sub); err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
	default:
		return fmt.Errorf("failed to load subscription: %w", err)
	}
	return nil
}

// applyAddonGrant stacks extra allowance onto the derived add-on account,
// creating the account on first purchase.
func (uc *FulfillOrderUseCase) applyAddonGrant(ctx context.Context, ord *order.Order, usr *user.User) error {
	addon, err := uc.addonRepo.GetByID(ctx, *ord.AddonID())
	if err != nil {
		if errors.Is(err, plan.ErrAddonProductNotFound) {
			return apperrors.NewConsistencyRiskError("paid order references unknown addon product")
		}
		return fmt.Errorf("failed to load addon product: %w", err)
	}

	key := usr.AccountKey().Addon()
	exists, err := uc.accountRepo.ExistsByName(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check ftp account: %w", err)
	}
	if !exists {
		hash, err := uc.hasher.Hash(id.MustGenerate(16))
		if err != nil {
			return fmt.Errorf("failed to hash generated password: %w", err)
		}
		account, err := quota.NewFTPAccount(key, hash, uc.addonCfg.UID, uc.addonCfg.GID, uc.addonCfg.HomeDir)
		if err != nil {
			return err
		}
		if err := uc.accountRepo.Create(ctx, account); err != nil {
			return fmt.Errorf("failed to create addon ftp account: %w", err)
		}
	}

	return uc.grantBytes(ctx, key, addon.BytesAllowance())
}

// grantBytes adds allowance to the account's limits row, seeding it when
// the account has never had one.
func (uc *FulfillOrderUseCase) grantBytes(ctx context.Context, key quota.AccountKey, bytes int64) error {
	limits, err := uc.limitsRepo.GetByName(ctx, key)
	switch {
	case err == nil:
		if err := limits.IncreaseBytesOut(bytes); err != nil {
			return err
		}
		if err := uc.limitsRepo.Update(ctx, limits); err != nil {
			return fmt.Errorf("failed to persist quota limits: %w", err)
		}
	case errors.Is(err, quota.ErrLimitsNotFound):
		limits, err := quota.NewLimits(key, bytes)
		if err != nil {
			return err
		}
		if err := uc.limitsRepo.Create(ctx, limits); err != nil {
			return fmt.Errorf("failed to create quota limits: %w", err)
		}
	default:
		return fmt.Errorf("failed to load quota limits: %w", err)
	}
	return nil
}

func (uc *FulfillOrderUseCase) notifyRisk(ctx context.Context, cmd FulfillOrderCommand, cause error) {
	subject := fmt.Sprintf("fulfillment blocked for order %d", cmd.OrderID)
	body := fmt.Sprintf("order %d, provider txn %s: %v\nthe provider charge may already be settled; reconcile manually.",
		cmd.OrderID, cmd.ProviderTxnID, cause)
	if err := uc.alerts.NotifyConsistencyRisk(ctx, subject, body); err != nil {
		uc.logger.Errorw("failed to send consistency risk alert", "error", err, "order_id", cmd.OrderID)
	}
}
