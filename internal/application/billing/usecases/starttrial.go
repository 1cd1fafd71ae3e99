package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/bajabeat/descargas/internal/domain/quota"
	"github.com/bajabeat/descargas/internal/domain/user"
	apperrors "github.com/bajabeat/descargas/internal/shared/errors"
	"github.com/bajabeat/descargas/internal/shared/logger"
)

type StartTrialCommand struct {
	UserID uint
}

type StartTrialResult struct {
	GrantedBytes int64 `json:"granted_bytes"`
}

// StartTrialUseCase consumes a user's one free trial: the eligibility
// chain must pass, the grant lands on the base account, and the trial
// stamp is written in the same transaction so a crash cannot hand out the
// allowance without burning the trial.
type StartTrialUseCase struct {
	eligibility *ResolveTrialEligibilityUseCase
	txManager   TxManager
	userRepo    user.UserRepository
	limitsRepo  quota.LimitsRepository
	accountRepo quota.FTPAccountRepository
	trialGigas  int64
	logger      logger.Interface
}

func NewStartTrialUseCase(
	eligibility *ResolveTrialEligibilityUseCase,
	txManager TxManager,
	userRepo user.UserRepository,
	limitsRepo quota.LimitsRepository,
	accountRepo quota.FTPAccountRepository,
	trialGigas int64,
	logger logger.Interface,
) *StartTrialUseCase {
	return &StartTrialUseCase{
		eligibility: eligibility,
		txManager:   txManager,
		userRepo:    userRepo,
		limitsRepo:  limitsRepo,
		accountRepo: accountRepo,
		trialGigas:  trialGigas,
		logger:      logger,
	}
}

func (uc *StartTrialUseCase) Execute(ctx context.Context, cmd StartTrialCommand) (*StartTrialResult, error) {
	check, err := uc.eligibility.Execute(ctx, ResolveTrialEligibilityCommand{UserID: cmd.UserID})
	if err != nil {
		return nil, err
	}
	if !check.Eligible {
		return nil, apperrors.NewPreconditionError(
			fmt.Sprintf("not eligible for a trial: %s", check.Reason))
	}

	usr, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	key := usr.AccountKey()
	exists, err := uc.accountRepo.ExistsByName(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check ftp account: %w", err)
	}
	if !exists {
		return nil, apperrors.NewPreconditionError(
			fmt.Sprintf("ftp account %s is not provisioned", key))
	}

	grant := quota.GBToBytes(uc.trialGigas)
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		limits, err := uc.limitsRepo.GetByName(txCtx, key)
		switch {
		case err == nil:
			if err := limits.IncreaseBytesOut(grant); err != nil {
				return err
			}
			if err := uc.limitsRepo.Update(txCtx, limits); err != nil {
				return err
			}
		case errors.Is(err, quota.ErrLimitsNotFound):
			limits, err := quota.NewLimits(key, grant)
			if err != nil {
				return err
			}
			if err := uc.limitsRepo.Create(txCtx, limits); err != nil {
				return err
			}
		default:
			return fmt.Errorf("failed to load quota limits: %w", err)
		}

		usr.MarkTrialUsed()
		return uc.userRepo.Update(txCtx, usr)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("trial started", "user_id", cmd.UserID, "granted_bytes", grant)
	return &StartTrialResult{GrantedBytes: grant}, nil
}
