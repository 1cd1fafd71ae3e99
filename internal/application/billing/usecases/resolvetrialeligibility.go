package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/bajabeat/descargas/internal/domain/order"
	"github.com/bajabeat/descargas/internal/domain/user"
	apperrors "github.com/bajabeat/descargas/internal/shared/errors"
	"github.com/bajabeat/descargas/internal/shared/logger"
)

// IneligibilityReason explains why a trial was refused. The codes are part
// of the API surface; clients branch on them.
type IneligibilityReason string

const (
	ReasonTrialDisabled           IneligibilityReason = "trial_disabled"
	ReasonUserNotFound            IneligibilityReason = "user_not_found"
	ReasonTrialAlreadyUsed        IneligibilityReason = "trial_used_at"
	ReasonHasPaidOrder            IneligibilityReason = "has_paid_order"
	ReasonSharedPhoneTrialHistory IneligibilityReason = "shared_phone_trial_history"
	ReasonSharedPhonePaidHistory  IneligibilityReason = "shared_phone_paid_history"
)

type ResolveTrialEligibilityCommand struct {
	UserID uint
}

type TrialEligibilityResult struct {
	Eligible bool
	Reason   IneligibilityReason
}

// ResolveTrialEligibilityUseCase decides whether a user may start a free
// trial. The checks run strictly in order and the first failing one names
// the reason; the phone checks fail open because a flaky phone lookup
// should never block a legitimate signup.
type ResolveTrialEligibilityUseCase struct {
	orderRepo    order.OrderRepository
	userRepo     user.UserRepository
	trialEnabled bool
	logger       logger.Interface
}

func NewResolveTrialEligibilityUseCase(
	orderRepo order.OrderRepository,
	userRepo user.UserRepository,
	trialEnabled bool,
	logger logger.Interface,
) *ResolveTrialEligibilityUseCase {
	return &ResolveTrialEligibilityUseCase{
		orderRepo:    orderRepo,
		userRepo:     userRepo,
		trialEnabled: trialEnabled,
		logger:       logger,
	}
}

func (uc *ResolveTrialEligibilityUseCase) Execute(ctx context.Context, cmd ResolveTrialEligibilityCommand) (*TrialEligibilityResult, error) {
	if cmd.UserID == 0 {
		return nil, apperrors.NewValidationError("user ID is required")
	}

	if !uc.trialEnabled {
		return ineligible(ReasonTrialDisabled), nil
	}

	usr, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return ineligible(ReasonUserNotFound), nil
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if usr.HasUsedTrial() {
		return ineligible(ReasonTrialAlreadyUsed), nil
	}

	paid, err := uc.orderRepo.ExistsPaidByUserIDs(ctx, []uint{usr.ID()})
	if err != nil {
		return nil, fmt.Errorf("failed to check paid orders: %w", err)
	}
	if paid {
		return ineligible(ReasonHasPaidOrder), nil
	}

	if reason, ok := uc.checkSharedPhone(ctx, usr); ok {
		return ineligible(reason), nil
	}

	return &TrialEligibilityResult{Eligible: true}, nil
}

// checkSharedPhone looks for trial or purchase history on other accounts
// with the same phone number. Lookup failures are logged and ignored.
func (uc *ResolveTrialEligibilityUseCase) checkSharedPhone(ctx context.Context, usr *user.User) (IneligibilityReason, bool) {
	if !usr.HasPhone() {
		return "", false
	}

	others, err := uc.userRepo.ListByPhone(ctx, usr.Phone())
	if err != nil {
		uc.logger.Warnw("phone history lookup failed, allowing trial",
			"error", err, "user_id", usr.ID())
		return "", false
	}

	var otherIDs []uint
	for _, other := range others {
		if other.ID() == usr.ID() {
			continue
		}
		if other.HasUsedTrial() {
			return ReasonSharedPhoneTrialHistory, true
		}
		otherIDs = append(otherIDs, other.ID())
	}
	if len(otherIDs) == 0 {
		return "", false
	}

	paid, err := uc.orderRepo.ExistsPaidByUserIDs(ctx, otherIDs)
	if err != nil {
		uc.logger.Warnw("phone paid-history lookup failed, allowing trial",
			"error", err, "user_id", usr.ID())
		return "", false
	}
	if paid {
		return ReasonSharedPhonePaidHistory, true
	}
	return "", false
}

func ineligible(reason IneligibilityReason) *TrialEligibilityResult {
	return &TrialEligibilityResult{Eligible: false, Reason: reason}
}
