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
	"github.com/bajabeat/descargas/internal/domain/user"
	"github.com/bajabeat/descargas/internal/shared/biztime"
	apperrors "github.com/bajabeat/descargas/internal/shared/errors"
	"github.com/bajabeat/descargas/internal/shared/logger"
)

type IssueCashVoucherCommand struct {
	UserID uint
	PlanID uint
	Method string
}

type IssueCashVoucherResult struct {
	OrderID    uint      `json:"order_id"`
	Reference  string    `json:"reference"`
	BarcodeURL string    `json:"barcode_url,omitempty"`
	ExpiresAt  time.Time `json:"expires_at"`
	// Reused marks that a still-payable voucher from an earlier attempt
	// was returned instead of issuing a new charge.
	Reused bool `json:"reused"`
}

// IssueCashVoucherUseCase opens a pending order and issues the cash
// payment reference for it. A retried purchase finds the earlier pending
// order and hands back the same voucher, so an undecided customer never
// ends up with two payable references for one plan.
type IssueCashVoucherUseCase struct {
	orderRepo  order.OrderRepository
	planRepo   plan.PlanRepository
	userRepo   user.UserRepository
	voucherGW  gateway.VoucherGateway
	expiryDays int
	logger     logger.Interface
}

func NewIssueCashVoucherUseCase(
	orderRepo order.OrderRepository,
	planRepo plan.PlanRepository,
	userRepo user.UserRepository,
	voucherGW gateway.VoucherGateway,
	expiryDays int,
	logger logger.Interface,
) *IssueCashVoucherUseCase {
	return &IssueCashVoucherUseCase{
		orderRepo:  orderRepo,
		planRepo:   planRepo,
		userRepo:   userRepo,
		voucherGW:  voucherGW,
		expiryDays: expiryDays,
		logger:     logger,
	}
}

func (uc *IssueCashVoucherUseCase) Execute(ctx context.Context, cmd IssueCashVoucherCommand) (*IssueCashVoucherResult, error) {
	if cmd.UserID == 0 {
		return nil, apperrors.NewValidationError("user ID is required")
	}
	if cmd.PlanID == 0 {
		return nil, apperrors.NewValidationError("plan ID is required")
	}
	method, err := vo.NewPaymentMethod(cmd.Method)
	if err != nil || !method.IsVoucher() {
		return nil, apperrors.NewValidationError("payment method must be a cash voucher method")
	}

	usr, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	pl, err := uc.planRepo.GetByID(ctx, cmd.PlanID)
	if err != nil {
		if errors.Is(err, plan.ErrPlanNotFound) {
			return nil, apperrors.NewNotFoundError("plan not found")
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	if !pl.IsActive() {
		return nil, apperrors.NewValidationError("plan is not active")
	}

	if result, ok, err := uc.reusePending(ctx, cmd.UserID, cmd.PlanID, method); err != nil {
		return nil, err
	} else if ok {
		return result, nil
	}

	ord, err := order.NewPlanOrder(cmd.UserID, cmd.PlanID, method,
		vo.NewMoney(pl.PriceInCents(), pl.Currency()))
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := uc.orderRepo.Create(ctx, ord); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	expiresAt := biztime.EndOfDayUTC(biztime.NowUTC().AddDate(0, 0, uc.expiryDays))
	voucher, err := uc.voucherGW.CreateVoucher(ctx, gateway.CreateVoucherRequest{
		OrderReference: ord.Reference(),
		CustomerEmail:  usr.Email(),
		AmountInCents:  pl.PriceInCents(),
		Currency:       pl.Currency(),
		ExpiresAt:      expiresAt,
		IdempotencyKey: fmt.Sprintf("cash-voucher-order-%d", ord.ID()),
	})
	if err != nil {
		return nil, apperrors.NewProviderError("failed to issue cash voucher", err.Error())
	}

	if err := ord.AttachVoucher(voucher.ProviderTxnID, voucher.Reference, voucher.ExpiresAt); err != nil {
		return nil, err
	}
	if err := uc.orderRepo.Update(ctx, ord); err != nil {
		return nil, fmt.Errorf("failed to persist voucher on order: %w", err)
	}

	uc.logger.Infow("cash voucher issued",
		"order_id", ord.ID(),
		"user_id", cmd.UserID,
		"plan_id", cmd.PlanID,
		"method", method.String(),
		"expires_at", voucher.ExpiresAt,
	)
	return &IssueCashVoucherResult{
		OrderID:    ord.ID(),
		Reference:  voucher.Reference,
		BarcodeURL: voucher.BarcodeURL,
		ExpiresAt:  voucher.ExpiresAt,
	}, nil
}

// reusePending hands back a still-payable voucher from an earlier attempt.
// A pending order whose voucher already lapsed is expired on the spot so
// the fresh voucher gets a fresh order.
func (uc *IssueCashVoucherUseCase) reusePending(ctx context.Context, userID, planID uint, method vo.PaymentMethod) (*IssueCashVoucherResult, bool, error) {
	pending, err := uc.orderRepo.GetPendingVoucherOrder(ctx, userID, planID, method)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to look up pending voucher order: %w", err)
	}

	if pending.HasLiveVoucher() {
		voucher, err := uc.voucherGW.GetVoucher(ctx, *pending.ProviderTxnID())
		if err != nil {
			return nil, false, apperrors.NewProviderError("failed to load existing voucher", err.Error())
		}
		uc.logger.Infow("reusing pending cash voucher",
			"order_id", pending.ID(),
			"user_id", userID,
			"expires_at", voucher.ExpiresAt,
		)
		return &IssueCashVoucherResult{
			OrderID:    pending.ID(),
			Reference:  voucher.Reference,
			BarcodeURL: voucher.BarcodeURL,
			ExpiresAt:  voucher.ExpiresAt,
			Reused:     true,
		}, true, nil
	}

	if err := pending.MarkExpired(); err != nil {
		return nil, false, err
	}
	if err := uc.orderRepo.Update(ctx, pending); err != nil {
		return nil, false, fmt.Errorf("failed to expire stale voucher order: %w", err)
	}
	return nil, false, nil
}
