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
	"github.com/bajabeat/descargas/internal/domain/subscription"
	"github.com/bajabeat/descargas/internal/domain/user"
	"github.com/bajabeat/descargas/internal/shared/biztime"
	apperrors "github.com/bajabeat/descargas/internal/shared/errors"
	"github.com/bajabeat/descargas/internal/shared/logger"
)

type PurchaseAddonCommand struct {
	UserID  uint
	AddonID uint
	Method  string
}

type PurchaseAddonResult struct {
	OrderID    uint      `json:"order_id"`
	Reference  string    `json:"reference"`
	BarcodeURL string    `json:"barcode_url,omitempty"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// PurchaseAddonUseCase opens a pending add-on order and issues its cash
// voucher. Add-ons only make sense on top of a live subscription; the
// grant itself lands when the payment confirmation fulfills the order.
type PurchaseAddonUseCase struct {
	orderRepo  order.OrderRepository
	addonRepo  plan.AddonProductRepository
	subRepo    subscription.SubscriptionRepository
	userRepo   user.UserRepository
	voucherGW  gateway.VoucherGateway
	expiryDays int
	logger     logger.Interface
}

func NewPurchaseAddonUseCase(
	orderRepo order.OrderRepository,
	addonRepo plan.AddonProductRepository,
	subRepo subscription.SubscriptionRepository,
	userRepo user.UserRepository,
	voucherGW gateway.VoucherGateway,
	expiryDays int,
	logger logger.Interface,
) *PurchaseAddonUseCase {
	return &PurchaseAddonUseCase{
		orderRepo:  orderRepo,
		addonRepo:  addonRepo,
		subRepo:    subRepo,
		userRepo:   userRepo,
		voucherGW:  voucherGW,
		expiryDays: expiryDays,
		logger:     logger,
	}
}

func (uc *PurchaseAddonUseCase) Execute(ctx context.Context, cmd PurchaseAddonCommand) (*PurchaseAddonResult, error) {
	if cmd.UserID == 0 {
		return nil, apperrors.NewValidationError("user ID is required")
	}
	if cmd.AddonID == 0 {
		return nil, apperrors.NewValidationError("addon product ID is required")
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

	if _, err := uc.subRepo.GetActiveByUserID(ctx, cmd.UserID); err != nil {
		if errors.Is(err, subscription.ErrNoActiveSubscription) {
			return nil, apperrors.NewPreconditionError("add-on storage requires an active subscription")
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}

	addon, err := uc.addonRepo.GetByID(ctx, cmd.AddonID)
	if err != nil {
		if errors.Is(err, plan.ErrAddonProductNotFound) {
			return nil, apperrors.NewNotFoundError("addon product not found")
		}
		return nil, fmt.Errorf("failed to load addon product: %w", err)
	}
	if !addon.IsActive() {
		return nil, apperrors.NewValidationError("addon product is not active")
	}

	ord, err := order.NewAddonOrder(cmd.UserID, cmd.AddonID, method,
		vo.NewMoney(addon.PriceInCents(), addon.Currency()))
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
		AmountInCents:  addon.PriceInCents(),
		Currency:       addon.Currency(),
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

	uc.logger.Infow("addon voucher issued",
		"order_id", ord.ID(),
		"user_id", cmd.UserID,
		"addon_id", cmd.AddonID,
		"expires_at", voucher.ExpiresAt,
	)
	return &PurchaseAddonResult{
		OrderID:    ord.ID(),
		Reference:  voucher.Reference,
		BarcodeURL: voucher.BarcodeURL,
		ExpiresAt:  voucher.ExpiresAt,
	}, nil
}
