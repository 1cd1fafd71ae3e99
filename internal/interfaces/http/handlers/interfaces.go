package handlers

import (
	"context"

	"github.com/bajabeat/descargas/internal/application/billing/dto"
	"github.com/bajabeat/descargas/internal/application/billing/usecases"
)

// Use case interfaces for WebhookHandler

type fulfillOrderUseCase interface {
	Execute(ctx context.Context, cmd usecases.FulfillOrderCommand) (*usecases.FulfillOrderResult, error)
}

// Use case interfaces for BillingHandler

type changePlanUseCase interface {
	Execute(ctx context.Context, cmd usecases.ChangePlanCommand) (*usecases.ChangePlanResult, error)
}

type cancelSubscriptionUseCase interface {
	Execute(ctx context.Context, cmd usecases.CancelSubscriptionCommand) (*usecases.CancelSubscriptionResult, error)
}

type issueCashVoucherUseCase interface {
	Execute(ctx context.Context, cmd usecases.IssueCashVoucherCommand) (*usecases.IssueCashVoucherResult, error)
}

type purchaseAddonUseCase interface {
	Execute(ctx context.Context, cmd usecases.PurchaseAddonCommand) (*usecases.PurchaseAddonResult, error)
}

// Use case interfaces for QuotaHandler

type getQuotaSnapshotUseCase interface {
	Execute(ctx context.Context, query usecases.GetQuotaSnapshotQuery) (*dto.QuotaSnapshot, error)
}

// Use case interfaces for TrialHandler

type resolveTrialEligibilityUseCase interface {
	Execute(ctx context.Context, cmd usecases.ResolveTrialEligibilityCommand) (*usecases.TrialEligibilityResult, error)
}

type startTrialUseCase interface {
	Execute(ctx context.Context, cmd usecases.StartTrialCommand) (*usecases.StartTrialResult, error)
}
