package plan

import "context"

type PlanRepository interface {
	GetByID(ctx context.Context, id uint) (*Plan, error)
	GetByWalletPlanID(ctx context.Context, walletPlanID string) (*Plan, error)
	ListActive(ctx context.Context) ([]*Plan, error)
	Update(ctx context.Context, plan *Plan) error
}

type AddonProductRepository interface {
	GetByID(ctx context.Context, id uint) (*AddonProduct, error)
	ListActive(ctx context.Context) ([]*AddonProduct, error)
}
