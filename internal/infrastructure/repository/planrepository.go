package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bajabeat/descargas/internal/domain/plan"
	"github.com/bajabeat/descargas/internal/infrastructure/persistence/mappers"
	"github.com/bajabeat/descargas/internal/infrastructure/persistence/models"
	"github.com/bajabeat/descargas/internal/shared/db"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) GetByID(ctx context.Context, id uint) (*plan.Plan, error) {
	var model models.PlanModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, plan.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return mappers.PlanToDomain(&model), nil
}

func (r *PlanRepository) GetByWalletPlanID(ctx context.Context, walletPlanID string) (*plan.Plan, error) {
	var model models.PlanModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("wallet_plan_id = ?", walletPlanID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, plan.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan by wallet_plan_id: %w", err)
	}

	return mappers.PlanToDomain(&model), nil
}

func (r *PlanRepository) ListActive(ctx context.Context) ([]*plan.Plan, error) {
	var planModels []models.PlanModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("active = ?", true).
		Order("price_in_cents ASC").
		Find(&planModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list active plans: %w", err)
	}

	plans := make([]*plan.Plan, 0, len(planModels))
	for i := range planModels {
		plans = append(plans, mappers.PlanToDomain(&planModels[i]))
	}

	return plans, nil
}

func (r *PlanRepository) Update(ctx context.Context, p *plan.Plan) error {
	model := mappers.PlanToModel(p)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PlanModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"active":           model.Active,
			"card_price_ref":   model.CardPriceRef,
			"card_product_ref": model.CardProductRef,
			"updated_at":       model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update plan: %w", result.Error)
	}

	return nil
}
