package mappers

import (
	"github.com/bajabeat/descargas/internal/domain/plan"
	"github.com/bajabeat/descargas/internal/infrastructure/persistence/models"
)

func PlanToModel(p *plan.Plan) *models.PlanModel {
	return &models.PlanModel{
		ID:              p.ID(),
		Name:            p.Name(),
		Gigas:           p.Gigas(),
		PriceInCents:    p.PriceInCents(),
		Currency:        p.Currency(),
		DurationDays:    p.DurationDays(),
		Active:          p.IsActive(),
		CardPriceRef:    p.CardPriceRef(),
		CardProductRef:  p.CardProductRef(),
		WalletPlanID:    p.WalletPlanID(),
		WalletProductID: p.WalletProductID(),
		CreatedAt:       p.CreatedAt(),
		UpdatedAt:       p.UpdatedAt(),
	}
}

func PlanToDomain(model *models.PlanModel) *plan.Plan {
	return plan.ReconstructPlan(
		model.ID,
		model.Name,
		model.Gigas, model.PriceInCents,
		model.Currency,
		model.DurationDays,
		model.Active,
		model.CardPriceRef, model.CardProductRef, model.WalletPlanID, model.WalletProductID,
		model.CreatedAt, model.UpdatedAt,
	)
}

func AddonProductToModel(a *plan.AddonProduct) *models.AddonProductModel {
	return &models.AddonProductModel{
		ID:           a.ID(),
		Name:         a.Name(),
		Gigas:        a.Gigas(),
		PriceInCents: a.PriceInCents(),
		Currency:     a.Currency(),
		Active:       a.IsActive(),
		CreatedAt:    a.CreatedAt(),
		UpdatedAt:    a.UpdatedAt(),
	}
}

func AddonProductToDomain(model *models.AddonProductModel) *plan.AddonProduct {
	return plan.ReconstructAddonProduct(
		model.ID,
		model.Name,
		model.Gigas, model.PriceInCents,
		model.Currency,
		model.Active,
		model.CreatedAt, model.UpdatedAt,
	)
}
