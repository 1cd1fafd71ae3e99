package mappers

import (
	"encoding/json"

	"github.com/bajabeat/descargas/internal/domain/order"
	"github.com/bajabeat/descargas/internal/infrastructure/persistence/models"
)

func PlanChangeRecordToModel(r *order.PlanChangeRecord) (*models.PlanChangeTransactionModel, error) {
	quota, err := json.Marshal(r.Quota)
	if err != nil {
		return nil, err
	}
	return &models.PlanChangeTransactionModel{
		ID:             r.ID,
		UserID:         r.UserID,
		OrderID:        r.OrderID,
		FromPlanID:     r.FromPlanID,
		ToPlanID:       r.ToPlanID,
		ProviderSubRef: r.ProviderSubRef,
		Quota:          quota,
		CreatedAt:      r.CreatedAt,
	}, nil
}

func PlanChangeRecordToDomain(model *models.PlanChangeTransactionModel) (*order.PlanChangeRecord, error) {
	var quota order.QuotaCarry
	if len(model.Quota) > 0 {
		if err := json.Unmarshal(model.Quota, &quota); err != nil {
			return nil, err
		}
	}
	return &order.PlanChangeRecord{
		ID:             model.ID,
		UserID:         model.UserID,
		OrderID:        model.OrderID,
		FromPlanID:     model.FromPlanID,
		ToPlanID:       model.ToPlanID,
		ProviderSubRef: model.ProviderSubRef,
		Quota:          quota,
		CreatedAt:      model.CreatedAt,
	}, nil
}
