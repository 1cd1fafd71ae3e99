package mappers

import (
	"fmt"

	"github.com/bajabeat/descargas/internal/domain/order"
	vo "github.com/bajabeat/descargas/internal/domain/order/valueobjects"
	"github.com/bajabeat/descargas/internal/infrastructure/persistence/models"
)

func OrderToModel(o *order.Order) *models.OrderModel {
	return &models.OrderModel{
		ID:             o.ID(),
		Reference:      o.Reference(),
		UserID:         o.UserID(),
		PlanID:         o.PlanID(),
		AddonID:        o.AddonID(),
		Status:         o.Status().String(),
		PaymentMethod:  o.PaymentMethod().String(),
		Amount:         o.Amount().AmountInCents(),
		Currency:       o.Amount().Currency(),
		IsCanceled:     o.IsCanceled(),
		ProviderTxnID:  o.ProviderTxnID(),
		ProviderSubID:  o.ProviderSubID(),
		VoucherRef:     o.VoucherRef(),
		VoucherExpires: o.VoucherExpires(),
		PaidAt:         o.PaidAt(),
		FulfilledAt:    o.FulfilledAt(),
		Version:        o.Version(),
		CreatedAt:      o.CreatedAt(),
		UpdatedAt:      o.UpdatedAt(),
	}
}

func OrderToDomain(model *models.OrderModel) (*order.Order, error) {
	status := vo.OrderStatus(model.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid order status: %s", model.Status)
	}

	method, err := vo.NewPaymentMethod(model.PaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("invalid payment method: %w", err)
	}

	return order.ReconstructOrder(
		model.ID,
		model.Reference,
		model.UserID,
		model.PlanID, model.AddonID,
		status,
		method,
		vo.NewMoney(model.Amount, model.Currency),
		model.IsCanceled,
		model.ProviderTxnID, model.ProviderSubID, model.VoucherRef,
		model.VoucherExpires, model.PaidAt, model.FulfilledAt,
		model.Version,
		model.CreatedAt, model.UpdatedAt,
	), nil
}

func OrdersToDomain(orderModels []models.OrderModel) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(orderModels))
	for i := range orderModels {
		o, err := OrderToDomain(&orderModels[i])
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
