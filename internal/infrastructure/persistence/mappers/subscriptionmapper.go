package mappers

import (
	"fmt"

	"github.com/bajabeat/descargas/internal/domain/quota"
	"github.com/bajabeat/descargas/internal/domain/subscription"
	"github.com/bajabeat/descargas/internal/infrastructure/persistence/models"
)

func SubscriptionToModel(s *subscription.Subscription) *models.SubscriptionModel {
	return &models.SubscriptionModel{
		ID:          s.ID(),
		UserID:      s.UserID(),
		OrderID:     s.OrderID(),
		PlanID:      s.PlanID(),
		AccountKey:  s.AccountKey().String(),
		PeriodStart: s.PeriodStart(),
		PeriodEnd:   s.PeriodEnd(),
		CanceledAt:  s.CanceledAt(),
		Version:     s.Version(),
		CreatedAt:   s.CreatedAt(),
		UpdatedAt:   s.UpdatedAt(),
	}
}

func SubscriptionToDomain(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	key, err := quota.NewAccountKey(model.AccountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid account key: %w", err)
	}

	return subscription.ReconstructSubscription(
		model.ID, model.UserID, model.OrderID, model.PlanID,
		key,
		model.PeriodStart, model.PeriodEnd,
		model.CanceledAt,
		model.Version,
		model.CreatedAt, model.UpdatedAt,
	), nil
}

func CancellationFeedbackToModel(f *subscription.CancellationFeedback) *models.CancellationFeedbackModel {
	return &models.CancellationFeedbackModel{
		ID:             f.ID,
		UserID:         f.UserID,
		SubscriptionID: f.SubscriptionID,
		Reason:         f.Reason,
		Comment:        f.Comment,
		CreatedAt:      f.CreatedAt,
	}
}

func CancellationFeedbackToDomain(model *models.CancellationFeedbackModel) *subscription.CancellationFeedback {
	return &subscription.CancellationFeedback{
		ID:             model.ID,
		UserID:         model.UserID,
		SubscriptionID: model.SubscriptionID,
		Reason:         model.Reason,
		Comment:        model.Comment,
		CreatedAt:      model.CreatedAt,
	}
}
