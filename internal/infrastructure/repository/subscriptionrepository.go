package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bajabeat/descargas/internal/domain/subscription"
	"github.com/bajabeat/descargas/internal/infrastructure/persistence/mappers"
	"github.com/bajabeat/descargas/internal/infrastructure/persistence/models"
	"github.com/bajabeat/descargas/internal/shared/biztime"
	"github.com/bajabeat/descargas/internal/shared/db"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	model := mappers.SubscriptionToModel(s)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	s.SetID(model.ID)

	return nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, s *subscription.Subscription) error {
	model := mappers.SubscriptionToModel(s)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"order_id":     model.OrderID,
			"plan_id":      model.PlanID,
			"period_start": model.PeriodStart,
			"period_end":   model.PeriodEnd,
			"canceled_at":  model.CanceledAt,
			"version":      model.Version,
			"updated_at":   model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}

	return nil
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return mappers.SubscriptionToDomain(&model)
}

func (r *SubscriptionRepository) GetActiveByUserID(ctx context.Context, userID uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND period_end > ?", userID, biztime.NowUTC()).
		Order("period_end DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrNoActiveSubscription
		}
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}

	return mappers.SubscriptionToDomain(&model)
}

func (r *SubscriptionRepository) GetByOrderID(ctx context.Context, orderID uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("order_id = ?", orderID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get subscription by order: %w", err)
	}

	return mappers.SubscriptionToDomain(&model)
}

func (r *SubscriptionRepository) ListExpiring(ctx context.Context, cutoff time.Time, limit int) ([]*subscription.Subscription, error) {
	var subModels []models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("period_end <= ?", cutoff).
		Order("period_end ASC").
		Limit(limit).
		Find(&subModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list expiring subscriptions: %w", err)
	}

	subs := make([]*subscription.Subscription, 0, len(subModels))
	for i := range subModels {
		s, err := mappers.SubscriptionToDomain(&subModels[i])
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}

	return subs, nil
}
