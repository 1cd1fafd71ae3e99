package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bajabeat/descargas/internal/domain/order"
	vo "github.com/bajabeat/descargas/internal/domain/order/valueobjects"
	"github.com/bajabeat/descargas/internal/infrastructure/persistence/mappers"
	"github.com/bajabeat/descargas/internal/infrastructure/persistence/models"
	"github.com/bajabeat/descargas/internal/shared/biztime"
	"github.com/bajabeat/descargas/internal/shared/db"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	model := mappers.OrderToModel(o)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	// Write back the auto-generated ID to the domain object
	o.SetID(model.ID)

	return nil
}

func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	model := mappers.OrderToModel(o)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.OrderModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":          model.Status,
			"is_canceled":     model.IsCanceled,
			"provider_txn_id": model.ProviderTxnID,
			"provider_sub_id": model.ProviderSubID,
			"voucher_ref":     model.VoucherRef,
			"voucher_expires": model.VoucherExpires,
			"paid_at":         model.PaidAt,
			"fulfilled_at":    model.FulfilledAt,
			"version":         model.Version,
			"updated_at":      model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update order: %w", result.Error)
	}

	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id uint) (*order.Order, error) {
	var model models.OrderModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return mappers.OrderToDomain(&model)
}

func (r *OrderRepository) GetByIDForUpdate(ctx context.Context, id uint) (*order.Order, error) {
	var model models.OrderModel

	if err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ForUpdate()).
		First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}

	return mappers.OrderToDomain(&model)
}

func (r *OrderRepository) GetByReference(ctx context.Context, reference string) (*order.Order, error) {
	var model models.OrderModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("reference = ?", reference).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by reference: %w", err)
	}

	return mappers.OrderToDomain(&model)
}

func (r *OrderRepository) GetByProviderTxnID(ctx context.Context, providerTxnID string) (*order.Order, error) {
	var model models.OrderModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("provider_txn_id = ?", providerTxnID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by provider_txn_id: %w", err)
	}

	return mappers.OrderToDomain(&model)
}

func (r *OrderRepository) GetPendingVoucherOrder(ctx context.Context, userID, planID uint, method vo.PaymentMethod) (*order.Order, error) {
	var model models.OrderModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND plan_id = ? AND payment_method = ?", userID, planID, method.String()).
		Where("status = ? AND is_canceled = ?", vo.OrderStatusPending.String(), false).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get pending voucher order: %w", err)
	}

	return mappers.OrderToDomain(&model)
}

func (r *OrderRepository) ExistsPaidByUserIDs(ctx context.Context, userIDs []uint) (bool, error) {
	if len(userIDs) == 0 {
		return false, nil
	}

	var count int64
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.OrderModel{}).
		Where("user_id IN ? AND status = ?", userIDs, vo.OrderStatusPaid.String()).
		Where("plan_id IS NOT NULL").
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check paid orders: %w", err)
	}

	return count > 0, nil
}

func (r *OrderRepository) GetExpiredPendingOrders(ctx context.Context, limit int) ([]*order.Order, error) {
	var orderModels []models.OrderModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND is_canceled = ?", vo.OrderStatusPending.String(), false).
		Where("voucher_expires IS NOT NULL AND voucher_expires < ?", biztime.NowUTC()).
		Order("voucher_expires ASC").
		Limit(limit).
		Find(&orderModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list expired pending orders: %w", err)
	}

	return mappers.OrdersToDomain(orderModels)
}

func (r *OrderRepository) ListByUserID(ctx context.Context, userID uint) ([]*order.Order, error) {
	var orderModels []models.OrderModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orderModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders by user: %w", err)
	}

	return mappers.OrdersToDomain(orderModels)
}
