package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/bajabeat/descargas/internal/domain/order"
	"github.com/bajabeat/descargas/internal/infrastructure/persistence/mappers"
	"github.com/bajabeat/descargas/internal/infrastructure/persistence/models"
	"github.com/bajabeat/descargas/internal/shared/db"
)

type PlanChangeTransactionRepository struct {
	db *gorm.DB
}

func NewPlanChangeTransactionRepository(db *gorm.DB) *PlanChangeTransactionRepository {
	return &PlanChangeTransactionRepository{db: db}
}

func (r *PlanChangeTransactionRepository) Create(ctx context.Context, record *order.PlanChangeRecord) error {
	model, err := mappers.PlanChangeRecordToModel(record)
	if err != nil {
		return fmt.Errorf("failed to map plan change record: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create plan change record: %w", err)
	}

	record.ID = model.ID

	return nil
}

func (r *PlanChangeTransactionRepository) ListByUserID(ctx context.Context, userID uint) ([]*order.PlanChangeRecord, error) {
	var recordModels []models.PlanChangeTransactionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&recordModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list plan change records: %w", err)
	}

	records := make([]*order.PlanChangeRecord, 0, len(recordModels))
	for i := range recordModels {
		record, err := mappers.PlanChangeRecordToDomain(&recordModels[i])
		if err != nil {
			return nil, fmt.Errorf("failed to map plan change record: %w", err)
		}
		records = append(records, record)
	}

	return records, nil
}
