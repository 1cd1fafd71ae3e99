package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bajabeat/descargas/internal/domain/quota"
	"github.com/bajabeat/descargas/internal/infrastructure/persistence/mappers"
	"github.com/bajabeat/descargas/internal/infrastructure/persistence/models"
	"github.com/bajabeat/descargas/internal/shared/db"
)

type QuotaLimitsRepository struct {
	db *gorm.DB
}

func NewQuotaLimitsRepository(db *gorm.DB) *QuotaLimitsRepository {
	return &QuotaLimitsRepository{db: db}
}

func (r *QuotaLimitsRepository) Create(ctx context.Context, limits *quota.Limits) error {
	model := mappers.QuotaLimitsToModel(limits)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create quota limits: %w", err)
	}

	limits.SetID(model.ID)

	return nil
}

func (r *QuotaLimitsRepository) GetByName(ctx context.Context, name quota.AccountKey) (*quota.Limits, error) {
	var model models.QuotaLimitsModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("name = ?", name.String()).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, quota.ErrLimitsNotFound
		}
		return nil, fmt.Errorf("failed to get quota limits: %w", err)
	}

	return mappers.QuotaLimitsToDomain(&model)
}

func (r *QuotaLimitsRepository) Update(ctx context.Context, limits *quota.Limits) error {
	model := mappers.QuotaLimitsToModel(limits)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.QuotaLimitsModel{}).
		Where("name = ?", model.Name).
		Updates(map[string]interface{}{
			"bytes_in_avail":   model.BytesInAvail,
			"bytes_out_avail":  model.BytesOutAvail,
			"bytes_xfer_avail": model.BytesXferAvail,
			"files_in_avail":   model.FilesInAvail,
			"files_out_avail":  model.FilesOutAvail,
			"files_xfer_avail": model.FilesXferAvail,
			"updated_at":       model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update quota limits: %w", result.Error)
	}

	return nil
}
