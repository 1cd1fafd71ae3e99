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

type AddonProductRepository struct {
	db *gorm.DB
}

func NewAddonProductRepository(db *gorm.DB) *AddonProductRepository {
	return &AddonProductRepository{db: db}
}

func (r *AddonProductRepository) GetByID(ctx context.Context, id uint) (*plan.AddonProduct, error) {
	var model models.AddonProductModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, plan.ErrAddonProductNotFound
		}
		return nil, fmt.Errorf("failed to get addon product: %w", err)
	}

	return mappers.AddonProductToDomain(&model), nil
}

func (r *AddonProductRepository) ListActive(ctx context.Context) ([]*plan.AddonProduct, error) {
	var addonModels []models.AddonProductModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("active = ?", true).
		Order("price_in_cents ASC").
		Find(&addonModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list active addon products: %w", err)
	}

	addons := make([]*plan.AddonProduct, 0, len(addonModels))
	for i := range addonModels {
		addons = append(addons, mappers.AddonProductToDomain(&addonModels[i]))
	}

	return addons, nil
}
