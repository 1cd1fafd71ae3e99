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

// QuotaTalliesRepository reads the usage table the FTP daemon writes.
// There are no mutating methods on purpose.
type QuotaTalliesRepository struct {
	db *gorm.DB
}

func NewQuotaTalliesRepository(db *gorm.DB) *QuotaTalliesRepository {
	return &QuotaTalliesRepository{db: db}
}

func (r *QuotaTalliesRepository) GetByName(ctx context.Context, name quota.AccountKey) (*quota.Tallies, error) {
	var model models.QuotaTalliesModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("name = ?", name.String()).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, quota.ErrTalliesNotFound
		}
		return nil, fmt.Errorf("failed to get quota tallies: %w", err)
	}

	return mappers.QuotaTalliesToDomain(&model)
}
