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

type FTPAccountRepository struct {
	db *gorm.DB
}

func NewFTPAccountRepository(db *gorm.DB) *FTPAccountRepository {
	return &FTPAccountRepository{db: db}
}

func (r *FTPAccountRepository) Create(ctx context.Context, account *quota.FTPAccount) error {
	model := mappers.FTPAccountToModel(account)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ftp account: %w", err)
	}

	account.SetID(model.ID)

	return nil
}

func (r *FTPAccountRepository) GetByName(ctx context.Context, name quota.AccountKey) (*quota.FTPAccount, error) {
	var model models.FTPUserModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("userid = ?", name.String()).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, quota.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get ftp account: %w", err)
	}

	return mappers.FTPAccountToDomain(&model)
}

func (r *FTPAccountRepository) ExistsByName(ctx context.Context, name quota.AccountKey) (bool, error) {
	var count int64

	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.FTPUserModel{}).
		Where("userid = ?", name.String()).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check ftp account: %w", err)
	}

	return count > 0, nil
}
