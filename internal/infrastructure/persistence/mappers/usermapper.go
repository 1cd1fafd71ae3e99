package mappers

import (
	"fmt"

	"github.com/bajabeat/descargas/internal/domain/quota"
	"github.com/bajabeat/descargas/internal/domain/user"
	"github.com/bajabeat/descargas/internal/infrastructure/persistence/models"
)

func UserToModel(u *user.User) *models.UserModel {
	return &models.UserModel{
		ID:              u.ID(),
		Email:           u.Email(),
		Phone:           u.Phone(),
		AccountKey:      u.AccountKey().String(),
		TrialUsedAt:     u.TrialUsedAt(),
		CardCustomerRef: u.CardCustomerRef(),
		CreatedAt:       u.CreatedAt(),
		UpdatedAt:       u.UpdatedAt(),
	}
}

func UserToDomain(model *models.UserModel) (*user.User, error) {
	key, err := quota.NewAccountKey(model.AccountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid account key: %w", err)
	}

	return user.ReconstructUser(
		model.ID,
		model.Email, model.Phone,
		key,
		model.TrialUsedAt,
		model.CardCustomerRef,
		model.CreatedAt, model.UpdatedAt,
	), nil
}
