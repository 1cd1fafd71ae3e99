package mappers

import (
	"fmt"

	"github.com/bajabeat/descargas/internal/domain/quota"
	"github.com/bajabeat/descargas/internal/infrastructure/persistence/models"
)

// The daemon schema stores per_session as enum('false','true').
func perSessionToColumn(perSession bool) string {
	if perSession {
		return "true"
	}
	return "false"
}

func FTPAccountToModel(a *quota.FTPAccount) *models.FTPUserModel {
	return &models.FTPUserModel{
		ID:        a.ID(),
		Userid:    a.Name().String(),
		Passwd:    a.PasswordHash(),
		UID:       a.UID(),
		GID:       a.GID(),
		Homedir:   a.HomeDir(),
		Shell:     a.Shell(),
		CreatedAt: a.CreatedAt(),
	}
}

func FTPAccountToDomain(model *models.FTPUserModel) (*quota.FTPAccount, error) {
	name, err := quota.NewAccountKey(model.Userid)
	if err != nil {
		return nil, fmt.Errorf("invalid ftp account name: %w", err)
	}

	return quota.ReconstructFTPAccount(
		model.ID,
		name,
		model.Passwd,
		model.UID, model.GID,
		model.Homedir, model.Shell,
		model.CreatedAt,
	), nil
}

func QuotaLimitsToModel(l *quota.Limits) *models.QuotaLimitsModel {
	return &models.QuotaLimitsModel{
		ID:             l.ID(),
		Name:           l.Name().String(),
		QuotaType:      string(l.QuotaType()),
		PerSession:     perSessionToColumn(l.PerSession()),
		LimitType:      string(l.LimitType()),
		BytesInAvail:   l.BytesInAvail(),
		BytesOutAvail:  l.BytesOutAvail(),
		BytesXferAvail: l.BytesXferAvail(),
		FilesInAvail:   l.FilesInAvail(),
		FilesOutAvail:  l.FilesOutAvail(),
		FilesXferAvail: l.FilesXferAvail(),
		UpdatedAt:      l.UpdatedAt(),
	}
}

func QuotaLimitsToDomain(model *models.QuotaLimitsModel) (*quota.Limits, error) {
	name, err := quota.NewAccountKey(model.Name)
	if err != nil {
		return nil, fmt.Errorf("invalid quota limits name: %w", err)
	}

	return quota.ReconstructLimits(
		model.ID,
		name,
		quota.QuotaType(model.QuotaType),
		model.PerSession == "true",
		quota.LimitType(model.LimitType),
		model.BytesInAvail, model.BytesOutAvail, model.BytesXferAvail,
		model.FilesInAvail, model.FilesOutAvail, model.FilesXferAvail,
		model.UpdatedAt,
	), nil
}

func QuotaTalliesToDomain(model *models.QuotaTalliesModel) (*quota.Tallies, error) {
	name, err := quota.NewAccountKey(model.Name)
	if err != nil {
		return nil, fmt.Errorf("invalid quota tallies name: %w", err)
	}

	return quota.ReconstructTallies(
		name,
		quota.QuotaType(model.QuotaType),
		model.BytesInUsed, model.BytesOutUsed, model.BytesXferUsed,
		model.FilesInUsed, model.FilesOutUsed, model.FilesXferUsed,
	), nil
}
