package models

import (
	"time"

	"github.com/bajabeat/descargas/internal/shared/constants"
)

type UserModel struct {
	ID              uint    `gorm:"primaryKey"`
	Email           string  `gorm:"uniqueIndex;size:255;not null"`
	Phone           string  `gorm:"size:32;index"`
	AccountKey      string  `gorm:"column:account_key;uniqueIndex;size:64;not null"`
	TrialUsedAt     *time.Time
	CardCustomerRef *string `gorm:"size:128"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (UserModel) TableName() string {
	return constants.TableUsers
}
