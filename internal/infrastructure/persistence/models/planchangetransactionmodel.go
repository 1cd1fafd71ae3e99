package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/bajabeat/descargas/internal/shared/constants"
)

type PlanChangeTransactionModel struct {
	ID             uint           `gorm:"primaryKey"`
	UserID         uint           `gorm:"index;not null"`
	OrderID        uint           `gorm:"index;not null"`
	FromPlanID     uint           `gorm:"not null"`
	ToPlanID       uint           `gorm:"not null"`
	ProviderSubRef string         `gorm:"size:128;not null"`
	Quota          datatypes.JSON `gorm:"column:quota"`
	CreatedAt      time.Time
}

func (PlanChangeTransactionModel) TableName() string {
	return constants.TablePlanChangeTransactions
}
