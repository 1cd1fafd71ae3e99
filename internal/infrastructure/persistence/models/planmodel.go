package models

import (
	"time"

	"github.com/bajabeat/descargas/internal/shared/constants"
)

type PlanModel struct {
	ID              uint    `gorm:"primaryKey"`
	Name            string  `gorm:"uniqueIndex;size:64;not null"`
	Gigas           int64   `gorm:"not null"`
	PriceInCents    int64   `gorm:"not null"`
	Currency        string  `gorm:"size:10;not null;default:'MXN'"`
	DurationDays    int     `gorm:"not null;default:30"`
	Active          bool    `gorm:"not null;default:true;index"`
	CardPriceRef    *string `gorm:"size:128"`
	CardProductRef  *string `gorm:"size:128"`
	WalletPlanID    *string `gorm:"size:128;index"`
	WalletProductID *string `gorm:"size:128"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (PlanModel) TableName() string {
	return constants.TablePlans
}
