package models

import (
	"time"

	"github.com/bajabeat/descargas/internal/shared/constants"
)

type OrderModel struct {
	ID             uint    `gorm:"primaryKey"`
	Reference      string  `gorm:"uniqueIndex;size:32;not null"`
	UserID         uint    `gorm:"index;not null"`
	PlanID         *uint   `gorm:"index"`
	AddonID        *uint   `gorm:"index"`
	Status         string  `gorm:"size:20;not null;index"`
	PaymentMethod  string  `gorm:"size:32;not null"`
	Amount         int64   `gorm:"not null"`
	Currency       string  `gorm:"size:10;not null;default:'MXN'"`
	IsCanceled     bool    `gorm:"not null;default:false"`
	ProviderTxnID  *string `gorm:"size:128;index"`
	ProviderSubID  *string `gorm:"size:128;index"`
	VoucherRef     *string `gorm:"size:128"`
	VoucherExpires *time.Time
	PaidAt         *time.Time
	FulfilledAt    *time.Time
	Version        int `gorm:"default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (OrderModel) TableName() string {
	return constants.TableOrders
}
