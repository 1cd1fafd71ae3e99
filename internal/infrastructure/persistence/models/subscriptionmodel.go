package models

import (
	"time"

	"github.com/bajabeat/descargas/internal/shared/constants"
)

// SubscriptionModel maps the legacy descargas_users table. One row per
// customer entitlement period; the table name predates this service.
type SubscriptionModel struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index;not null"`
	OrderID     uint   `gorm:"index;not null"`
	PlanID      uint   `gorm:"index;not null"`
	AccountKey  string `gorm:"column:account_key;size:64;not null;index"`
	PeriodStart time.Time
	PeriodEnd   time.Time `gorm:"index;not null"`
	CanceledAt  *time.Time
	Version     int `gorm:"default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}
