package models

import (
	"time"

	"github.com/bajabeat/descargas/internal/shared/constants"
)

type AddonProductModel struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"uniqueIndex;size:64;not null"`
	Gigas        int64  `gorm:"not null"`
	PriceInCents int64  `gorm:"not null"`
	Currency     string `gorm:"size:10;not null;default:'MXN'"`
	Active       bool   `gorm:"not null;default:true;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (AddonProductModel) TableName() string {
	return constants.TableAddonProducts
}
