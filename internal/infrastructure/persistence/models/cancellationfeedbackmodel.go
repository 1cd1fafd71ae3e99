package models

import (
	"time"

	"github.com/bajabeat/descargas/internal/shared/constants"
)

type CancellationFeedbackModel struct {
	ID             uint   `gorm:"primaryKey"`
	UserID         uint   `gorm:"index;not null"`
	SubscriptionID uint   `gorm:"index;not null"`
	Reason         string `gorm:"size:64;not null"`
	Comment        string `gorm:"type:text"`
	CreatedAt      time.Time
}

func (CancellationFeedbackModel) TableName() string {
	return constants.TableCancellationFeedback
}
