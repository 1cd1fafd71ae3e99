package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/bajabeat/descargas/internal/domain/subscription"
	"github.com/bajabeat/descargas/internal/infrastructure/persistence/mappers"
	"github.com/bajabeat/descargas/internal/infrastructure/persistence/models"
	"github.com/bajabeat/descargas/internal/shared/db"
)

type CancellationFeedbackRepository struct {
	db *gorm.DB
}

func NewCancellationFeedbackRepository(db *gorm.DB) *CancellationFeedbackRepository {
	return &CancellationFeedbackRepository{db: db}
}

func (r *CancellationFeedbackRepository) Create(ctx context.Context, feedback *subscription.CancellationFeedback) error {
	model := mappers.CancellationFeedbackToModel(feedback)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create cancellation feedback: %w", err)
	}

	feedback.ID = model.ID

	return nil
}

func (r *CancellationFeedbackRepository) ListByUserID(ctx context.Context, userID uint) ([]*subscription.CancellationFeedback, error) {
	var feedbackModels []models.CancellationFeedbackModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&feedbackModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list cancellation feedback: %w", err)
	}

	feedback := make([]*subscription.CancellationFeedback, 0, len(feedbackModels))
	for i := range feedbackModels {
		feedback = append(feedback, mappers.CancellationFeedbackToDomain(&feedbackModels[i]))
	}

	return feedback, nil
}
