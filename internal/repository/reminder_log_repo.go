package repository

import (
	"context"

	"gorm.io/gorm"

	"golang-maintenance/internal/model"
	"golang-maintenance/pkg/utils"
)

type ReminderLogRepository interface {
	Create(ctx context.Context, log *model.ReminderLog, opts ...utils.DBOption) error
	Exists(ctx context.Context, executionID, userID uint, reminderType model.ReminderType, opts ...utils.DBOption) (bool, error)
}

type reminderLogRepository struct {
	db *gorm.DB
}

func NewReminderLogRepository(db *gorm.DB) ReminderLogRepository {
	return &reminderLogRepository{db: db}
}

func (r *reminderLogRepository) Create(ctx context.Context, log *model.ReminderLog, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(log).Error
}

func (r *reminderLogRepository) Exists(ctx context.Context, executionID, userID uint, reminderType model.ReminderType, opts ...utils.DBOption) (bool, error) {
	var count int64
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(&model.ReminderLog{}).
		Where("execution_id = ? AND user_id = ? AND reminder_type = ? AND status = ?",
			executionID, userID, reminderType, model.ReminderSent).
		Count(&count).Error
	return count > 0, err
}
