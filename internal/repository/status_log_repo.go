package repository

import (
	"context"

	"gorm.io/gorm"

	"golang-maintenance/internal/model"
	"golang-maintenance/pkg/utils"
)

// StatusLogRepository is append-only by construction: there is no update or
// delete method, matching the audit-trail invariant.
type StatusLogRepository interface {
	Create(ctx context.Context, log *model.ExecutionStatusLog, opts ...utils.DBOption) error
	FindLatest(ctx context.Context, executionID uint, opts ...utils.DBOption) (*model.ExecutionStatusLog, error)
	FindByExecution(ctx context.Context, executionID uint, opts ...utils.DBOption) ([]model.ExecutionStatusLog, error)
}

type statusLogRepository struct {
	db *gorm.DB
}

func NewStatusLogRepository(db *gorm.DB) StatusLogRepository {
	return &statusLogRepository{db: db}
}

func (r *statusLogRepository) Create(ctx context.Context, log *model.ExecutionStatusLog, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(log).Error
}

func (r *statusLogRepository) FindLatest(ctx context.Context, executionID uint, opts ...utils.DBOption) (*model.ExecutionStatusLog, error) {
	var log model.ExecutionStatusLog
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("execution_id = ?", executionID).
		Order("changed_at DESC, id DESC").
		First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *statusLogRepository) FindByExecution(ctx context.Context, executionID uint, opts ...utils.DBOption) ([]model.ExecutionStatusLog, error) {
	var logs []model.ExecutionStatusLog
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("execution_id = ?", executionID).
		Order("changed_at DESC, id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
