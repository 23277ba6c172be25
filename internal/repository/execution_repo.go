package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"golang-maintenance/internal/model"
	"golang-maintenance/pkg/utils"
)

type ExecutionRepository interface {
	// CreateBatchIgnoreConflicts inserts the given executions, silently
	// skipping any row whose (template, asset, scheduled_date) key already
	// exists. Returns the number of rows actually inserted.
	CreateBatchIgnoreConflicts(ctx context.Context, executions []model.MaintenanceExecution, opts ...utils.DBOption) (int64, error)
	// ExistingKeys returns every (asset, date) pair persisted for a template,
	// soft-deleted rows included, so reconciliation never resurrects them.
	ExistingKeys(ctx context.Context, templateID uint, opts ...utils.DBOption) (map[model.ExecutionKey]struct{}, error)
	RemoveByAssets(ctx context.Context, templateID uint, assetIDs []uint, hard bool, by *uint, opts ...utils.DBOption) (int64, error)
	MarkDeletedByTemplate(ctx context.Context, templateID uint, deleted bool, by *uint, opts ...utils.DBOption) error
	HardDeleteByTemplate(ctx context.Context, templateID uint, opts ...utils.DBOption) error
	FindByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.MaintenanceExecution, error)
	Update(ctx context.Context, execution *model.MaintenanceExecution, opts ...utils.DBOption) error
	Get(ctx context.Context, param *model.GetExecutionParam, opts ...utils.DBOption) ([]model.MaintenanceExecution, error)
	CountByStatus(ctx context.Context, opts ...utils.DBOption) (map[model.ExecutionStatus]int64, error)
	CountOverdue(ctx context.Context, asOf time.Time, opts ...utils.DBOption) (int64, error)
	ComplianceByTemplate(ctx context.Context, opts ...utils.DBOption) ([]model.TemplateComplianceCount, error)
}

type executionRepository struct {
	db *gorm.DB
}

func NewExecutionRepository(db *gorm.DB) ExecutionRepository {
	return &executionRepository{db: db}
}

func (r *executionRepository) CreateBatchIgnoreConflicts(ctx context.Context, executions []model.MaintenanceExecution, opts ...utils.DBOption) (int64, error) {
	if len(executions) == 0 {
		return 0, nil
	}
	// The unique index is the final arbiter against concurrent
	// reconciliations of the same template: a racing duplicate insert is
	// absorbed here, not surfaced.
	result := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "template_id"}, {Name: "asset_id"}, {Name: "scheduled_date"}},
			DoNothing: true,
		}).
		CreateInBatches(executions, 200)
	return result.RowsAffected, result.Error
}

func (r *executionRepository) ExistingKeys(ctx context.Context, templateID uint, opts ...utils.DBOption) (map[model.ExecutionKey]struct{}, error) {
	var rows []model.MaintenanceExecution
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Select("asset_id", "scheduled_date").
		Where("template_id = ?", templateID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	keys := make(map[model.ExecutionKey]struct{}, len(rows))
	for _, row := range rows {
		keys[row.Key()] = struct{}{}
	}
	return keys, nil
}

func (r *executionRepository) RemoveByAssets(ctx context.Context, templateID uint, assetIDs []uint, hard bool, by *uint, opts ...utils.DBOption) (int64, error) {
	if len(assetIDs) == 0 {
		return 0, nil
	}
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("template_id = ? AND asset_id IN ?", templateID, assetIDs)

	if hard {
		result := db.Delete(&model.MaintenanceExecution{})
		return result.RowsAffected, result.Error
	}

	result := db.Model(&model.MaintenanceExecution{}).Updates(map[string]interface{}{
		"is_deleted":    true,
		"deleted_at":    time.Now(),
		"deleted_by_id": by,
	})
	return result.RowsAffected, result.Error
}

func (r *executionRepository) MarkDeletedByTemplate(ctx context.Context, templateID uint, deleted bool, by *uint, opts ...utils.DBOption) error {
	updates := map[string]interface{}{
		"is_deleted":    deleted,
		"deleted_at":    nil,
		"deleted_by_id": nil,
	}
	if deleted {
		updates["deleted_at"] = time.Now()
		updates["deleted_by_id"] = by
	}
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(&model.MaintenanceExecution{}).
		Where("template_id = ?", templateID).
		Updates(updates).Error
}

func (r *executionRepository) HardDeleteByTemplate(ctx context.Context, templateID uint, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("template_id = ?", templateID).
		Delete(&model.MaintenanceExecution{}).Error
}

func (r *executionRepository) FindByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.MaintenanceExecution, error) {
	var execution model.MaintenanceExecution
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).First(&execution, id).Error
	if err != nil {
		return nil, err
	}
	return &execution, nil
}

// Update writes the full row so that fields cleared back to their zero value
// (actual_date after an undo, for example) are persisted too.
func (r *executionRepository) Update(ctx context.Context, execution *model.MaintenanceExecution, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Omit("Template", "Asset", "AssignedTo", "StatusLogs", "created_at").
		Save(execution).Error
}

func (r *executionRepository) Get(ctx context.Context, param *model.GetExecutionParam, opts ...utils.DBOption) ([]model.MaintenanceExecution, error) {
	var executions []model.MaintenanceExecution
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Model(&model.MaintenanceExecution{})

	if !param.IncludeDeleted {
		db = db.Where("is_deleted = ?", false)
	}
	if len(param.TemplateIDs) > 0 {
		db = db.Where("template_id IN ?", param.TemplateIDs)
	}
	if len(param.AssetIDs) > 0 {
		db = db.Where("asset_id IN ?", param.AssetIDs)
	}
	if len(param.Statuses) > 0 {
		db = db.Where("status IN ?", param.Statuses)
	}
	if param.DateFrom != nil {
		db = db.Where("scheduled_date >= ?", utils.DateOnly(*param.DateFrom))
	}
	if param.DateTo != nil {
		db = db.Where("scheduled_date <= ?", utils.DateOnly(*param.DateTo))
	}
	if param.OverdueOnly {
		db = db.Where("status = ? AND scheduled_date < ?", model.StatusScheduled, utils.TodayWIB())
	}
	if param.Limit != nil {
		db = db.Limit(*param.Limit)
	}

	result := db.Order("scheduled_date ASC, asset_id ASC").Find(&executions)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return executions, nil
}

func (r *executionRepository) CountByStatus(ctx context.Context, opts ...utils.DBOption) (map[model.ExecutionStatus]int64, error) {
	type statusCount struct {
		Status model.ExecutionStatus
		Count  int64
	}
	var rows []statusCount
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(&model.MaintenanceExecution{}).
		Select("status, count(*) as count").
		Where("is_deleted = ?", false).
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.ExecutionStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *executionRepository) ComplianceByTemplate(ctx context.Context, opts ...utils.DBOption) ([]model.TemplateComplianceCount, error) {
	var rows []model.TemplateComplianceCount
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Raw(`
		SELECT e.template_id,
			t.name AS template_name,
			SUM(CASE WHEN e.compliance_type = 'A' THEN 1 ELSE 0 END) AS on_time,
			SUM(CASE WHEN e.compliance_type = 'B' THEN 1 ELSE 0 END) AS late,
			SUM(CASE WHEN e.status IN ('Skipped', 'N/A') THEN 1 ELSE 0 END) AS not_applicable,
			SUM(CASE WHEN e.status = 'Scheduled' THEN 1 ELSE 0 END) AS pending
		FROM maintenance_executions e
		INNER JOIN maintenance_templates t ON t.id = e.template_id
		WHERE e.is_deleted = false
		GROUP BY e.template_id, t.name
		ORDER BY t.name ASC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *executionRepository) CountOverdue(ctx context.Context, asOf time.Time, opts ...utils.DBOption) (int64, error) {
	var count int64
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(&model.MaintenanceExecution{}).
		Where("is_deleted = ? AND status = ? AND scheduled_date < ?", false, model.StatusScheduled, utils.DateOnly(asOf)).
		Count(&count).Error
	return count, err
}
