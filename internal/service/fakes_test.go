package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"golang-maintenance/internal/model"
	"golang-maintenance/pkg/utils"
)

type fakeUnitOfWork struct{}

func (f *fakeUnitOfWork) Run(fn func(opts ...utils.DBOption) error) error {
	return fn()
}

type fakeTemplateRepo struct {
	templates map[uint]*model.MaintenanceTemplate
	nextID    uint
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[uint]*model.MaintenanceTemplate), nextID: 1}
}

func (r *fakeTemplateRepo) Create(_ context.Context, template *model.MaintenanceTemplate, _ ...utils.DBOption) error {
	template.ID = r.nextID
	r.nextID++
	stored := *template
	r.templates[template.ID] = &stored
	return nil
}

func (r *fakeTemplateRepo) Update(_ context.Context, template *model.MaintenanceTemplate, _ ...utils.DBOption) error {
	if _, ok := r.templates[template.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *template
	r.templates[template.ID] = &stored
	return nil
}

func (r *fakeTemplateRepo) FindByID(_ context.Context, id uint, _ ...utils.DBOption) (*model.MaintenanceTemplate, error) {
	stored, ok := r.templates[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *stored
	return &copy, nil
}

func (r *fakeTemplateRepo) Get(_ context.Context, param *model.GetTemplateParam, _ ...utils.DBOption) ([]model.MaintenanceTemplate, error) {
	var out []model.MaintenanceTemplate
	for _, t := range r.templates {
		if !param.IncludeDeleted && t.IsDeleted {
			continue
		}
		if len(param.PICIDs) > 0 {
			match := false
			for _, id := range param.PICIDs {
				if t.PICID != nil && *t.PICID == id {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		if param.IsActive != nil && t.IsActive != *param.IsActive {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTemplateRepo) ReplaceAssets(_ context.Context, template *model.MaintenanceTemplate, assets []model.Asset, _ ...utils.DBOption) error {
	stored, ok := r.templates[template.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Assets = assets
	return nil
}

func (r *fakeTemplateRepo) MarkDeleted(_ context.Context, id uint, deleted bool, by *uint, _ ...utils.DBOption) error {
	stored, ok := r.templates[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.IsDeleted = deleted
	stored.DeletedByID = nil
	stored.DeletedAt = nil
	if deleted {
		now := time.Now()
		stored.DeletedAt = &now
		stored.DeletedByID = by
	}
	return nil
}

func (r *fakeTemplateRepo) HardDelete(_ context.Context, id uint, _ ...utils.DBOption) error {
	delete(r.templates, id)
	return nil
}

type fakeExecutionRepo struct {
	executions map[uint]*model.MaintenanceExecution
	nextID     uint
}

func newFakeExecutionRepo() *fakeExecutionRepo {
	return &fakeExecutionRepo{executions: make(map[uint]*model.MaintenanceExecution), nextID: 1}
}

func (r *fakeExecutionRepo) CreateBatchIgnoreConflicts(_ context.Context, executions []model.MaintenanceExecution, _ ...utils.DBOption) (int64, error) {
	var created int64
	for _, e := range executions {
		if r.hasKey(e.TemplateID, e.Key()) {
			continue
		}
		e.ID = r.nextID
		r.nextID++
		stored := e
		r.executions[e.ID] = &stored
		created++
	}
	return created, nil
}

func (r *fakeExecutionRepo) hasKey(templateID uint, key model.ExecutionKey) bool {
	for _, e := range r.executions {
		if e.TemplateID == templateID && e.Key() == key {
			return true
		}
	}
	return false
}

func (r *fakeExecutionRepo) ExistingKeys(_ context.Context, templateID uint, _ ...utils.DBOption) (map[model.ExecutionKey]struct{}, error) {
	keys := make(map[model.ExecutionKey]struct{})
	for _, e := range r.executions {
		if e.TemplateID == templateID {
			keys[e.Key()] = struct{}{}
		}
	}
	return keys, nil
}

func (r *fakeExecutionRepo) RemoveByAssets(_ context.Context, templateID uint, assetIDs []uint, hard bool, by *uint, _ ...utils.DBOption) (int64, error) {
	targets := make(map[uint]struct{}, len(assetIDs))
	for _, id := range assetIDs {
		targets[id] = struct{}{}
	}
	var removed int64
	for id, e := range r.executions {
		if e.TemplateID != templateID {
			continue
		}
		if _, ok := targets[e.AssetID]; !ok {
			continue
		}
		if hard {
			delete(r.executions, id)
		} else {
			e.IsDeleted = true
			e.DeletedByID = by
		}
		removed++
	}
	return removed, nil
}

func (r *fakeExecutionRepo) MarkDeletedByTemplate(_ context.Context, templateID uint, deleted bool, by *uint, _ ...utils.DBOption) error {
	for _, e := range r.executions {
		if e.TemplateID == templateID {
			e.IsDeleted = deleted
			e.DeletedByID = nil
			if deleted {
				e.DeletedByID = by
			}
		}
	}
	return nil
}

func (r *fakeExecutionRepo) HardDeleteByTemplate(_ context.Context, templateID uint, _ ...utils.DBOption) error {
	for id, e := range r.executions {
		if e.TemplateID == templateID {
			delete(r.executions, id)
		}
	}
	return nil
}

func (r *fakeExecutionRepo) FindByID(_ context.Context, id uint, _ ...utils.DBOption) (*model.MaintenanceExecution, error) {
	stored, ok := r.executions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *stored
	return &copy, nil
}

func (r *fakeExecutionRepo) Update(_ context.Context, execution *model.MaintenanceExecution, _ ...utils.DBOption) error {
	if _, ok := r.executions[execution.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *execution
	r.executions[execution.ID] = &stored
	return nil
}

func (r *fakeExecutionRepo) Get(_ context.Context, param *model.GetExecutionParam, _ ...utils.DBOption) ([]model.MaintenanceExecution, error) {
	var out []model.MaintenanceExecution
	for _, e := range r.executions {
		if !param.IncludeDeleted && e.IsDeleted {
			continue
		}
		if len(param.TemplateIDs) > 0 && !containsUint(param.TemplateIDs, e.TemplateID) {
			continue
		}
		if len(param.AssetIDs) > 0 && !containsUint(param.AssetIDs, e.AssetID) {
			continue
		}
		if len(param.Statuses) > 0 {
			match := false
			for _, s := range param.Statuses {
				if e.Status == s {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		if param.DateFrom != nil && e.ScheduledDate.Before(utils.DateOnly(*param.DateFrom)) {
			continue
		}
		if param.DateTo != nil && e.ScheduledDate.After(utils.DateOnly(*param.DateTo)) {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (r *fakeExecutionRepo) CountByStatus(_ context.Context, _ ...utils.DBOption) (map[model.ExecutionStatus]int64, error) {
	counts := make(map[model.ExecutionStatus]int64)
	for _, e := range r.executions {
		if !e.IsDeleted {
			counts[e.Status]++
		}
	}
	return counts, nil
}

func (r *fakeExecutionRepo) CountOverdue(_ context.Context, asOf time.Time, _ ...utils.DBOption) (int64, error) {
	var count int64
	for _, e := range r.executions {
		if !e.IsDeleted && e.IsOverdue(asOf) {
			count++
		}
	}
	return count, nil
}

func (r *fakeExecutionRepo) ComplianceByTemplate(_ context.Context, _ ...utils.DBOption) ([]model.TemplateComplianceCount, error) {
	return nil, nil
}

func containsUint(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type fakeStatusLogRepo struct {
	logs   []model.ExecutionStatusLog
	nextID uint
}

func newFakeStatusLogRepo() *fakeStatusLogRepo {
	return &fakeStatusLogRepo{nextID: 1}
}

func (r *fakeStatusLogRepo) Create(_ context.Context, log *model.ExecutionStatusLog, _ ...utils.DBOption) error {
	log.ID = r.nextID
	r.nextID++
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeStatusLogRepo) FindLatest(_ context.Context, executionID uint, _ ...utils.DBOption) (*model.ExecutionStatusLog, error) {
	var latest *model.ExecutionStatusLog
	for i := range r.logs {
		l := &r.logs[i]
		if l.ExecutionID != executionID {
			continue
		}
		if latest == nil || l.ID > latest.ID {
			latest = l
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *latest
	return &copy, nil
}

func (r *fakeStatusLogRepo) FindByExecution(_ context.Context, executionID uint, _ ...utils.DBOption) ([]model.ExecutionStatusLog, error) {
	var out []model.ExecutionStatusLog
	for i := len(r.logs) - 1; i >= 0; i-- {
		if r.logs[i].ExecutionID == executionID {
			out = append(out, r.logs[i])
		}
	}
	return out, nil
}

type fakeAssetRepo struct {
	assets map[uint]model.Asset
}

func newFakeAssetRepo(ids ...uint) *fakeAssetRepo {
	assets := make(map[uint]model.Asset, len(ids))
	for _, id := range ids {
		assets[id] = model.Asset{ID: id, Name: fmt.Sprintf("Asset %d", id)}
	}
	return &fakeAssetRepo{assets: assets}
}

func (r *fakeAssetRepo) FindByID(_ context.Context, id uint, _ ...utils.DBOption) (*model.Asset, error) {
	asset, ok := r.assets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &asset, nil
}

func (r *fakeAssetRepo) FindByIDs(_ context.Context, ids []uint, _ ...utils.DBOption) ([]model.Asset, error) {
	out := make([]model.Asset, 0, len(ids))
	for _, id := range ids {
		asset, ok := r.assets[id]
		if !ok {
			return nil, fmt.Errorf("unknown asset reference: %d", id)
		}
		out = append(out, asset)
	}
	return out, nil
}

type fakeUserRepo struct {
	users       map[uint]*model.User
	descendants map[uint][]uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:       make(map[uint]*model.User),
		descendants: make(map[uint][]uint),
	}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint, _ ...utils.DBOption) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *user
	return &copy, nil
}

func (r *fakeUserRepo) GetDescendantIDs(_ context.Context, userID uint) ([]uint, error) {
	return r.descendants[userID], nil
}

func (r *fakeUserRepo) InvalidateHierarchy(uint) {}
