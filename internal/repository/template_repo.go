package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"golang-maintenance/internal/model"
	"golang-maintenance/pkg/utils"
)

type TemplateRepository interface {
	Create(ctx context.Context, template *model.MaintenanceTemplate, opts ...utils.DBOption) error
	Update(ctx context.Context, template *model.MaintenanceTemplate, opts ...utils.DBOption) error
	FindByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.MaintenanceTemplate, error)
	Get(ctx context.Context, param *model.GetTemplateParam, opts ...utils.DBOption) ([]model.MaintenanceTemplate, error)
	ReplaceAssets(ctx context.Context, template *model.MaintenanceTemplate, assets []model.Asset, opts ...utils.DBOption) error
	MarkDeleted(ctx context.Context, id uint, deleted bool, by *uint, opts ...utils.DBOption) error
	HardDelete(ctx context.Context, id uint, opts ...utils.DBOption) error
}

type templateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) Create(ctx context.Context, template *model.MaintenanceTemplate, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(template).Error
}

func (r *templateRepository) Update(ctx context.Context, template *model.MaintenanceTemplate, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(template).
		Select("*").
		Omit("Assets", "Executions", "PIC", "created_at").
		Updates(template).Error
}

func (r *templateRepository) FindByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.MaintenanceTemplate, error) {
	var template model.MaintenanceTemplate
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Preload("Assets").
		First(&template, id).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *templateRepository) Get(ctx context.Context, param *model.GetTemplateParam, opts ...utils.DBOption) ([]model.MaintenanceTemplate, error) {
	var templates []model.MaintenanceTemplate
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Model(&model.MaintenanceTemplate{})

	if !param.IncludeDeleted {
		db = db.Where("is_deleted = ?", false)
	}
	if len(param.IDs) > 0 {
		db = db.Where("id IN ?", param.IDs)
	}
	if len(param.PICIDs) > 0 {
		db = db.Where("pic_id IN ?", param.PICIDs)
	}
	if param.IsActive != nil {
		db = db.Where("is_active = ?", *param.IsActive)
	}
	if param.Limit != nil {
		db = db.Limit(*param.Limit)
	}

	result := db.Preload("Assets").Order("created_at DESC").Find(&templates)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return templates, nil
}

func (r *templateRepository) ReplaceAssets(ctx context.Context, template *model.MaintenanceTemplate, assets []model.Asset, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(template).
		Association("Assets").
		Replace(assets)
}

func (r *templateRepository) MarkDeleted(ctx context.Context, id uint, deleted bool, by *uint, opts ...utils.DBOption) error {
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
		Model(&model.MaintenanceTemplate{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *templateRepository) HardDelete(ctx context.Context, id uint, opts ...utils.DBOption) error {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if err := db.Exec("DELETE FROM template_assets WHERE maintenance_template_id = ?", id).Error; err != nil {
		return err
	}
	return db.Delete(&model.MaintenanceTemplate{}, id).Error
}
