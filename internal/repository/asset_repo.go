package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"golang-maintenance/internal/model"
	"golang-maintenance/pkg/utils"
)

type AssetRepository interface {
	FindByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.Asset, error)
	// FindByIDs resolves asset references and fails when any id is unknown,
	// so a dangling reference aborts reconciliation before any write.
	FindByIDs(ctx context.Context, ids []uint, opts ...utils.DBOption) ([]model.Asset, error)
}

type assetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) FindByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.Asset, error) {
	var asset model.Asset
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).First(&asset, id).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepository) FindByIDs(ctx context.Context, ids []uint, opts ...utils.DBOption) ([]model.Asset, error) {
	var assets []model.Asset
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("id IN ?", ids).
		Find(&assets).Error
	if err != nil {
		return nil, err
	}
	if len(assets) != len(ids) {
		return nil, fmt.Errorf("unknown asset reference: requested %d assets, found %d", len(ids), len(assets))
	}
	return assets, nil
}
