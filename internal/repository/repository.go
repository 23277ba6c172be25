package repository

import (
	"gorm.io/gorm"

	"golang-maintenance/config"
	"golang-maintenance/pkg/cache"
	"golang-maintenance/pkg/logger"
)

type Repository struct {
	TemplateRepo    TemplateRepository
	ExecutionRepo   ExecutionRepository
	StatusLogRepo   StatusLogRepository
	AssetRepo       AssetRepository
	UserRepo        UserRepository
	ReminderLogRepo ReminderLogRepository
	WhatsAppRepo    WhatsAppRepository
	UnitOfWork      UnitOfWork
}

func NewRepository(cfg *config.Config, c cache.Cache, db *gorm.DB, log *logger.Logger) (*Repository, error) {
	return &Repository{
		TemplateRepo:    NewTemplateRepository(db),
		ExecutionRepo:   NewExecutionRepository(db),
		StatusLogRepo:   NewStatusLogRepository(db),
		AssetRepo:       NewAssetRepository(db),
		UserRepo:        NewUserRepository(db, c),
		ReminderLogRepo: NewReminderLogRepository(db),
		WhatsAppRepo:    NewWhatsAppRepository(cfg, log),
		UnitOfWork:      NewUnitOfWork(db),
	}, nil
}
