package service

import (
	"golang-maintenance/config"
	"golang-maintenance/internal/repository"
	"golang-maintenance/pkg/cache"
	"golang-maintenance/pkg/logger"
)

type Service struct {
	TemplateService  TemplateService
	ExecutionService ExecutionService
	DashboardService DashboardService
	ReminderService  ReminderService
}

func NewService(cfg *config.Config, log *logger.Logger, c cache.Cache, repo *repository.Repository) (*Service, error) {
	templateService := NewTemplateService(cfg, log, repo.TemplateRepo, repo.ExecutionRepo, repo.AssetRepo, repo.UserRepo, repo.UnitOfWork)
	executionService := NewExecutionService(cfg, log, c, repo.ExecutionRepo, repo.StatusLogRepo, repo.UserRepo, repo.UnitOfWork)
	dashboardService := NewDashboardService(cfg, log, c, repo.ExecutionRepo)
	reminderService := NewReminderService(cfg, log, repo.ExecutionRepo, repo.ReminderLogRepo, repo.WhatsAppRepo)

	return &Service{
		TemplateService:  templateService,
		ExecutionService: executionService,
		DashboardService: dashboardService,
		ReminderService:  reminderService,
	}, nil
}
