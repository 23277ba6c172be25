package service

import (
	"context"
	"time"

	"golang-maintenance/config"
	"golang-maintenance/internal/dto"
	"golang-maintenance/internal/model"
	"golang-maintenance/internal/repository"
	"golang-maintenance/pkg/cache"
	"golang-maintenance/pkg/logger"
	"golang-maintenance/pkg/utils"
)

const (
	dashboardSummaryCacheKey = "dashboard:summary"
	dashboardSummaryCacheTTL = 1 * time.Minute
)

type DashboardService interface {
	Summary(ctx context.Context) (*dto.DashboardSummary, error)
	Compliance(ctx context.Context) ([]dto.ComplianceRow, error)
}

type dashboardService struct {
	cfg           *config.Config
	log           *logger.Logger
	cache         cache.Cache
	executionRepo repository.ExecutionRepository
}

func NewDashboardService(
	cfg *config.Config,
	log *logger.Logger,
	c cache.Cache,
	executionRepo repository.ExecutionRepository,
) DashboardService {
	return &dashboardService{
		cfg:           cfg,
		log:           log,
		cache:         c,
		executionRepo: executionRepo,
	}
}

// Summary aggregates execution counts. The result is cached briefly and
// invalidated on every status transition, so it is at most one TTL stale
// after direct database edits.
func (s *dashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, error) {
	if cached, found := cache.GetFromCache[*dto.DashboardSummary](dashboardSummaryCacheKey); found {
		return cached, nil
	}

	byStatus, err := s.executionRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	overdue, err := s.executionRepo.CountOverdue(ctx, utils.TimeNowWIB())
	if err != nil {
		return nil, err
	}

	var total int64
	for _, count := range byStatus {
		total += count
	}

	// Compliance rate is completed work against completed-plus-overdue.
	// Future scheduled executions do not count against anyone.
	done := byStatus[model.StatusDone]
	rate := 0.0
	if done+overdue > 0 {
		rate = float64(done) / float64(done+overdue)
	}

	summary := &dto.DashboardSummary{
		TotalExecutions: total,
		ByStatus:        byStatus,
		OverdueCount:    overdue,
		ComplianceRate:  rate,
		GeneratedAt:     utils.TimeNowWIB(),
	}
	s.cache.Set(dashboardSummaryCacheKey, summary, dashboardSummaryCacheTTL)
	return summary, nil
}

func (s *dashboardService) Compliance(ctx context.Context) ([]dto.ComplianceRow, error) {
	counts, err := s.executionRepo.ComplianceByTemplate(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.ComplianceRow, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, dto.ComplianceRow{
			TemplateID:    c.TemplateID,
			TemplateName:  c.TemplateName,
			OnTime:        c.OnTime,
			Late:          c.Late,
			NotApplicable: c.NotApplicable,
			Pending:       c.Pending,
		})
	}
	return rows, nil
}
