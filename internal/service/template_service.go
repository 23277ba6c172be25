package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang-maintenance/config"
	"golang-maintenance/internal/dto"
	"golang-maintenance/internal/model"
	"golang-maintenance/internal/repository"
	"golang-maintenance/internal/schedule"
	"golang-maintenance/pkg/logger"
	"golang-maintenance/pkg/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TemplateService interface {
	Create(ctx context.Context, req dto.CreateTemplateRequest, actorID *uint) (*model.MaintenanceTemplate, *dto.ReconcileResult, error)
	Update(ctx context.Context, id uint, req dto.UpdateTemplateRequest) (*model.MaintenanceTemplate, *dto.ReconcileResult, error)
	Duplicate(ctx context.Context, id uint, req dto.DuplicateTemplateRequest, actorID *uint) (*model.MaintenanceTemplate, *dto.ReconcileResult, error)
	Generate(ctx context.Context, id uint) (*dto.ReconcileResult, error)
	SoftDelete(ctx context.Context, id uint, actorID *uint) error
	Restore(ctx context.Context, id uint) error
	HardDelete(ctx context.Context, id uint) error
	ToggleActive(ctx context.Context, id uint) (bool, error)
	FindByID(ctx context.Context, id uint) (*model.MaintenanceTemplate, error)
	List(ctx context.Context, param model.GetTemplateParam, scopeToPIC *uint) ([]model.MaintenanceTemplate, error)
}

type templateService struct {
	cfg           *config.Config
	log           *logger.Logger
	templateRepo  repository.TemplateRepository
	executionRepo repository.ExecutionRepository
	assetRepo     repository.AssetRepository
	userRepo      repository.UserRepository
	uow           repository.UnitOfWork
}

func NewTemplateService(
	cfg *config.Config,
	log *logger.Logger,
	templateRepo repository.TemplateRepository,
	executionRepo repository.ExecutionRepository,
	assetRepo repository.AssetRepository,
	userRepo repository.UserRepository,
	uow repository.UnitOfWork,
) TemplateService {
	return &templateService{
		cfg:           cfg,
		log:           log,
		templateRepo:  templateRepo,
		executionRepo: executionRepo,
		assetRepo:     assetRepo,
		userRepo:      userRepo,
		uow:           uow,
	}
}

func (s *templateService) Create(ctx context.Context, req dto.CreateTemplateRequest, actorID *uint) (*model.MaintenanceTemplate, *dto.ReconcileResult, error) {
	template, err := templateFromRequest(req)
	if err != nil {
		return nil, nil, err
	}
	template.CreatedByID = actorID

	// Validation happens before any write so a malformed schedule never
	// leaves partial state behind.
	if err := template.ScheduleSpec().Validate(); err != nil {
		return nil, nil, err
	}

	result := &dto.ReconcileResult{}
	err = s.uow.Run(func(opts ...utils.DBOption) error {
		assets, err := s.assetRepo.FindByIDs(ctx, req.AssetIDs, opts...)
		if err != nil {
			return err
		}
		template.Assets = assets

		if err := s.templateRepo.Create(ctx, template, opts...); err != nil {
			return err
		}

		r, err := s.reconcile(ctx, template, nil, opts...)
		if err != nil {
			return err
		}
		*result = *r
		return nil
	})
	if err != nil {
		return nil, nil, reconciliationError(err)
	}

	s.log.InfoContext(ctx, "Template created",
		logger.IntField("template_id", int(template.ID)),
		logger.IntField("executions_created", int(result.Created)),
	)
	return template, result, nil
}

func (s *templateService) Update(ctx context.Context, id uint, req dto.UpdateTemplateRequest) (*model.MaintenanceTemplate, *dto.ReconcileResult, error) {
	template, err := s.findActive(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	oldAssetIDs := make(map[uint]struct{}, len(template.Assets))
	for _, a := range template.Assets {
		oldAssetIDs[a.ID] = struct{}{}
	}

	if err := applyUpdateRequest(template, req); err != nil {
		return nil, nil, err
	}
	if err := template.ScheduleSpec().Validate(); err != nil {
		return nil, nil, err
	}

	var removedAssetIDs []uint
	newAssetIDs := make(map[uint]struct{}, len(req.AssetIDs))
	for _, id := range req.AssetIDs {
		newAssetIDs[id] = struct{}{}
	}
	for id := range oldAssetIDs {
		if _, ok := newAssetIDs[id]; !ok {
			removedAssetIDs = append(removedAssetIDs, id)
		}
	}

	result := &dto.ReconcileResult{}
	err = s.uow.Run(func(opts ...utils.DBOption) error {
		assets, err := s.assetRepo.FindByIDs(ctx, req.AssetIDs, opts...)
		if err != nil {
			return err
		}

		if err := s.templateRepo.Update(ctx, template, opts...); err != nil {
			return err
		}
		if err := s.templateRepo.ReplaceAssets(ctx, template, assets, opts...); err != nil {
			return err
		}
		template.Assets = assets

		r, err := s.reconcile(ctx, template, removedAssetIDs, opts...)
		if err != nil {
			return err
		}
		*result = *r
		return nil
	})
	if err != nil {
		return nil, nil, reconciliationError(err)
	}

	s.log.InfoContext(ctx, "Template updated",
		logger.IntField("template_id", int(template.ID)),
		logger.IntField("executions_created", int(result.Created)),
		logger.IntField("executions_removed", int(result.Removed)),
	)
	return template, result, nil
}

func (s *templateService) Duplicate(ctx context.Context, id uint, req dto.DuplicateTemplateRequest, actorID *uint) (*model.MaintenanceTemplate, *dto.ReconcileResult, error) {
	original, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, notFoundError(err, ErrTemplateNotFound)
	}

	startDate, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: bad start_date: %v", ErrInvalidScheduleParameters, err)
	}
	var endDate *time.Time
	if req.EndDate != "" {
		parsed, err := utils.ParseDate(req.EndDate)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: bad end_date: %v", ErrInvalidScheduleParameters, err)
		}
		endDate = &parsed
	}

	// Everything but the date range carries over; the clone gets a fully
	// independent execution set.
	clone := &model.MaintenanceTemplate{
		Name:             original.Name,
		Description:      original.Description,
		ScheduleType:     original.ScheduleType,
		IntervalDays:     original.IntervalDays,
		CustomDays:       original.CustomDays,
		StartDate:        startDate,
		EndDate:          endDate,
		Focus:            original.Focus,
		Priority:         original.Priority,
		Category:         original.Category,
		PICID:            original.PICID,
		Notify24hBefore:  original.Notify24hBefore,
		Notify2hBefore:   original.Notify2hBefore,
		NotifyOnSchedule: original.NotifyOnSchedule,
		IsActive:         true,
		CreatedByID:      actorID,
	}

	if err := clone.ScheduleSpec().Validate(); err != nil {
		return nil, nil, err
	}

	result := &dto.ReconcileResult{}
	err = s.uow.Run(func(opts ...utils.DBOption) error {
		clone.Assets = original.Assets
		if err := s.templateRepo.Create(ctx, clone, opts...); err != nil {
			return err
		}
		r, err := s.reconcile(ctx, clone, nil, opts...)
		if err != nil {
			return err
		}
		*result = *r
		return nil
	})
	if err != nil {
		return nil, nil, reconciliationError(err)
	}

	s.log.InfoContext(ctx, "Template duplicated",
		logger.IntField("original_id", int(original.ID)),
		logger.IntField("clone_id", int(clone.ID)),
		logger.IntField("executions_created", int(result.Created)),
	)
	return clone, result, nil
}

// Generate re-runs reconciliation without any asset removals. This is the
// caller-driven way to materialize more dates for unbounded schedules once
// the previous horizon window fills up.
func (s *templateService) Generate(ctx context.Context, id uint) (*dto.ReconcileResult, error) {
	template, err := s.findActive(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &dto.ReconcileResult{}
	err = s.uow.Run(func(opts ...utils.DBOption) error {
		r, err := s.reconcile(ctx, template, nil, opts...)
		if err != nil {
			return err
		}
		*result = *r
		return nil
	})
	if err != nil {
		return nil, reconciliationError(err)
	}
	return result, nil
}

func (s *templateService) SoftDelete(ctx context.Context, id uint, actorID *uint) error {
	template, err := s.findActive(ctx, id)
	if err != nil {
		return err
	}

	return s.uow.Run(func(opts ...utils.DBOption) error {
		if err := s.templateRepo.MarkDeleted(ctx, template.ID, true, actorID, opts...); err != nil {
			return err
		}
		return s.executionRepo.MarkDeletedByTemplate(ctx, template.ID, true, actorID, opts...)
	})
}

func (s *templateService) Restore(ctx context.Context, id uint) error {
	template, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		return notFoundError(err, ErrTemplateNotFound)
	}
	if !template.IsDeleted {
		return nil
	}

	return s.uow.Run(func(opts ...utils.DBOption) error {
		if err := s.templateRepo.MarkDeleted(ctx, template.ID, false, nil, opts...); err != nil {
			return err
		}
		return s.executionRepo.MarkDeletedByTemplate(ctx, template.ID, false, nil, opts...)
	})
}

func (s *templateService) HardDelete(ctx context.Context, id uint) error {
	template, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		return notFoundError(err, ErrTemplateNotFound)
	}

	return s.uow.Run(func(opts ...utils.DBOption) error {
		if err := s.executionRepo.HardDeleteByTemplate(ctx, template.ID, opts...); err != nil {
			return err
		}
		return s.templateRepo.HardDelete(ctx, template.ID, opts...)
	})
}

func (s *templateService) ToggleActive(ctx context.Context, id uint) (bool, error) {
	template, err := s.findActive(ctx, id)
	if err != nil {
		return false, err
	}

	// The flag only gates future generation and reminders; existing
	// executions are untouched.
	template.IsActive = !template.IsActive
	if err := s.templateRepo.Update(ctx, template); err != nil {
		return false, err
	}
	return template.IsActive, nil
}

func (s *templateService) FindByID(ctx context.Context, id uint) (*model.MaintenanceTemplate, error) {
	template, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundError(err, ErrTemplateNotFound)
	}
	return template, nil
}

// List returns templates, optionally scoped to a PIC and everyone below them
// in the supervisor hierarchy.
func (s *templateService) List(ctx context.Context, param model.GetTemplateParam, scopeToPIC *uint) ([]model.MaintenanceTemplate, error) {
	if scopeToPIC != nil {
		descendants, err := s.userRepo.GetDescendantIDs(ctx, *scopeToPIC)
		if err != nil {
			return nil, err
		}
		param.PICIDs = append(descendants, *scopeToPIC)
	}
	return s.templateRepo.Get(ctx, &param)
}

// reconcile diffs what the template currently requires against what is
// persisted. Creation is keyed on (asset, date) only — soft-deleted rows and
// rows with recorded history count as existing and are never recreated or
// overwritten. Only explicitly removed assets lose their executions; a
// shrunken date window removes nothing.
func (s *templateService) reconcile(ctx context.Context, template *model.MaintenanceTemplate, removedAssetIDs []uint, opts ...utils.DBOption) (*dto.ReconcileResult, error) {
	spec := template.ScheduleSpec()
	dates := spec.AllDueDates(utils.TodayWIB(), s.cfg.Generator.HorizonMonths)

	existing, err := s.executionRepo.ExistingKeys(ctx, template.ID, opts...)
	if err != nil {
		return nil, err
	}

	var toCreate []model.MaintenanceExecution
	for _, date := range dates {
		for _, asset := range template.Assets {
			if _, ok := existing[model.NewExecutionKey(asset.ID, date)]; ok {
				continue
			}
			toCreate = append(toCreate, model.MaintenanceExecution{
				TemplateID:     template.ID,
				AssetID:        asset.ID,
				ScheduledDate:  date,
				Status:         model.StatusScheduled,
				ComplianceType: model.ComplianceNone,
			})
		}
	}

	created, err := s.executionRepo.CreateBatchIgnoreConflicts(ctx, toCreate, opts...)
	if err != nil {
		return nil, err
	}

	removed, err := s.executionRepo.RemoveByAssets(ctx, template.ID, removedAssetIDs, false, nil, opts...)
	if err != nil {
		return nil, err
	}

	return &dto.ReconcileResult{Created: created, Removed: removed}, nil
}

func (s *templateService) findActive(ctx context.Context, id uint) (*model.MaintenanceTemplate, error) {
	template, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundError(err, ErrTemplateNotFound)
	}
	if template.IsDeleted {
		return nil, ErrTemplateNotFound
	}
	return template, nil
}

func templateFromRequest(req dto.CreateTemplateRequest) (*model.MaintenanceTemplate, error) {
	startDate, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: bad start_date: %v", ErrInvalidScheduleParameters, err)
	}

	template := &model.MaintenanceTemplate{
		Name:         req.Name,
		Description:  req.Description,
		ScheduleType: schedule.Kind(req.ScheduleType),
		IntervalDays: req.IntervalDays,
		CustomDays:   datatypes.JSONSlice[int](req.CustomDays),
		StartDate:    startDate,
		Focus:        model.JobFocus(req.Focus),
		Priority:     model.JobPriority(req.Priority),
		Category:     req.Category,
		PICID:        req.PICID,
		IsActive:     true,
	}
	if req.EndDate != "" {
		endDate, err := utils.ParseDate(req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: bad end_date: %v", ErrInvalidScheduleParameters, err)
		}
		template.EndDate = &endDate
	}
	if template.Focus == "" {
		template.Focus = model.FocusMaintenance
	}
	if template.Priority == "" {
		template.Priority = model.PriorityNormal
	}
	if template.Category == "" {
		template.Category = "Mekanik"
	}
	if req.Notify24hBefore != nil {
		template.Notify24hBefore = *req.Notify24hBefore
	} else {
		template.Notify24hBefore = true
	}
	if req.Notify2hBefore != nil {
		template.Notify2hBefore = *req.Notify2hBefore
	} else {
		template.Notify2hBefore = true
	}
	if req.NotifyOnSchedule != nil {
		template.NotifyOnSchedule = *req.NotifyOnSchedule
	}
	return template, nil
}

func applyUpdateRequest(template *model.MaintenanceTemplate, req dto.UpdateTemplateRequest) error {
	startDate, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return fmt.Errorf("%w: bad start_date: %v", ErrInvalidScheduleParameters, err)
	}

	template.Name = req.Name
	template.Description = req.Description
	template.ScheduleType = schedule.Kind(req.ScheduleType)
	template.IntervalDays = req.IntervalDays
	template.CustomDays = datatypes.JSONSlice[int](req.CustomDays)
	template.StartDate = startDate
	template.EndDate = nil
	if req.EndDate != "" {
		endDate, err := utils.ParseDate(req.EndDate)
		if err != nil {
			return fmt.Errorf("%w: bad end_date: %v", ErrInvalidScheduleParameters, err)
		}
		template.EndDate = &endDate
	}
	if req.Focus != "" {
		template.Focus = model.JobFocus(req.Focus)
	}
	if req.Priority != "" {
		template.Priority = model.JobPriority(req.Priority)
	}
	if req.Category != "" {
		template.Category = req.Category
	}
	template.PICID = req.PICID
	if req.Notify24hBefore != nil {
		template.Notify24hBefore = *req.Notify24hBefore
	}
	if req.Notify2hBefore != nil {
		template.Notify2hBefore = *req.Notify2hBefore
	}
	if req.NotifyOnSchedule != nil {
		template.NotifyOnSchedule = *req.NotifyOnSchedule
	}
	return nil
}

// reconciliationError keeps validation errors distinguishable while folding
// everything else under the reconciliation sentinel.
func reconciliationError(err error) error {
	if errors.Is(err, schedule.ErrInvalidParameters) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrReconciliationFailed, err)
}

func notFoundError(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
