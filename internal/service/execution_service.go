package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang-maintenance/config"
	"golang-maintenance/internal/dto"
	"golang-maintenance/internal/model"
	"golang-maintenance/internal/repository"
	"golang-maintenance/pkg/cache"
	"golang-maintenance/pkg/logger"
	"golang-maintenance/pkg/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ExecutionService interface {
	Transition(ctx context.Context, id uint, req dto.TransitionRequest, actorID *uint) (*model.MaintenanceExecution, error)
	UndoLast(ctx context.Context, id uint, actorID *uint) (*model.MaintenanceExecution, error)
	History(ctx context.Context, id uint) ([]model.ExecutionStatusLog, error)
	Assign(ctx context.Context, id uint, userID uint) (*model.MaintenanceExecution, error)
	FindByID(ctx context.Context, id uint) (*model.MaintenanceExecution, error)
	List(ctx context.Context, query dto.ListExecutionsQuery) ([]model.MaintenanceExecution, error)
	Due(ctx context.Context, from, to time.Time) ([]model.MaintenanceExecution, error)
}

type executionService struct {
	cfg           *config.Config
	log           *logger.Logger
	cache         cache.Cache
	executionRepo repository.ExecutionRepository
	statusLogRepo repository.StatusLogRepository
	userRepo      repository.UserRepository
	uow           repository.UnitOfWork
}

func NewExecutionService(
	cfg *config.Config,
	log *logger.Logger,
	c cache.Cache,
	executionRepo repository.ExecutionRepository,
	statusLogRepo repository.StatusLogRepository,
	userRepo repository.UserRepository,
	uow repository.UnitOfWork,
) ExecutionService {
	return &executionService{
		cfg:           cfg,
		log:           log,
		cache:         c,
		executionRepo: executionRepo,
		statusLogRepo: statusLogRepo,
		userRepo:      userRepo,
		uow:           uow,
	}
}

// Transition moves an execution to a new status and appends one audit row.
// A same-state request is accepted but changes nothing and logs nothing, so
// retried requests stay idempotent.
func (s *executionService) Transition(ctx context.Context, id uint, req dto.TransitionRequest, actorID *uint) (*model.MaintenanceExecution, error) {
	execution, err := s.findLive(ctx, id)
	if err != nil {
		return nil, err
	}

	newStatus := model.ExecutionStatus(req.Status)
	ok, detail := execution.CanTransitionTo(newStatus)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, detail)
	}
	if newStatus == execution.Status {
		return execution, nil
	}

	snapshot, err := snapshotOf(execution)
	if err != nil {
		return nil, err
	}

	fromStatus := execution.Status
	execution.Status = newStatus
	if err := applyOutcome(execution, req); err != nil {
		return nil, err
	}

	logRow := &model.ExecutionStatusLog{
		ExecutionID: execution.ID,
		FromStatus:  fromStatus,
		ToStatus:    newStatus,
		Reason:      req.Reason,
		ChangedByID: actorID,
		ChangedAt:   utils.TimeNowWIB(),
		Snapshot:    snapshot,
	}

	err = s.uow.Run(func(opts ...utils.DBOption) error {
		if err := s.executionRepo.Update(ctx, execution, opts...); err != nil {
			return err
		}
		return s.statusLogRepo.Create(ctx, logRow, opts...)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateDashboard()
	s.log.InfoContext(ctx, "Execution status changed",
		logger.IntField("execution_id", int(execution.ID)),
		logger.StringField("from", string(fromStatus)),
		logger.StringField("to", string(newStatus)),
	)
	return execution, nil
}

// UndoLast reverts the most recent transition by issuing a new forward
// transition back to its FromStatus. The audit trail is append-only: undo
// adds a row, it never removes one.
func (s *executionService) UndoLast(ctx context.Context, id uint, actorID *uint) (*model.MaintenanceExecution, error) {
	execution, err := s.findLive(ctx, id)
	if err != nil {
		return nil, err
	}

	last, err := s.statusLogRepo.FindLatest(ctx, execution.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoHistory
		}
		return nil, err
	}

	snapshot, err := snapshotOf(execution)
	if err != nil {
		return nil, err
	}

	fromStatus := execution.Status
	execution.Status = last.FromStatus
	if err := restoreSnapshot(execution, last.Snapshot); err != nil {
		return nil, err
	}

	reason := "Undo"
	if last.Reason != "" {
		reason = "Undo: " + last.Reason
	}
	logRow := &model.ExecutionStatusLog{
		ExecutionID: execution.ID,
		FromStatus:  fromStatus,
		ToStatus:    last.FromStatus,
		Reason:      reason,
		ChangedByID: actorID,
		ChangedAt:   utils.TimeNowWIB(),
		Snapshot:    snapshot,
	}

	err = s.uow.Run(func(opts ...utils.DBOption) error {
		if err := s.executionRepo.Update(ctx, execution, opts...); err != nil {
			return err
		}
		return s.statusLogRepo.Create(ctx, logRow, opts...)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateDashboard()
	return execution, nil
}

func (s *executionService) History(ctx context.Context, id uint) ([]model.ExecutionStatusLog, error) {
	if _, err := s.executionRepo.FindByID(ctx, id); err != nil {
		return nil, notFoundError(err, ErrExecutionNotFound)
	}
	return s.statusLogRepo.FindByExecution(ctx, id)
}

func (s *executionService) Assign(ctx context.Context, id uint, userID uint) (*model.MaintenanceExecution, error) {
	execution, err := s.findLive(ctx, id)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundError(err, fmt.Errorf("assignee not found"))
	}

	execution.AssignedToID = &user.ID
	if err := s.executionRepo.Update(ctx, execution); err != nil {
		return nil, err
	}
	return execution, nil
}

func (s *executionService) FindByID(ctx context.Context, id uint) (*model.MaintenanceExecution, error) {
	execution, err := s.executionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundError(err, ErrExecutionNotFound)
	}
	return execution, nil
}

func (s *executionService) List(ctx context.Context, query dto.ListExecutionsQuery) ([]model.MaintenanceExecution, error) {
	param := &model.GetExecutionParam{
		OverdueOnly: query.OverdueOnly,
	}
	if query.TemplateID > 0 {
		param.TemplateIDs = []uint{query.TemplateID}
	}
	if query.AssetID > 0 {
		param.AssetIDs = []uint{query.AssetID}
	}
	if query.Status != "" {
		param.Statuses = []model.ExecutionStatus{model.ExecutionStatus(query.Status)}
	}
	if query.DateFrom != "" {
		from, err := utils.ParseDate(query.DateFrom)
		if err != nil {
			return nil, err
		}
		param.DateFrom = &from
	}
	if query.DateTo != "" {
		to, err := utils.ParseDate(query.DateTo)
		if err != nil {
			return nil, err
		}
		param.DateTo = &to
	}
	if query.Limit > 0 {
		param.Limit = &query.Limit
	}
	return s.executionRepo.Get(ctx, param)
}

// Due returns the still-scheduled executions inside a date window, oldest
// first. The reminder pipeline is its main consumer.
func (s *executionService) Due(ctx context.Context, from, to time.Time) ([]model.MaintenanceExecution, error) {
	return s.executionRepo.Get(ctx, &model.GetExecutionParam{
		Statuses: []model.ExecutionStatus{model.StatusScheduled},
		DateFrom: &from,
		DateTo:   &to,
	})
}

func (s *executionService) findLive(ctx context.Context, id uint) (*model.MaintenanceExecution, error) {
	execution, err := s.executionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundError(err, ErrExecutionNotFound)
	}
	if execution.IsDeleted {
		return nil, ErrExecutionNotFound
	}
	return execution, nil
}

func (s *executionService) invalidateDashboard() {
	s.cache.Delete(dashboardSummaryCacheKey)
}

// applyOutcome records or clears the outcome fields that ride along with a
// status change. Done picks up an actual date (request value or today) and a
// compliance classification; leaving Done clears them.
func applyOutcome(execution *model.MaintenanceExecution, req dto.TransitionRequest) error {
	if req.Notes != "" {
		execution.Notes = req.Notes
	}

	switch execution.Status {
	case model.StatusDone:
		actual := utils.TodayWIB()
		if req.ActualDate != "" {
			parsed, err := utils.ParseDate(req.ActualDate)
			if err != nil {
				return fmt.Errorf("%w: bad actual_date: %v", ErrInvalidTransition, err)
			}
			actual = parsed
		}
		execution.ActualDate = &actual
		if actual.After(execution.ScheduledDate) {
			execution.ComplianceType = model.ComplianceLate
		} else {
			execution.ComplianceType = model.ComplianceOnTime
		}
	case model.StatusScheduled:
		execution.ActualDate = nil
		execution.ComplianceType = model.ComplianceNone
	}
	return nil
}

func snapshotOf(execution *model.MaintenanceExecution) (datatypes.JSON, error) {
	snap := model.StatusSnapshot{
		Notes:          execution.Notes,
		ComplianceType: string(execution.ComplianceType),
	}
	if execution.ActualDate != nil {
		snap.ActualDate = utils.ToPointer(utils.FormatDate(*execution.ActualDate))
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func restoreSnapshot(execution *model.MaintenanceExecution, raw datatypes.JSON) error {
	if len(raw) == 0 {
		return nil
	}
	var snap model.StatusSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("corrupt status snapshot: %w", err)
	}

	execution.Notes = snap.Notes
	execution.ComplianceType = model.ComplianceType(snap.ComplianceType)
	execution.ActualDate = nil
	if snap.ActualDate != nil {
		parsed, err := utils.ParseDate(*snap.ActualDate)
		if err != nil {
			return fmt.Errorf("corrupt status snapshot: %w", err)
		}
		execution.ActualDate = &parsed
	}
	return nil
}
