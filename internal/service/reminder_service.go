package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"golang-maintenance/config"
	"golang-maintenance/internal/model"
	"golang-maintenance/internal/repository"
	"golang-maintenance/pkg/logger"
	"golang-maintenance/pkg/utils"
)

// Reminder windows are evaluated against WIB wall-clock time. Scheduled
// dates carry no time of day, so the day-of reminders assume work starts at
// workdayStartHour.
const workdayStartHour = 8

type ReminderService interface {
	// Execute runs one reminder pass over due and upcoming executions.
	Execute(ctx context.Context) error
}

type reminderService struct {
	cfg             *config.Config
	log             *logger.Logger
	executionRepo   repository.ExecutionRepository
	reminderLogRepo repository.ReminderLogRepository
	whatsAppRepo    repository.WhatsAppRepository
}

func NewReminderService(
	cfg *config.Config,
	log *logger.Logger,
	executionRepo repository.ExecutionRepository,
	reminderLogRepo repository.ReminderLogRepository,
	whatsAppRepo repository.WhatsAppRepository,
) ReminderService {
	return &reminderService{
		cfg:             cfg,
		log:             log,
		executionRepo:   executionRepo,
		reminderLogRepo: reminderLogRepo,
		whatsAppRepo:    whatsAppRepo,
	}
}

type reminderCandidate struct {
	execution model.MaintenanceExecution
	kind      model.ReminderType
	user      *model.User
}

func (s *reminderService) Execute(ctx context.Context) error {
	now := utils.TimeNowWIB()
	today := utils.DateOnly(now)
	tomorrow := today.AddDate(0, 0, 1)

	// Everything still scheduled up to tomorrow is a potential reminder:
	// past dates feed the overdue nag, today and tomorrow the lead-time ones.
	from := today.AddDate(0, 0, -30)
	executions, err := s.executionRepo.Get(ctx, &model.GetExecutionParam{
		Statuses: []model.ExecutionStatus{model.StatusScheduled},
		DateFrom: &from,
		DateTo:   &tomorrow,
	},
		utils.WithPreload("Template"),
		utils.WithPreload("Template.PIC"),
		utils.WithPreload("Asset"),
		utils.WithPreload("AssignedTo"),
	)
	if err != nil {
		return fmt.Errorf("load reminder candidates: %w", err)
	}

	var candidates []reminderCandidate
	for _, execution := range executions {
		template := execution.Template
		if template == nil || !template.IsActive || template.IsDeleted {
			continue
		}
		recipient := recipientOf(&execution)
		if recipient == nil || recipient.PhoneNumber == "" {
			continue
		}
		for _, kind := range applicableReminders(&execution, now) {
			candidates = append(candidates, reminderCandidate{
				execution: execution,
				kind:      kind,
				user:      recipient,
			})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	limiter := rate.NewLimiter(rate.Limit(s.cfg.Reminder.SendPerSecond), 1)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.cfg.Reminder.MaxConcurrency)

	var sent, failed atomic.Int64
	for _, candidate := range candidates {
		candidate := candidate
		group.Go(func() error {
			if !utils.ShouldContinue(groupCtx, s.log) {
				return groupCtx.Err()
			}
			exists, err := s.reminderLogRepo.Exists(groupCtx, candidate.execution.ID, candidate.user.ID, candidate.kind)
			if err != nil {
				return err
			}
			if exists {
				return nil
			}
			if err := limiter.Wait(groupCtx); err != nil {
				return err
			}
			if s.sendOne(groupCtx, candidate) {
				sent.Add(1)
			} else {
				failed.Add(1)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "Reminder pass finished",
		logger.IntField("candidates", len(candidates)),
		logger.IntField("sent", int(sent.Load())),
		logger.IntField("failed", int(failed.Load())),
	)
	return nil
}

// sendOne delivers a single reminder and records the attempt. A delivery
// failure is logged, not propagated, so one bad phone number cannot stall
// the whole pass.
func (s *reminderService) sendOne(ctx context.Context, candidate reminderCandidate) bool {
	message := composeMessage(candidate)
	logRow := &model.ReminderLog{
		ExecutionID:  candidate.execution.ID,
		UserID:       candidate.user.ID,
		ReminderType: candidate.kind,
		Message:      message,
		Status:       model.ReminderSent,
	}

	if err := s.whatsAppRepo.SendMessage(ctx, candidate.user.PhoneNumber, message); err != nil {
		s.log.ErrorContext(ctx, "Reminder delivery failed",
			logger.IntField("execution_id", int(candidate.execution.ID)),
			logger.StringField("reminder_type", string(candidate.kind)),
			logger.ErrorField(err),
		)
		logRow.Status = model.ReminderFailed
		logRow.ErrorMessage = err.Error()
	}

	if err := s.reminderLogRepo.Create(ctx, logRow); err != nil {
		s.log.ErrorContext(ctx, "Reminder log write failed", logger.ErrorField(err))
		return false
	}
	return logRow.Status == model.ReminderSent
}

// recipientOf picks the assignee when one exists, otherwise the template PIC.
func recipientOf(execution *model.MaintenanceExecution) *model.User {
	if execution.AssignedTo != nil {
		return execution.AssignedTo
	}
	if execution.Template != nil {
		return execution.Template.PIC
	}
	return nil
}

// applicableReminders decides which reminder kinds are live for an execution
// right now. Overdue reminders are always on; the lead-time ones honor the
// template's notification flags.
func applicableReminders(execution *model.MaintenanceExecution, now time.Time) []model.ReminderType {
	template := execution.Template
	scheduled := utils.DateOnly(execution.ScheduledDate)
	today := utils.DateOnly(now)

	var kinds []model.ReminderType
	switch {
	case scheduled.Before(today):
		kinds = append(kinds, model.ReminderOverdue)
	case scheduled.Equal(today):
		if template.Notify2hBefore && now.Hour() >= workdayStartHour-2 {
			kinds = append(kinds, model.Reminder2hBefore)
		}
		if template.NotifyOnSchedule && now.Hour() >= workdayStartHour {
			kinds = append(kinds, model.ReminderOnSchedule)
		}
	default:
		if template.Notify24hBefore {
			kinds = append(kinds, model.Reminder24hBefore)
		}
	}
	return kinds
}

func composeMessage(candidate reminderCandidate) string {
	execution := candidate.execution
	assetName := fmt.Sprintf("aset #%d", execution.AssetID)
	if execution.Asset != nil {
		assetName = execution.Asset.Name
	}
	templateName := fmt.Sprintf("jadwal #%d", execution.TemplateID)
	if execution.Template != nil {
		templateName = execution.Template.Name
	}
	date := utils.FormatDate(execution.ScheduledDate)

	switch candidate.kind {
	case model.Reminder24hBefore:
		return fmt.Sprintf("Pengingat: %s untuk %s dijadwalkan besok (%s).", templateName, assetName, date)
	case model.Reminder2hBefore:
		return fmt.Sprintf("Pengingat: %s untuk %s dimulai sebentar lagi (%s).", templateName, assetName, date)
	case model.ReminderOnSchedule:
		return fmt.Sprintf("Hari ini: %s untuk %s dijadwalkan hari ini (%s).", templateName, assetName, date)
	case model.ReminderOverdue:
		return fmt.Sprintf("Terlambat: %s untuk %s jatuh tempo %s dan belum dikerjakan.", templateName, assetName, date)
	}
	return fmt.Sprintf("Pengingat: %s untuk %s (%s).", templateName, assetName, date)
}
