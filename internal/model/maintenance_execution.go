package model

import (
	"fmt"
	"time"

	"golang-maintenance/pkg/utils"
)

type ExecutionStatus string

const (
	StatusScheduled     ExecutionStatus = "Scheduled"
	StatusDone          ExecutionStatus = "Done"
	StatusSkipped       ExecutionStatus = "Skipped"
	StatusNotApplicable ExecutionStatus = "N/A"
)

// KnownStatuses lists every valid execution status. All of them are mutually
// reachable: the transition table has no terminal state so a recorded outcome
// can always be corrected.
var KnownStatuses = []ExecutionStatus{
	StatusScheduled,
	StatusDone,
	StatusSkipped,
	StatusNotApplicable,
}

func (s ExecutionStatus) Valid() bool {
	for _, k := range KnownStatuses {
		if s == k {
			return true
		}
	}
	return false
}

type ComplianceType string

const (
	ComplianceOnTime ComplianceType = "A"
	ComplianceLate   ComplianceType = "B"
	ComplianceProven ComplianceType = "C"
	ComplianceNone   ComplianceType = "None"
)

// MaintenanceExecution is one required unit of work: one template, one asset,
// one due date. The composite unique index is what reconciliation diffs
// against and what absorbs duplicate-creation races.
type MaintenanceExecution struct {
	ID            uint      `gorm:"primaryKey"`
	TemplateID    uint      `gorm:"not null;uniqueIndex:idx_executions_key;index"`
	AssetID       uint      `gorm:"not null;uniqueIndex:idx_executions_key"`
	ScheduledDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_executions_key;index:idx_executions_status_date"`

	Status ExecutionStatus `gorm:"type:varchar(20);not null;default:Scheduled;index:idx_executions_status_date"`

	AssignedToID   *uint
	ActualDate     *time.Time     `gorm:"type:date"`
	Notes          string         `gorm:"type:text"`
	ComplianceType ComplianceType `gorm:"type:varchar(10);default:None"`
	HasAttachment  bool           `gorm:"default:false"`

	IsDeleted   bool `gorm:"default:false"`
	DeletedAt   *time.Time
	DeletedByID *uint

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Template   *MaintenanceTemplate `gorm:"foreignKey:TemplateID"`
	Asset      *Asset               `gorm:"foreignKey:AssetID"`
	AssignedTo *User                `gorm:"foreignKey:AssignedToID"`
	StatusLogs []ExecutionStatusLog `gorm:"foreignKey:ExecutionID"`
}

func (MaintenanceExecution) TableName() string {
	return "maintenance_executions"
}

// CanTransitionTo reports whether a status change is allowed. A same-state
// change is valid but a no-op; only unknown statuses are rejected.
func (e *MaintenanceExecution) CanTransitionTo(newStatus ExecutionStatus) (bool, string) {
	if !newStatus.Valid() {
		return false, fmt.Sprintf("unknown status %q", newStatus)
	}
	if newStatus == e.Status {
		return true, "status unchanged, nothing to do"
	}
	return true, fmt.Sprintf("transition %s -> %s", e.Status, newStatus)
}

// IsOverdue reports whether the work is still only scheduled past its date.
func (e *MaintenanceExecution) IsOverdue(today time.Time) bool {
	return e.Status == StatusScheduled && utils.DateOnly(e.ScheduledDate).Before(utils.DateOnly(today))
}

// DaysOverdue returns how many days past due the execution is, 0 when not overdue.
func (e *MaintenanceExecution) DaysOverdue(today time.Time) int {
	if !e.IsOverdue(today) {
		return 0
	}
	return utils.DaysBetween(e.ScheduledDate, today)
}

// DaysUntilDue returns days remaining until the scheduled date (negative when
// overdue), or false when the execution already has an outcome.
func (e *MaintenanceExecution) DaysUntilDue(today time.Time) (int, bool) {
	if e.Status != StatusScheduled {
		return 0, false
	}
	return utils.DaysBetween(today, e.ScheduledDate), true
}

// ComplianceStatus classifies a recorded outcome against its schedule.
func (e *MaintenanceExecution) ComplianceStatus() string {
	switch e.Status {
	case StatusScheduled:
		return "pending"
	case StatusSkipped, StatusNotApplicable:
		return "not applicable"
	case StatusDone:
		if e.ActualDate == nil {
			return "done (no actual date recorded)"
		}
		if !e.ActualDate.After(e.ScheduledDate) {
			return "on-time"
		}
		return fmt.Sprintf("late, %d days", utils.DaysBetween(e.ScheduledDate, *e.ActualDate))
	}
	return "unknown"
}

// ExecutionKey identifies an execution inside one template's set. Dates are
// normalized to YYYY-MM-DD so the key survives timezone round-trips through
// the database.
type ExecutionKey struct {
	AssetID uint
	Date    string
}

func NewExecutionKey(assetID uint, scheduledDate time.Time) ExecutionKey {
	return ExecutionKey{AssetID: assetID, Date: utils.FormatDate(scheduledDate)}
}

func (e *MaintenanceExecution) Key() ExecutionKey {
	return NewExecutionKey(e.AssetID, e.ScheduledDate)
}

// TemplateComplianceCount is one row of the per-template compliance report.
type TemplateComplianceCount struct {
	TemplateID    uint   `gorm:"column:template_id"`
	TemplateName  string `gorm:"column:template_name"`
	OnTime        int64  `gorm:"column:on_time"`
	Late          int64  `gorm:"column:late"`
	NotApplicable int64  `gorm:"column:not_applicable"`
	Pending       int64  `gorm:"column:pending"`
}

type GetExecutionParam struct {
	TemplateIDs    []uint            `json:"template_ids"`
	AssetIDs       []uint            `json:"asset_ids"`
	Statuses       []ExecutionStatus `json:"statuses"`
	DateFrom       *time.Time        `json:"date_from"`
	DateTo         *time.Time        `json:"date_to"`
	OverdueOnly    bool              `json:"overdue_only"`
	IncludeDeleted bool              `json:"include_deleted"`
	Limit          *int              `json:"limit"`
}
