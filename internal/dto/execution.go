package dto

import (
	"time"

	"golang-maintenance/internal/model"
	"golang-maintenance/pkg/utils"
)

type TransitionRequest struct {
	Status     string `json:"status" validate:"required"`
	Reason     string `json:"reason" validate:"max=255"`
	ActualDate string `json:"actual_date" validate:"omitempty,datetime=2006-01-02"`
	Notes      string `json:"notes"`
}

type AssignRequest struct {
	UserID uint `json:"user_id" validate:"required,min=1"`
}

type ListExecutionsQuery struct {
	TemplateID  uint   `query:"template_id"`
	AssetID     uint   `query:"asset_id"`
	Status      string `query:"status"`
	DateFrom    string `query:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo      string `query:"date_to" validate:"omitempty,datetime=2006-01-02"`
	OverdueOnly bool   `query:"overdue_only"`
	Limit       int    `query:"limit"`
}

type ExecutionResponse struct {
	ID             uint    `json:"id"`
	TemplateID     uint    `json:"template_id"`
	AssetID        uint    `json:"asset_id"`
	ScheduledDate  string  `json:"scheduled_date"`
	Status         string  `json:"status"`
	AssignedToID   *uint   `json:"assigned_to_id,omitempty"`
	ActualDate     *string `json:"actual_date,omitempty"`
	Notes          string  `json:"notes,omitempty"`
	ComplianceType string  `json:"compliance_type"`
	Compliance     string  `json:"compliance"`
	IsOverdue      bool    `json:"is_overdue"`
	DaysOverdue    int     `json:"days_overdue"`
	IsDeleted      bool    `json:"is_deleted"`
}

func NewExecutionResponse(e *model.MaintenanceExecution, today time.Time) *ExecutionResponse {
	resp := &ExecutionResponse{
		ID:             e.ID,
		TemplateID:     e.TemplateID,
		AssetID:        e.AssetID,
		ScheduledDate:  utils.FormatDate(e.ScheduledDate),
		Status:         string(e.Status),
		AssignedToID:   e.AssignedToID,
		Notes:          e.Notes,
		ComplianceType: string(e.ComplianceType),
		Compliance:     e.ComplianceStatus(),
		IsOverdue:      e.IsOverdue(today),
		DaysOverdue:    e.DaysOverdue(today),
		IsDeleted:      e.IsDeleted,
	}
	if e.ActualDate != nil {
		resp.ActualDate = utils.ToPointer(utils.FormatDate(*e.ActualDate))
	}
	return resp
}

func NewExecutionListResponse(executions []model.MaintenanceExecution, today time.Time) []*ExecutionResponse {
	out := make([]*ExecutionResponse, 0, len(executions))
	for i := range executions {
		out = append(out, NewExecutionResponse(&executions[i], today))
	}
	return out
}

type StatusLogResponse struct {
	ID         uint      `json:"id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Reason     string    `json:"reason,omitempty"`
	ChangedBy  *uint     `json:"changed_by,omitempty"`
	ChangedAt  time.Time `json:"changed_at"`
}

func NewStatusLogListResponse(logs []model.ExecutionStatusLog) []*StatusLogResponse {
	out := make([]*StatusLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, &StatusLogResponse{
			ID:         l.ID,
			FromStatus: string(l.FromStatus),
			ToStatus:   string(l.ToStatus),
			Reason:     l.Reason,
			ChangedBy:  l.ChangedByID,
			ChangedAt:  l.ChangedAt,
		})
	}
	return out
}

type DashboardSummary struct {
	TotalExecutions int64                           `json:"total_executions"`
	ByStatus        map[model.ExecutionStatus]int64 `json:"by_status"`
	OverdueCount    int64                           `json:"overdue_count"`
	ComplianceRate  float64                         `json:"compliance_rate"`
	GeneratedAt     time.Time                       `json:"generated_at"`
}

type ComplianceRow struct {
	TemplateID    uint   `json:"template_id"`
	TemplateName  string `json:"template_name"`
	OnTime        int64  `json:"on_time"`
	Late          int64  `json:"late"`
	NotApplicable int64  `json:"not_applicable"`
	Pending       int64  `json:"pending"`
}
