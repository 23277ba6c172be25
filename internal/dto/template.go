package dto

import (
	"time"

	"golang-maintenance/internal/model"
	"golang-maintenance/pkg/utils"
)

type CreateTemplateRequest struct {
	Name             string `json:"name" validate:"required,max=255"`
	Description      string `json:"description"`
	ScheduleType     string `json:"schedule_type" validate:"required,oneof=interval custom"`
	IntervalDays     int    `json:"interval_days" validate:"omitempty,min=1"`
	CustomDays       []int  `json:"custom_days" validate:"omitempty,dive,min=1,max=31"`
	StartDate        string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate          string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	AssetIDs         []uint `json:"asset_ids" validate:"required,min=1,dive,min=1"`
	Focus            string `json:"focus" validate:"omitempty,oneof=Perawatan Perbaikan Inspeksi Kalibrasi Cleaning Lainnya"`
	Priority         string `json:"priority" validate:"omitempty,oneof=P1 P2 P3 P4"`
	Category         string `json:"category" validate:"omitempty,oneof=Mekanik Elektrik Utility"`
	PICID            *uint  `json:"pic_id"`
	Notify24hBefore  *bool  `json:"notify_24h_before"`
	Notify2hBefore   *bool  `json:"notify_2h_before"`
	NotifyOnSchedule *bool  `json:"notify_on_schedule"`
}

// UpdateTemplateRequest mirrors the create payload; the full schedule and
// asset set are resubmitted and the service diffs against current state.
type UpdateTemplateRequest struct {
	Name             string `json:"name" validate:"required,max=255"`
	Description      string `json:"description"`
	ScheduleType     string `json:"schedule_type" validate:"required,oneof=interval custom"`
	IntervalDays     int    `json:"interval_days" validate:"omitempty,min=1"`
	CustomDays       []int  `json:"custom_days" validate:"omitempty,dive,min=1,max=31"`
	StartDate        string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate          string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	AssetIDs         []uint `json:"asset_ids" validate:"required,min=1,dive,min=1"`
	Focus            string `json:"focus" validate:"omitempty,oneof=Perawatan Perbaikan Inspeksi Kalibrasi Cleaning Lainnya"`
	Priority         string `json:"priority" validate:"omitempty,oneof=P1 P2 P3 P4"`
	Category         string `json:"category" validate:"omitempty,oneof=Mekanik Elektrik Utility"`
	PICID            *uint  `json:"pic_id"`
	Notify24hBefore  *bool  `json:"notify_24h_before"`
	Notify2hBefore   *bool  `json:"notify_2h_before"`
	NotifyOnSchedule *bool  `json:"notify_on_schedule"`
}

type DuplicateTemplateRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// ReconcileResult reports what a generation or reconciliation pass changed.
type ReconcileResult struct {
	Created int64 `json:"created"`
	Removed int64 `json:"removed"`
}

type TemplateResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	ScheduleType string    `json:"schedule_type"`
	IntervalDays int       `json:"interval_days,omitempty"`
	CustomDays   []int     `json:"custom_days,omitempty"`
	StartDate    string    `json:"start_date"`
	EndDate      *string   `json:"end_date,omitempty"`
	Focus        string    `json:"focus"`
	Priority     string    `json:"priority"`
	Category     string    `json:"category"`
	PICID        *uint     `json:"pic_id,omitempty"`
	IsActive     bool      `json:"is_active"`
	IsDeleted    bool      `json:"is_deleted"`
	AssetIDs     []uint    `json:"asset_ids"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewTemplateResponse(t *model.MaintenanceTemplate) *TemplateResponse {
	resp := &TemplateResponse{
		ID:           t.ID,
		Name:         t.Name,
		Description:  t.Description,
		ScheduleType: string(t.ScheduleType),
		IntervalDays: t.IntervalDays,
		CustomDays:   []int(t.CustomDays),
		StartDate:    utils.FormatDate(t.StartDate),
		Focus:        string(t.Focus),
		Priority:     string(t.Priority),
		Category:     t.Category,
		PICID:        t.PICID,
		IsActive:     t.IsActive,
		IsDeleted:    t.IsDeleted,
		AssetIDs:     t.AssetIDs(),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	if t.EndDate != nil {
		resp.EndDate = utils.ToPointer(utils.FormatDate(*t.EndDate))
	}
	return resp
}

func NewTemplateListResponse(templates []model.MaintenanceTemplate) []*TemplateResponse {
	out := make([]*TemplateResponse, 0, len(templates))
	for i := range templates {
		out = append(out, NewTemplateResponse(&templates[i]))
	}
	return out
}
