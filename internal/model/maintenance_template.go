package model

import (
	"time"

	"gorm.io/datatypes"

	"golang-maintenance/internal/schedule"
)

type JobFocus string

const (
	FocusMaintenance JobFocus = "Perawatan"
	FocusRepair      JobFocus = "Perbaikan"
	FocusInspection  JobFocus = "Inspeksi"
	FocusCalibration JobFocus = "Kalibrasi"
	FocusCleaning    JobFocus = "Cleaning"
	FocusOther       JobFocus = "Lainnya"
)

type JobPriority string

const (
	PriorityUrgent JobPriority = "P1"
	PriorityHigh   JobPriority = "P2"
	PriorityNormal JobPriority = "P3"
	PriorityLow    JobPriority = "P4"
)

// MaintenanceTemplate is the recurring definition a user manages. Executions
// are never created directly; they are materialized from a template by the
// reconciler.
type MaintenanceTemplate struct {
	ID           uint                     `gorm:"primaryKey"`
	Name         string                   `gorm:"type:varchar(255);not null"`
	Description  string                   `gorm:"type:text"`
	ScheduleType schedule.Kind            `gorm:"type:varchar(20);not null;default:interval"`
	IntervalDays int                      `gorm:"default:7"`
	CustomDays   datatypes.JSONSlice[int] `gorm:"type:jsonb"`
	StartDate    time.Time                `gorm:"type:date;not null;index:idx_templates_active_start"`
	EndDate      *time.Time               `gorm:"type:date"`

	Focus    JobFocus    `gorm:"type:varchar(50);default:Perawatan"`
	Priority JobPriority `gorm:"type:varchar(10);default:P3"`
	Category string      `gorm:"type:varchar(20);default:Mekanik"`

	PICID *uint `gorm:"index"`

	Notify24hBefore  bool `gorm:"default:true"`
	Notify2hBefore   bool `gorm:"default:true"`
	NotifyOnSchedule bool `gorm:"default:false"`

	IsActive bool `gorm:"default:true;index:idx_templates_active_start"`

	IsDeleted   bool `gorm:"default:false"`
	DeletedAt   *time.Time
	DeletedByID *uint

	CreatedByID *uint
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	PIC        *User                  `gorm:"foreignKey:PICID"`
	Assets     []Asset                `gorm:"many2many:template_assets"`
	Executions []MaintenanceExecution `gorm:"foreignKey:TemplateID"`
}

func (MaintenanceTemplate) TableName() string {
	return "maintenance_templates"
}

// ScheduleSpec extracts the schedule fields for date expansion.
func (t *MaintenanceTemplate) ScheduleSpec() schedule.Spec {
	return schedule.Spec{
		Kind:         t.ScheduleType,
		IntervalDays: t.IntervalDays,
		CustomDays:   []int(t.CustomDays),
		StartDate:    t.StartDate,
		EndDate:      t.EndDate,
	}
}

// AssetIDs returns the ids of the currently targeted assets.
func (t *MaintenanceTemplate) AssetIDs() []uint {
	ids := make([]uint, 0, len(t.Assets))
	for _, a := range t.Assets {
		ids = append(ids, a.ID)
	}
	return ids
}

type GetTemplateParam struct {
	IDs            []uint `json:"ids"`
	PICIDs         []uint `json:"pic_ids"`
	IsActive       *bool  `json:"is_active"`
	IncludeDeleted bool   `json:"include_deleted"`
	Limit          *int   `json:"limit"`
}
