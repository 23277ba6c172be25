package model

import (
	"time"

	"gorm.io/datatypes"
)

// ExecutionStatusLog is the append-only audit trail of status transitions.
// Rows are never updated or deleted; undo works by reading the newest row and
// issuing a forward transition back to its FromStatus.
type ExecutionStatusLog struct {
	ID          uint            `gorm:"primaryKey"`
	ExecutionID uint            `gorm:"not null;index:idx_status_logs_execution,priority:1"`
	FromStatus  ExecutionStatus `gorm:"type:varchar(20);not null"`
	ToStatus    ExecutionStatus `gorm:"type:varchar(20);not null"`
	Reason      string          `gorm:"type:varchar(255)"`
	ChangedByID *uint           `gorm:"index"`
	ChangedAt   time.Time       `gorm:"not null;index:idx_status_logs_execution,priority:2"`

	// Snapshot of the execution's mutable fields at transition time, so undo
	// can restore more than the status enum.
	Snapshot datatypes.JSON `gorm:"type:jsonb"`

	ChangedBy *User `gorm:"foreignKey:ChangedByID"`
}

func (ExecutionStatusLog) TableName() string {
	return "execution_status_logs"
}

// StatusSnapshot is the shape serialized into ExecutionStatusLog.Snapshot.
type StatusSnapshot struct {
	ActualDate     *string `json:"actual_date"`
	Notes          string  `json:"notes"`
	ComplianceType string  `json:"compliance_type"`
}
