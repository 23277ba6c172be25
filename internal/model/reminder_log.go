package model

import "time"

type ReminderType string

const (
	Reminder24hBefore  ReminderType = "24h_before"
	Reminder2hBefore   ReminderType = "2h_before"
	ReminderOnSchedule ReminderType = "on_schedule"
	ReminderOverdue    ReminderType = "overdue"
)

type ReminderStatus string

const (
	ReminderSent   ReminderStatus = "sent"
	ReminderFailed ReminderStatus = "failed"
)

// ReminderLog records every outbound reminder attempt. The (execution, user,
// type) key is how the reminder run dedupes so nobody gets the same nag
// twice; the backing unique index is partial on sent rows so failures never
// block a retry.
type ReminderLog struct {
	ID           uint           `gorm:"primaryKey"`
	ExecutionID  uint           `gorm:"not null;index:idx_reminder_dedupe"`
	UserID       uint           `gorm:"not null;index:idx_reminder_dedupe"`
	ReminderType ReminderType   `gorm:"type:varchar(20);not null;index:idx_reminder_dedupe"`
	Message      string         `gorm:"type:text"`
	Status       ReminderStatus `gorm:"type:varchar(20);not null"`
	ErrorMessage string         `gorm:"type:text"`
	SentAt       time.Time      `gorm:"autoCreateTime"`

	Execution *MaintenanceExecution `gorm:"foreignKey:ExecutionID"`
	User      *User                 `gorm:"foreignKey:UserID"`
}

func (ReminderLog) TableName() string {
	return "reminder_logs"
}
