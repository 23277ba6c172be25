package model

import "time"

// User carries only what this service needs from the account store:
// a phone number for reminders and the supervisor edge the hierarchy
// queries walk. Authentication lives elsewhere.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"type:varchar(255);not null"`
	PhoneNumber  string `gorm:"type:varchar(20)"`
	SupervisorID *uint  `gorm:"index"`
	IsActive     bool   `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Supervisor *User `gorm:"foreignKey:SupervisorID"`
}

func (User) TableName() string {
	return "users"
}
