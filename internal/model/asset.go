package model

import "time"

// Asset is a machine or piece of equipment that preventive work targets.
// The scheduling core only ever uses its identity; the rest of the fields
// exist for the asset directory views.
type Asset struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(255);not null"`
	Code      string `gorm:"type:varchar(50);uniqueIndex"`
	Location  string `gorm:"type:varchar(255)"`
	IsActive  bool   `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Asset) TableName() string {
	return "assets"
}
