package software

import "time"

type Software struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"column:name;size:100;uniqueIndex;not null"`
	Description string `gorm:"column:description;type:text"`
	Version     string `gorm:"column:version;size:50;not null"`
	// pointer so an explicit false is written instead of the column default
	IsActive  *bool     `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Software) TableName() string {
	return "software"
}
