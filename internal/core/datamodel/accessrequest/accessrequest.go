package accessrequest

import (
	"time"

	softwareDatamodel "github.com/frahmantamala/access-request/internal/core/datamodel/software"
	userDatamodel "github.com/frahmantamala/access-request/internal/core/datamodel/user"
)

type Request struct {
	ID         int64                       `gorm:"primaryKey"`
	UserID     int64                       `gorm:"column:user_id;not null;index"`
	SoftwareID int64                       `gorm:"column:software_id;not null;index"`
	Status     string                      `gorm:"column:status;size:20;not null;default:Pending;index"`
	Reason     *string                     `gorm:"column:reason;type:text"`
	CreatedAt  time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
	User       *userDatamodel.User         `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Software   *softwareDatamodel.Software `gorm:"foreignKey:SoftwareID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Request) TableName() string {
	return "requests"
}
