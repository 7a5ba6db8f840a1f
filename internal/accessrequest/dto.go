package accessrequest

import (
	"github.com/frahmantamala/access-request/internal/core/common/validation"
)

type CreateRequestDTO struct {
	SoftwareID int64  `json:"softwareId"`
	Reason     string `json:"reason"`
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (d CreateRequestDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("softwareId", d.SoftwareID).Required()
	v.Field("reason", d.Reason).MaxLength(validation.MaxReasonLength)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
