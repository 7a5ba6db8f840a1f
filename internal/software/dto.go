package software

import "github.com/frahmantamala/access-request/internal/core/common/validation"

type CreateSoftwareDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// UpdateSoftwareDTO is a partial update; nil fields are left unchanged.
type UpdateSoftwareDTO struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Version     *string `json:"version,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

func validateSoftware(s *Software) error {
	v := validation.NewValidator()
	validation.ValidateSoftwareName(v, s.Name)
	validation.ValidateVersion(v, s.Version)
	validation.ValidateDescription(v, s.Description)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
