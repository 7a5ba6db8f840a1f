package software

import (
	"time"

	softwareDatamodel "github.com/frahmantamala/access-request/internal/core/datamodel/software"
)

type Software struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Version     string    `json:"version"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewSoftware(dto CreateSoftwareDTO) *Software {
	active := true
	if dto.IsActive != nil {
		active = *dto.IsActive
	}
	return &Software{
		Name:        dto.Name,
		Description: dto.Description,
		Version:     dto.Version,
		IsActive:    active,
	}
}

// Apply merges the fields present in patch.
func (s *Software) Apply(patch UpdateSoftwareDTO) {
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Description != nil {
		s.Description = *patch.Description
	}
	if patch.Version != nil {
		s.Version = *patch.Version
	}
	if patch.IsActive != nil {
		s.IsActive = *patch.IsActive
	}
}

func ToDataModel(s *Software) *softwareDatamodel.Software {
	active := s.IsActive
	return &softwareDatamodel.Software{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Version:     s.Version,
		IsActive:    &active,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func FromDataModel(s *softwareDatamodel.Software) *Software {
	active := true
	if s.IsActive != nil {
		active = *s.IsActive
	}
	return &Software{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Version:     s.Version,
		IsActive:    active,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
