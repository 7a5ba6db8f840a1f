package accessrequest

import (
	"strings"
	"time"

	"github.com/frahmantamala/access-request/internal/auth"
	accessRequestDatamodel "github.com/frahmantamala/access-request/internal/core/datamodel/accessrequest"
	"github.com/frahmantamala/access-request/internal/software"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

var AllStatuses = []Status{StatusPending, StatusApproved, StatusRejected}

// ParseStatus is case-insensitive.
func ParseStatus(s string) (Status, bool) {
	s = strings.TrimSpace(s)
	for _, known := range AllStatuses {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}

func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransitionTo allows only a single review of a pending request.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusPending && next.IsTerminal()
}

type Request struct {
	ID         int64              `json:"id"`
	UserID     int64              `json:"userId"`
	SoftwareID int64              `json:"softwareId"`
	Status     Status             `json:"status"`
	Reason     *string            `json:"reason"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
	User       *auth.UserView     `json:"user,omitempty"`
	Software   *software.Software `json:"software,omitempty"`
}

func NewRequest(userID int64, dto CreateRequestDTO) *Request {
	var reason *string
	if trimmed := strings.TrimSpace(dto.Reason); trimmed != "" {
		reason = &dto.Reason
	}
	return &Request{
		UserID:     userID,
		SoftwareID: dto.SoftwareID,
		Status:     StatusPending,
		Reason:     reason,
	}
}

func ToDataModel(r *Request) *accessRequestDatamodel.Request {
	return &accessRequestDatamodel.Request{
		ID:         r.ID,
		UserID:     r.UserID,
		SoftwareID: r.SoftwareID,
		Status:     string(r.Status),
		Reason:     r.Reason,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// FromDataModel converts a stored request, expanding any preloaded relations.
func FromDataModel(r *accessRequestDatamodel.Request) *Request {
	out := &Request{
		ID:         r.ID,
		UserID:     r.UserID,
		SoftwareID: r.SoftwareID,
		Status:     Status(r.Status),
		Reason:     r.Reason,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.User != nil {
		view := auth.NewUserView(auth.FromDataModel(r.User))
		out.User = &view
	}
	if r.Software != nil {
		out.Software = software.FromDataModel(r.Software)
	}
	return out
}
