package auth

import "github.com/frahmantamala/access-request/internal/core/user"

type Capability string

const (
	CapabilityCatalogManage  Capability = "catalog:manage"
	CapabilityRequestSubmit  Capability = "request:submit"
	CapabilityRequestViewOwn Capability = "request:view_own"
	CapabilityRequestReview  Capability = "request:review"
)

// DefaultCapabilities is the role grant table. Roles are not ordered: a
// capability granted to Manager is not implied for Admin.
var DefaultCapabilities = map[Capability][]user.Role{
	CapabilityCatalogManage:  {user.RoleAdmin},
	CapabilityRequestSubmit:  {user.RoleEmployee, user.RoleManager, user.RoleAdmin},
	CapabilityRequestViewOwn: {user.RoleEmployee, user.RoleManager, user.RoleAdmin},
	CapabilityRequestReview:  {user.RoleManager},
}
