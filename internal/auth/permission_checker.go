package auth

import (
	"context"
	"fmt"

	"github.com/frahmantamala/access-request/internal/core/user"
)

// CapabilityChecker answers role checks from a fixed grant table.
type CapabilityChecker struct {
	grants map[Capability][]user.Role
}

func NewCapabilityChecker(grants map[Capability][]user.Role) *CapabilityChecker {
	if grants == nil {
		grants = DefaultCapabilities
	}
	return &CapabilityChecker{grants: grants}
}

// Can fails closed: an unknown capability is an error, not a grant.
func (c *CapabilityChecker) Can(ctx context.Context, role user.Role, capability Capability) (bool, error) {
	roles, ok := c.grants[capability]
	if !ok {
		return false, fmt.Errorf("unknown capability %q", capability)
	}
	for _, r := range roles {
		if r == role {
			return true, nil
		}
	}
	return false, nil
}

// RolesFor lists the roles holding capability.
func (c *CapabilityChecker) RolesFor(capability Capability) []user.Role {
	return append([]user.Role(nil), c.grants[capability]...)
}
