package user

import (
	"strings"
	"time"
)

// Role is the closed set of roles a user can hold. It is assigned at
// registration and never changes afterwards.
type Role string

const (
	RoleEmployee Role = "Employee"
	RoleManager  Role = "Manager"
	RoleAdmin    Role = "Admin"
)

// AllRoles lists every valid role in display order.
var AllRoles = []Role{RoleEmployee, RoleManager, RoleAdmin}

func (r Role) IsValid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole matches case-insensitively so "manager" and "Manager" are the same
// role. An empty value resolves to Employee.
func ParseRole(s string) (Role, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RoleEmployee, true
	}
	for _, known := range AllRoles {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}

// User is the authenticated principal carried through request contexts.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
